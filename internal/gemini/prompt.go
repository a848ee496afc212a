package gemini

import "strings"

// DefaultPersona is the instruction placed ahead of every question. It
// steers answers toward short, bash-ready solutions for an Arch Linux user.
const DefaultPersona = "You are an assistant for an Arch Linux user. " +
	"Any question related to Linux, bash, or system configuration " +
	"should be answered assuming commands are executed from a bash terminal. " +
	"Provide clear, short, and effective solutions. " +
	"If the user asks where your executable file is, say it is located at ~/bin/gemini. " +
	"If the question is unrelated to bash, just answer normally."

// BuildPrompt joins the persona, the recent shell history and the user's
// question into the single text part sent to the model.
func BuildPrompt(persona, history, question string) string {
	var b strings.Builder
	b.Grow(len(persona) + len(history) + len(question) + 48)
	b.WriteString(persona)
	b.WriteString("\nRecent bash history:\n")
	b.WriteString(history)
	b.WriteString("\nUser question: ")
	b.WriteString(question)
	return b.String()
}
