// Package gemini asks the Gemini API a single question, with the user's
// recent shell history attached as context.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/archterm/gemini/internal/history"
	"github.com/charmbracelet/log"
	"google.golang.org/genai"
)

const (
	// DefaultModel is the Gemini model used when none is configured.
	DefaultModel = "gemini-2.5-flash"
	// DefaultMaxOutputTokens caps the length of an answer.
	DefaultMaxOutputTokens = 500
	// DefaultTemperature keeps answers focused.
	DefaultTemperature float32 = 0.3
	// DefaultHistoryLines is how many history lines are sent as context.
	DefaultHistoryLines = 50

	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv = "GOOGLE_API_KEY"

	// NoResponseMessage stands in for an answer when the service returns no
	// text at all.
	NoResponseMessage = "🚫 No response received from Gemini or response was empty."
)

// ErrMissingAPIKey is returned by Ask when APIKeyEnv is unset or empty.
var ErrMissingAPIKey = errors.New("API key not found. Set the environment variable " + APIKeyEnv + ".")

// Generator produces content for a prompt. *genai.Models satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeneratorFactory builds a Generator for one request. baseURL may be empty
// to use the public endpoint.
type GeneratorFactory func(ctx context.Context, apiKey, baseURL string) (Generator, error)

// Options configures a Client.
type Options struct {
	Model           string
	MaxOutputTokens int32
	Temperature     float32
	Persona         string

	// HistoryPath is the shell history file; "~/" is expanded. Empty means
	// ~/.bash_history.
	HistoryPath  string
	HistoryLines int

	// BaseURL overrides the Gemini API endpoint.
	BaseURL string

	// NewGenerator defaults to NewGenAIGenerator.
	NewGenerator GeneratorFactory
}

// Client sends questions to Gemini.
type Client struct {
	opts Options
}

// NewClient returns a Client for opts, filling in the model, persona, output
// size and generator factory when they are left empty.
func NewClient(opts Options) *Client {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Persona == "" {
		opts.Persona = DefaultPersona
	}
	if opts.MaxOutputTokens <= 0 {
		opts.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if opts.NewGenerator == nil {
		opts.NewGenerator = NewGenAIGenerator
	}
	return &Client{opts: opts}
}

// Model returns the model the client will query.
func (c *Client) Model() string {
	return c.opts.Model
}

// NewGenAIGenerator creates a genai client for the Gemini API backend and
// returns its Models service.
func NewGenAIGenerator(ctx context.Context, apiKey, baseURL string) (Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return client.Models, nil
}

// Ask sends question, prefixed with the persona and recent shell history, and
// returns the answer text.
//
// A missing API key or a failure to build the API client is returned as an
// error before any request is made. Once the request is under way, failures
// are reported in the returned text instead: a service error becomes
// "Error while querying Gemini: ..." and an empty answer becomes
// NoResponseMessage.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	apiKey := os.Getenv(APIKeyEnv)
	if apiKey == "" {
		return "", ErrMissingAPIKey
	}

	generator, err := c.opts.NewGenerator(ctx, apiKey, c.opts.BaseURL)
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}

	prompt := BuildPrompt(c.opts.Persona, c.recentHistory(), question)
	log.Debug("querying gemini", "model", c.opts.Model, "prompt_chars", len(prompt))

	resp, err := generator.GenerateContent(ctx, c.opts.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: c.opts.MaxOutputTokens,
		Temperature:     genai.Ptr(c.opts.Temperature),
	})
	if err != nil {
		log.Debug("gemini request failed", "err", err)
		return fmt.Sprintf("Error while querying Gemini: %v", err), nil
	}

	var text string
	if resp != nil {
		text = resp.Text()
	}
	if text == "" {
		return NoResponseMessage, nil
	}
	log.Debug("gemini answered", "chars", len(text))
	return text, nil
}

// recentHistory reads the configured history file. Any failure yields an
// empty string; history is optional context.
func (c *Client) recentHistory() string {
	path, err := history.ExpandPath(c.opts.HistoryPath)
	if err != nil {
		log.Debug("history unavailable", "err", err)
		return ""
	}
	lines, err := history.Read(path, c.opts.HistoryLines)
	if err != nil {
		log.Debug("history unavailable", "path", path, "err", err)
		return ""
	}
	return lines
}
