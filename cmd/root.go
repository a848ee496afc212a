package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/archterm/gemini/internal/config"
	"github.com/archterm/gemini/internal/gemini"
	"github.com/archterm/gemini/internal/ui"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// UsageLine is printed when no question is given.
const UsageLine = "Usage: gemini 'your question here'"

// ErrUsage is returned when the command is run without a question. The usage
// line has already been printed; callers should only set the exit status.
var ErrUsage = errors.New("no question given")

var (
	configFile   string
	modelFlag    string
	debugMode    bool
	maxTokens    int
	temperature  float32
	historyFile  string
	historyLines int
	providerURL  string
	spinnerFlag  bool

	// configErr holds a config loading failure until the command runs, so
	// it is reported the same way as any other failure.
	configErr error
)

// asker is the part of *gemini.Client the command needs.
type asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// newAsker builds the client for one invocation.
var newAsker = func(s config.Settings) asker {
	return gemini.NewClient(s.GeminiOptions())
}

// rootCmd asks Gemini the question formed by its arguments.
var rootCmd = &cobra.Command{
	Use:   "gemini <question...>",
	Short: "Ask Gemini a question from your shell",
	Long: `Ask Gemini a question from your shell.

All arguments are joined into one question. Your recent bash history is sent
along as context, and the answer is printed with shell commands highlighted.

The API key is read from the GOOGLE_API_KEY environment variable (a .env file
in the current directory is honoured). Settings can also come from
.gemini.yml in the current or home directory, or GEMINI_* variables.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	// Flags are parsed in RunE so that arguments which do not parse as
	// flags are asked as the question instead of failing the command.
	DisableFlagParsing: true,
}

// GetRootCommand returns the root command with the version set. It is the
// entry point used by main.
func GetRootCommand(v string) *cobra.Command {
	rootCmd.Version = v
	return rootCmd
}

// parseQuestion parses leading flags from args and returns the remaining
// words joined as the question. If the flags fail to parse, ask for help or
// the version, or leave no words behind, every flag is reset to its default
// and the whole of args is the question.
func parseQuestion(flags *pflag.FlagSet, args []string) string {
	err := flags.Parse(args)
	if err == nil && flags.NArg() > 0 && !flags.Changed("help") && !flags.Changed("version") {
		return strings.Join(flags.Args(), " ")
	}
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	return strings.Join(args, " ")
}

// InitConfig loads .env, then the config file, into the global viper
// instance. It runs once flags are parsed, so --config and --debug apply.
func InitConfig() {
	configErr = nil
	configureLogging(viper.GetBool(config.KeyDebug))
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Debug("ignoring .env file", "err", err)
	}
	if err := config.Init(viper.GetViper(), configFile); err != nil {
		configErr = err
	}
}

func init() {
	// RunE is set here rather than in the rootCmd literal because runAsk
	// refers to rootCmd, which would otherwise be an initialization cycle.
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			fmt.Fprintln(out, UsageLine)
			return ErrUsage
		}
		question := parseQuestion(cmd.Flags(), args)
		InitConfig()
		return runAsk(cmd.Context(), out, question)
	}

	config.SetDefaults(viper.GetViper())

	flags := rootCmd.Flags()
	// Everything after the first word belongs to the question.
	flags.SetInterspersed(false)

	flags.StringVar(&configFile, "config", "", "config file (default is .gemini.yml in the current or home directory)")
	flags.StringVarP(&modelFlag, config.KeyModel, "m", gemini.DefaultModel, "Gemini model to query")
	flags.IntVar(&maxTokens, config.KeyMaxTokens, gemini.DefaultMaxOutputTokens, "maximum number of tokens in the answer")
	flags.Float32Var(&temperature, config.KeyTemperature, gemini.DefaultTemperature, "sampling temperature (0.0-2.0)")
	flags.StringVar(&historyFile, config.KeyHistoryFile, "~/.bash_history", "shell history file sent as context")
	flags.IntVar(&historyLines, config.KeyHistoryLines, gemini.DefaultHistoryLines, "number of history lines sent as context (0 to disable)")
	flags.StringVar(&providerURL, config.KeyProviderURL, "", "base URL for the Gemini API")
	flags.BoolVar(&spinnerFlag, config.KeySpinner, true, "show a spinner on stderr while waiting")
	flags.BoolVar(&debugMode, config.KeyDebug, false, "enable debug logging on stderr")

	// Bind flags to viper for config file support
	for _, key := range []string{
		config.KeyModel,
		config.KeyMaxTokens,
		config.KeyTemperature,
		config.KeyHistoryFile,
		config.KeyHistoryLines,
		config.KeyProviderURL,
		config.KeySpinner,
		config.KeyDebug,
	} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}
}

// configureLogging sends structured logs to stderr. Only warnings and errors
// are shown unless debug is set.
func configureLogging(debug bool) {
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(false)
	log.SetPrefix("gemini")
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
		return
	}
	log.SetLevel(log.WarnLevel)
	log.SetReportCaller(false)
}

// runAsk resolves settings, asks the question and prints the formatted
// answer to out. Failures are printed as ui.ErrorLine; only the usage case
// produces an error for the caller.
func runAsk(ctx context.Context, out io.Writer, question string) error {
	settings := config.FromViper(viper.GetViper())
	configureLogging(settings.Debug)

	if configErr != nil {
		log.Error("failed to load config", "err", configErr)
		fmt.Fprintln(out, ui.ErrorLine)
		return nil
	}
	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("loaded config", "path", used)
	}
	log.Debug("settings", "version", rootCmd.Version, "model", settings.Model, "max_tokens", settings.MaxTokens,
		"temperature", settings.Temperature, "history_file", settings.HistoryFile,
		"history_lines", settings.HistoryLines)

	showSpinner := settings.Spinner && term.IsTerminal(int(os.Stderr.Fd()))
	fmt.Fprintln(out, answer(ctx, newAsker(settings), question, showSpinner))
	return nil
}

// answer asks a and formats the result. Errors and panics from either step
// are logged and replaced with ui.ErrorLine.
func answer(ctx context.Context, a asker, question string, showSpinner bool) (result string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("unexpected failure", "panic", r)
			result = ui.ErrorLine
		}
	}()

	var (
		text string
		err  error
	)
	ui.ShowSpinner(os.Stderr, showSpinner, "Asking Gemini", func() {
		text, err = a.Ask(ctx, question)
	})
	if err != nil {
		log.Error("query failed", "err", err)
		return ui.ErrorLine
	}
	return ui.FormatResponse(text)
}
