package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/specarith/internal/app"
	"github.com/vk/specarith/internal/arithexpr"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("specarith", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprintf(output, `
specarith - Derive new spectra from arithmetic over loaded ones.

Usage:
  specarith [options] [SESSION_PATH]

Arguments:
  SESSION_PATH
    Path to a single .hcl session file or a directory containing .hcl files.

Expressions:
  Reference a loaded spectrum as {name}, optionally followed by .flux,
  .wavelength, .frequency or .velocity. Functions may be written bare or
  with an np., numpy. or math. prefix:
    %s

Options:
`, strings.Join(arithexpr.FunctionNames(), " "))
		flagSet.PrintDefaults()
	}

	sessionFlag := flagSet.String("session", "", "Path to the session file or directory.")
	sFlag := flagSet.String("s", "", "Path to the session file or directory (shorthand).")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	checkFlag := flagSet.Bool("check", false, "Validate only; exit with status 1 if any derived equation is invalid.")
	explainFlag := flagSet.Bool("explain", false, "Print the spectra and functions each derived equation uses.")
	hubURLFlag := flagSet.String("hub-url", "", "Mirror workspace changes to this socket.io server. Empty is disabled.")
	hubNamespaceFlag := flagSet.String("hub-namespace", "/", "socket.io namespace used with -hub-url.")
	cacheTTLFlag := flagSet.Duration("cache-ttl", arithexpr.DefaultCacheTTL, "How long evaluated expressions are reused.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *sessionFlag != "" {
		path = *sessionFlag
	} else if *sFlag != "" {
		path = *sFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Session path determined.", "path", path)

	if path == "" {
		slog.Debug("No session path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	hubNamespace := ""
	if *hubURLFlag != "" {
		hubNamespace = *hubNamespaceFlag
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		SessionPath:  path,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		Check:        *checkFlag,
		Explain:      *explainFlag,
		HubURL:       *hubURLFlag,
		HubNamespace: hubNamespace,
		CacheTTL:     *cacheTTLFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
