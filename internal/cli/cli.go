// Package cli turns command-line arguments into an app.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/qmrc/internal/app"
)

// ExitError carries a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

const usage = `qmrc - specializes architecture specifications into QMR solver artifacts.

Usage:
  qmrc specialize -spec FILE [-out DIR] [-debug]
  qmrc run -artifact FILE -circuit FILE [-graph FILE] [-mode MODE] [-deadline D] [-tuning FILE]

Commands:
  specialize   Compile an architecture specification into a solver artifact.
  run          Solve a circuit against a specialized artifact.

Global options (both commands):
  -log-format  Log output format: 'text' or 'json'. Default 'json'.
  -log-level   Log level: 'debug', 'info', 'warn', 'error'. Default 'info'.
`

// Parse processes args. It returns a populated config, a boolean indicating
// the program should exit cleanly (help requested), or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	if len(args) == 0 {
		fmt.Fprint(output, usage)
		return nil, true, nil
	}

	command := args[0]
	switch command {
	case "help", "-h", "--help":
		fmt.Fprint(output, usage)
		return nil, true, nil
	case app.CommandSpecialize, app.CommandRun:
	default:
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q, see 'qmrc help'", command)}
	}

	flagSet := flag.NewFlagSet("qmrc "+command, flag.ContinueOnError)
	flagSet.SetOutput(output)

	cfg := app.Config{Command: command}
	flagSet.StringVar(&cfg.LogFormat, "log-format", "json", "Log output format: 'text' or 'json'.")
	flagSet.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: 'debug', 'info', 'warn', 'error'.")

	switch command {
	case app.CommandSpecialize:
		flagSet.StringVar(&cfg.SpecPath, "spec", "", "Path to the architecture specification file.")
		flagSet.StringVar(&cfg.OutDir, "out", "", "Output directory for the artifact. Defaults next to the specification.")
		flagSet.BoolVar(&cfg.Debug, "debug", false, "Embed debug mode in the artifact and write a model dump.")
	case app.CommandRun:
		flagSet.StringVar(&cfg.ArtifactPath, "artifact", "", "Path to the specialized solver artifact.")
		flagSet.StringVar(&cfg.CircuitPath, "circuit", "", "Path to the circuit file.")
		flagSet.StringVar(&cfg.GraphPath, "graph", "", "Path to a runtime connectivity graph (JSON edge list). Defaults to the full architecture.")
		flagSet.StringVar(&cfg.ModeToken, "mode", "heuristic", "Solve mode: 'exact', 'heuristic' or 'sabre'.")
		flagSet.StringVar(&cfg.TuningPath, "tuning", "", "Path to a tuning configuration (YAML). Defaults apply when omitted.")
		flagSet.DurationVar(&cfg.Deadline, "deadline", 0, "Search deadline, e.g. '500ms'. 0 disables the deadline.")
	}

	if err := flagSet.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return validated, false, nil
}
