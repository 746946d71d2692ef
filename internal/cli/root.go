package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/betgate/internal/factory"
)

// runtime is the per-invocation state shared by subcommands
type runtime struct {
	cfg    *Config
	envErr error
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rt := &runtime{}
	rt.cfg, rt.envErr = LoadConfig()
	if rt.cfg == nil {
		rt.cfg = &Config{Storage: factory.StorageTypeMemory, Output: "text"}
	}
	cfg := rt.cfg

	rootCmd := &cobra.Command{
		Use:   "betgate",
		Short: "Betting platform access layer",
		Long: `betgate runs the betting platform access layer in-process.

Users register, log in as regular users or admins, place bets and block
accounts through a line-oriented shell, a script file or the built-in demo.
State lives only as long as the process.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if rt.envErr != nil {
				return &UsageError{msg: rt.envErr.Error()}
			}
			return cfg.Validate()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json (env: BETGATE_OUTPUT)")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Debug logging to stderr")
	rootCmd.PersistentFlags().StringVar(&cfg.Storage, "storage", cfg.Storage, "Storage backend: memory, redis (env: BETGATE_STORAGE)")
	rootCmd.PersistentFlags().StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL (env: BETGATE_REDIS_URL)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{msg: err.Error()}
	})

	// Add subcommands
	rootCmd.AddCommand(newShellCmd(rt))
	rootCmd.AddCommand(newRunCmd(rt))
	rootCmd.AddCommand(newDemoCmd(rt))

	return rootCmd
}

// open wires an application for one command invocation
func (rt *runtime) open(cmd *cobra.Command) (*factory.App, *Interpreter, *Output, error) {
	logger := rt.cfg.Logger(cmd.ErrOrStderr())
	app, err := factory.New(rt.cfg.FactoryConfig(logger))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("start platform: %w", err)
	}
	out := NewOutput(rt.cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
	return app, NewInterpreter(app.Platform, logger), out, nil
}

// Run executes the CLI with explicit streams and returns the exit code
func Run(args []string, in io.Reader, out, errOut io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	err := cmd.Execute()
	if err == nil {
		return ExitOK
	}

	// Command failures were already printed as results
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		slog.New(slog.NewTextHandler(errOut, nil)).Error("betgate failed", slog.String("error", err.Error()))
	}
	return ExitCode(err)
}

// Execute runs the root command against the process streams
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
