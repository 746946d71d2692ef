package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// demoScript replays the classic walkthrough: a regular user bets, an
// admin lists and blocks them, and the blocked user is turned away.
var demoScript = []string{
	"register Pasha pashok regular",
	"login Pasha pashok",
	"bet Milan-Genoa: W1",
	"bet Dynamo-Fiorentina: W1",
	"block Pasha",
	"login Pasha pashok",
	"logout",
	"login Pasha pashok",
	"register Sasha green admin",
	"logout",
	"register Sasha green admin",
	"login Sasha green",
	"users",
	"block Pasha",
	"users",
	"blocked",
	"login Pasha green",
	"logout",
	"login Pasha green",
	"status",
}

func newShellCmd(rt *runtime) *cobra.Command {
	var (
		failFast bool
		prompt   string
	)

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Read commands interactively from stdin",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, interp, out, err := rt.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			return interp.RunScript(cmd.Context(), cmd.InOrStdin(), out, RunOptions{
				FailFast: failFast,
				Prompt:   prompt,
			})
		},
	}

	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Exit at the first failing command")
	cmd.Flags().StringVar(&prompt, "prompt", "betgate> ", "Prompt shown in text mode")

	return cmd
}

func newRunCmd(rt *runtime) *cobra.Command {
	var failFast bool

	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Execute commands from a script file",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			app, interp, out, err := rt.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			return interp.RunScript(cmd.Context(), f, out, RunOptions{FailFast: failFast})
		},
	}

	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Exit at the first failing command with its exit code")

	return cmd
}

func newDemoCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the built-in demonstration sequence",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, interp, out, err := rt.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			script := strings.NewReader(strings.Join(demoScript, "\n"))
			return interp.RunScript(cmd.Context(), script, out, RunOptions{})
		},
	}
}

// usageArgs turns positional-argument errors into usage errors
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &UsageError{msg: err.Error()}
		}
		return nil
	}
}

