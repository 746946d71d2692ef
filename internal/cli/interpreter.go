package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/mcoot/betgate/internal/model"
	"github.com/mcoot/betgate/internal/services/platform"
)

// Result is the outcome of one interpreted command
type Result struct {
	Command string
	Value   any
	Err     error
}

const helpText = `Commands:
  register <user> <pass> <admin|regular>  create an account
  login <user> <pass>                     open a session
  logout                                  close the session
  bet <text...>                           place a bet (regular users)
  bets                                    list your bets (regular users)
  users                                   list regular users (admins)
  blocked                                 list blocked users (admins)
  block <user>                            block a user (admins)
  status                                  show the session state
  help                                    show this help
  exit | quit                             leave the shell`

// Interpreter executes text commands against a platform
type Interpreter struct {
	platform *platform.Platform
	logger   *slog.Logger
}

// NewInterpreter creates an Interpreter over p
func NewInterpreter(p *platform.Platform, logger *slog.Logger) *Interpreter {
	return &Interpreter{platform: p, logger: logger}
}

// errExit signals the exit/quit command
var errExit = errors.New("exit")

// Exec runs a single command line. Blank lines and comments yield a
// Result with an empty Command.
func (i *Interpreter) Exec(ctx context.Context, line string) Result {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Result{}
	}

	name, rest, _ := strings.Cut(line, " ")
	name = strings.ToLower(name)
	rest = strings.TrimSpace(rest)

	value, err := i.dispatch(ctx, name, rest)
	if err != nil {
		value = nil
	}
	if !errors.Is(err, errExit) {
		i.logger.Debug("command executed",
			slog.String("command", name),
			slog.Bool("ok", err == nil),
			slog.String("code", ErrorCode(err)),
		)
	}
	return Result{Command: name, Value: value, Err: err}
}

// RunOptions controls RunScript
type RunOptions struct {
	// FailFast stops at the first failing command
	FailFast bool
	// Prompt is printed before each line in text mode
	Prompt string
}

// RunScript executes every line of r, printing each result to out. With
// FailFast the first failing command ends the run as an *ExitError.
func (i *Interpreter) RunScript(ctx context.Context, r io.Reader, out *Output, opts RunOptions) error {
	scanner := bufio.NewScanner(r)
	out.Prompt(opts.Prompt)
	for scanner.Scan() {
		res := i.Exec(ctx, scanner.Text())
		if errors.Is(res.Err, errExit) {
			return nil
		}
		if res.Command != "" {
			out.Print(res)
			if res.Err != nil && opts.FailFast {
				return &ExitError{Err: res.Err}
			}
		}
		out.Prompt(opts.Prompt)
	}
	return scanner.Err()
}

func (i *Interpreter) dispatch(ctx context.Context, name, rest string) (any, error) {
	args := strings.Fields(rest)

	switch name {
	case "register":
		if len(args) != 3 {
			return nil, usageErrorf("usage: register <user> <pass> <admin|regular>")
		}
		role, err := model.ParseRole(args[2])
		if err != nil {
			return nil, err
		}
		user, err := i.platform.Register(ctx, args[0], args[1], role)
		if err != nil {
			return nil, err
		}
		return userResult(user), nil

	case "login":
		if len(args) != 2 {
			return nil, usageErrorf("usage: login <user> <pass>")
		}
		user, err := i.platform.Login(ctx, args[0], args[1])
		if err != nil {
			return nil, err
		}
		return userResult(user), nil

	case "logout":
		i.platform.Logout()
		return MessageResult{Message: "Logged out"}, nil

	case "bet":
		if err := i.platform.PlaceBet(ctx, rest); err != nil {
			return nil, err
		}
		return MessageResult{Message: "Bet placed"}, nil

	case "bets":
		return i.platform.ListBets(ctx)

	case "users":
		return i.platform.ListRegularUsers(ctx)

	case "blocked":
		return i.platform.ListBlockedUsers(ctx)

	case "block":
		if len(args) != 1 {
			return nil, usageErrorf("usage: block <user>")
		}
		if err := i.platform.BlockUser(ctx, args[0]); err != nil {
			return nil, err
		}
		return MessageResult{Message: "Blocked " + args[0]}, nil

	case "status":
		snap := i.platform.Status()
		return StatusResult{
			State:    string(snap.State),
			UserName: snap.UserName,
			Role:     string(snap.Role),
		}, nil

	case "help":
		return MessageResult{Message: helpText}, nil

	case "exit", "quit":
		return nil, errExit

	default:
		return nil, usageErrorf("unknown command %q (try help)", name)
	}
}

func userResult(u *model.User) UserResult {
	return UserResult{UserName: u.UserName, Role: string(u.Role)}
}
