package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	out    io.Writer
	errOut io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, out, errOut io.Writer) *Output {
	return &Output{format: format, out: out, errOut: errOut}
}

// JSON reports whether machine-readable output is selected
func (o *Output) JSON() bool {
	return o.format == "json"
}

// ErrorBody is the error part of a JSON result line
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ResultLine is printed once per command in JSON mode
type ResultLine struct {
	Command string     `json:"command"`
	OK      bool       `json:"ok"`
	Result  any        `json:"result,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// UserResult describes a user in command results
type UserResult struct {
	UserName string `json:"username"`
	Role     string `json:"role"`
}

// StatusResult describes the session state
type StatusResult struct {
	State    string `json:"state"`
	UserName string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

// MessageResult is a plain confirmation
type MessageResult struct {
	Message string `json:"message"`
}

// Print outputs the outcome of one command
func (o *Output) Print(r Result) {
	if o.JSON() {
		o.printJSON(r)
		return
	}
	if r.Err != nil {
		o.PrintError(r.Err)
		return
	}
	o.printText(r.Value)
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.JSON() {
		data, _ := json.Marshal(ResultLine{
			OK:    false,
			Error: &ErrorBody{Code: ErrorCode(err), Message: err.Error()},
		})
		_, _ = fmt.Fprintln(o.errOut, string(data))
		return
	}
	_, _ = fmt.Fprintf(o.errOut, "Error: %s (%s)\n", err, ErrorCode(err))
}

// Prompt writes the interactive prompt in text mode
func (o *Output) Prompt(prompt string) {
	if !o.JSON() && prompt != "" {
		_, _ = fmt.Fprint(o.out, prompt)
	}
}

func (o *Output) printJSON(r Result) {
	line := ResultLine{Command: r.Command, OK: r.Err == nil, Result: r.Value}
	if r.Err != nil {
		line.Error = &ErrorBody{Code: ErrorCode(r.Err), Message: r.Err.Error()}
	}
	data, _ := json.Marshal(line)
	_, _ = fmt.Fprintln(o.out, string(data))
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case nil:
	case MessageResult:
		_, _ = fmt.Fprintln(o.out, v.Message)
	case UserResult:
		_, _ = fmt.Fprintf(o.out, "%s (%s)\n", v.UserName, v.Role)
	case StatusResult:
		o.printStatus(v)
	case []string:
		o.printList(v)
	default:
		// Fallback to JSON for unknown types
		data, _ := json.Marshal(v)
		_, _ = fmt.Fprintln(o.out, string(data))
	}
}

func (o *Output) printStatus(s StatusResult) {
	if s.UserName == "" {
		_, _ = fmt.Fprintf(o.out, "State: %s\n", s.State)
		return
	}
	_, _ = fmt.Fprintf(o.out, "State: %s\nUser:  %s (%s)\n", s.State, s.UserName, s.Role)
}

func (o *Output) printList(items []string) {
	if len(items) == 0 {
		_, _ = fmt.Fprintln(o.out, "(none)")
		return
	}
	_, _ = fmt.Fprintln(o.out, strings.Join(items, "\n"))
}
