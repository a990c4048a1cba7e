package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/yndnr/cmsadmin-go/internal/infra/shutdown"
)

// DefaultPrompt is shown when no session is active.
const DefaultPrompt = "cms> "

// Executor runs one parsed command line.
type Executor func(ctx context.Context, args []string) error

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     *bufio.Reader
	output    io.Writer
	completer *Completer
	history   *History
	exec      Executor
	interrupt func(context.Context) (context.Context, context.CancelFunc)

	mu     sync.Mutex
	prompt string
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams. A *bufio.Reader input is used
// as is so that callers can share it.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		if br, ok := in.(*bufio.Reader); ok {
			r.input = br
		} else {
			r.input = bufio.NewReader(in)
		}
		r.output = out
	}
}

// WithCompleter sets the completer used to expand command prefixes.
func WithCompleter(c *Completer) Option {
	return func(r *REPL) {
		r.completer = c
	}
}

// WithHistory sets the command history.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// WithInterrupt sets how a per-command context is derived. The default
// cancels the command on SIGINT or SIGTERM.
func WithInterrupt(fn func(context.Context) (context.Context, context.CancelFunc)) Option {
	return func(r *REPL) {
		r.interrupt = fn
	}
}

// New creates a new REPL instance.
func New(exec Executor, opts ...Option) *REPL {
	r := &REPL{
		input:     bufio.NewReader(os.Stdin),
		output:    os.Stdout,
		completer: NewCompleter(),
		history:   NewHistory("", 0),
		exec:      exec,
		interrupt: shutdown.Notify,
		prompt:    DefaultPrompt,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetPrompt replaces the prompt. It is safe to call from any goroutine.
func (r *REPL) SetPrompt(p string) {
	r.mu.Lock()
	r.prompt = p
	r.mu.Unlock()
}

// Prompt returns the current prompt.
func (r *REPL) Prompt() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prompt
}

// History returns the command history.
func (r *REPL) History() *History {
	return r.history
}

// Run reads and executes lines until EOF, "exit" or "quit". Command
// errors are printed and do not end the loop.
func (r *REPL) Run(ctx context.Context) error {
	for {
		fmt.Fprint(r.output, r.Prompt())

		line, err := r.input.ReadString('\n')
		line = strings.TrimSpace(line)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return err
			}
			if line == "" {
				fmt.Fprintln(r.output)
				return nil
			}
		}
		if line == "" {
			continue
		}
		r.history.Add(line)

		switch line {
		case "exit", "quit":
			return nil
		case "history":
			r.printHistory()
			continue
		}

		if err := r.execute(ctx, line); err != nil {
			fmt.Fprintf(r.output, "Error: %v\n", err)
		}
	}
}

func (r *REPL) execute(ctx context.Context, line string) error {
	args, err := Split(line)
	if err != nil {
		return err
	}
	args, err = r.completer.Resolve(args)
	if err != nil {
		return err
	}

	cmdCtx, stop := r.interrupt(ctx)
	defer stop()
	return r.exec(cmdCtx, args)
}

func (r *REPL) printHistory() {
	for i, entry := range r.history.Entries() {
		fmt.Fprintf(r.output, "%5d  %s\n", i+1, entry)
	}
}

// Split breaks a command line into arguments. Single and double quotes
// group words; a backslash escapes the next character outside single
// quotes.
func Split(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inArg   bool
		quote   rune
		escaped bool
	)

	for _, ch := range line {
		switch {
		case escaped:
			cur.WriteRune(ch)
			escaped = false
		case ch == '\\' && quote != '\'':
			escaped = true
			inArg = true
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				cur.WriteRune(ch)
			}
		case ch == '"' || ch == '\'':
			quote = ch
			inArg = true
		case ch == ' ' || ch == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(ch)
			inArg = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, errors.New("trailing backslash")
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
