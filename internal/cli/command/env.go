package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/yndnr/cmsadmin-go/internal/cli/config"
	"github.com/yndnr/cmsadmin-go/internal/cli/connection"
	"github.com/yndnr/cmsadmin-go/internal/infra/shutdown"
	"github.com/yndnr/cmsadmin-go/internal/telemetry/logger"
)

// closeTimeout bounds the Env close hooks.
const closeTimeout = 5 * time.Second

// Env is the state shared by the commands of one process: streams, the
// resolved configuration and the lazily opened connection. The shell
// keeps one Env for all the lines it runs.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// ReadPassword reads a secret without echo. When nil, the terminal is
	// used if stdin is one, otherwise a plain line is read.
	ReadPassword func(prompt string) (string, error)

	mu      sync.RWMutex
	cfg     *config.CLIConfig
	cfgPath string
	flags   map[string]any
	log     logger.Logger

	inputOnce sync.Once
	input     *bufio.Reader

	mgrMu sync.Mutex
	mgr   *connection.Manager

	closer *shutdown.Handler
}

// NewEnv creates an Env on the given streams.
func NewEnv(stdin io.Reader, stdout, stderr io.Writer) *Env {
	e := &Env{
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		log:    logger.Default(),
		closer: shutdown.NewHandler(closeTimeout),
	}
	e.closer.OnShutdown(func(context.Context) error {
		e.mgrMu.Lock()
		defer e.mgrMu.Unlock()
		if e.mgr == nil {
			return nil
		}
		return e.mgr.Close()
	})
	return e
}

// Configure loads the configuration from path with the flag overrides and
// installs the logger. It is a no-op once the Env is configured.
func (e *Env) Configure(path string, flags map[string]any) error {
	if e.Configured() {
		return nil
	}

	cfg, err := config.Load(path, flags)
	if err != nil {
		return err
	}
	if path == "" {
		path = config.DefaultConfigPath()
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Output: e.Stderr,
	})
	if err != nil {
		return err
	}
	logger.SetDefault(log)
	e.OnClose(func(context.Context) error { return logger.Close(log) })

	e.mu.Lock()
	e.cfg = cfg
	e.cfgPath = path
	e.flags = flags
	e.log = log
	e.mu.Unlock()

	log.Debug("configuration loaded", "path", path, "server", cfg.API.Server)
	return nil
}

// UseConfig installs an already resolved configuration.
func (e *Env) UseConfig(cfg *config.CLIConfig, path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = cfg
	e.cfgPath = path
}

// Configured reports whether a configuration is installed.
func (e *Env) Configured() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg != nil
}

// Config returns a copy of the current configuration.
func (e *Env) Config() *config.CLIConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.cfg == nil {
		return config.Default()
	}
	cfg := *e.cfg
	return &cfg
}

// ConfigPath returns the config file in use.
func (e *Env) ConfigPath() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.cfgPath == "" {
		return config.DefaultConfigPath()
	}
	return e.cfgPath
}

// Logger returns the process logger.
func (e *Env) Logger() logger.Logger {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.log
}

// Reload re-reads the config file and applies the settings that can
// change while the shell runs: language, output and log level. Flags given
// on the command line keep their precedence.
func (e *Env) Reload() error {
	e.mu.RLock()
	path, flags := e.cfgPath, e.flags
	e.mu.RUnlock()

	next, err := config.Load(path, flags)
	if err != nil {
		return err
	}

	e.mu.Lock()
	if e.cfg == nil {
		e.mu.Unlock()
		return errors.New("configuration not loaded")
	}
	restart := next.API.Server != e.cfg.API.Server || next.Session != e.cfg.Session
	e.cfg.Language = next.Language
	e.cfg.Output = next.Output
	e.cfg.Log.Level = next.Log.Level
	log := e.log
	e.mu.Unlock()

	logger.SetLevel(next.Log.Level)
	log.Info("configuration reloaded",
		"language", next.Language,
		"output", next.Output,
		"log_level", next.Log.Level)
	if restart {
		log.Warn("server and session settings apply after restarting the shell")
	}
	return nil
}

// Manager returns the connection, opening it on first use.
func (e *Env) Manager(ctx context.Context) (*connection.Manager, error) {
	e.mgrMu.Lock()
	defer e.mgrMu.Unlock()

	if e.mgr != nil {
		return e.mgr, nil
	}
	mgr, err := connection.Open(ctx, e.Config(), connection.WithLogger(e.Logger()))
	if err != nil {
		return nil, err
	}
	e.mgr = mgr
	return mgr, nil
}

// OnClose registers a hook run by Close, in reverse order.
func (e *Env) OnClose(hook func(context.Context) error) {
	e.closer.OnShutdown(hook)
}

// Close runs the close hooks and releases the connection. Later calls
// return the first result.
func (e *Env) Close() error {
	return e.closer.Shutdown()
}

// Input returns the buffered stdin shared by prompts and the shell.
func (e *Env) Input() *bufio.Reader {
	e.inputOnce.Do(func() {
		if br, ok := e.Stdin.(*bufio.Reader); ok {
			e.input = br
			return
		}
		e.input = bufio.NewReader(e.Stdin)
	})
	return e.input
}

// ReadLine prints prompt to stderr and reads one line from stdin.
func (e *Env) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(e.Stderr, prompt)
	}
	line, err := e.Input().ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", errors.New("unexpected end of input")
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Secret reads a password, without echo when stdin is a terminal.
func (e *Env) Secret(prompt string) (string, error) {
	if e.ReadPassword != nil {
		return e.ReadPassword(prompt)
	}
	if f, ok := e.Stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(e.Stderr, prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(e.Stderr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return e.ReadLine("")
}

// Interactive reports whether stderr is a terminal.
func (e *Env) Interactive() bool {
	f, ok := e.Stderr.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
