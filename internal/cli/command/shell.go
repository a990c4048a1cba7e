package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/cmsadmin-go/internal/cli/config"
	"github.com/yndnr/cmsadmin-go/internal/cli/repl"
	"github.com/yndnr/cmsadmin-go/internal/core/domain"
	"github.com/yndnr/cmsadmin-go/internal/infra/confloader"
	"github.com/yndnr/cmsadmin-go/internal/telemetry/logger"
)

var inShell atomic.Bool

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Start an interactive shell",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history",
				Usage: "History file, empty to disable",
				Value: config.HistoryPath(),
			},
		},
		Action: runShell,
	}
}

func runShell(c *cli.Context) error {
	if !inShell.CompareAndSwap(false, true) {
		return errors.New("already in a shell")
	}
	defer inShell.Store(false)

	env := GetEnv(c)
	mgr, err := env.Manager(c.Context)
	if err != nil {
		return err
	}
	log := env.Logger()

	history := repl.NewHistory(c.String("history"), 0)
	if err := history.Load(); err != nil {
		log.Warn("failed to load history", "error", err)
	}

	shell := repl.New(
		func(ctx context.Context, args []string) error {
			app := NewApp(env)
			return app.RunContext(ctx, append([]string{app.Name}, args...))
		},
		repl.WithIO(env.Input(), env.Stdout),
		repl.WithCompleter(repl.NewCompleter(CommandPaths(Commands())...)),
		repl.WithHistory(history),
	)

	shell.SetPrompt(prompt(mgr.Store().Get()))
	unsubscribe := mgr.Store().Subscribe(func(s *domain.Session) {
		shell.SetPrompt(prompt(s))
	})
	defer unsubscribe()

	stopWatch := watchConfig(env)
	defer stopWatch()

	fmt.Fprintf(env.Stderr, "Connected to %s. Type \"help\" for commands, \"exit\" to leave.\n", mgr.Client().BaseURL())

	// Ctrl-C cancels the running command only; the shell ends on exit or EOF.
	err = shell.Run(context.WithoutCancel(c.Context))
	if saveErr := history.Save(); saveErr != nil {
		log.Warn("failed to save history", "error", saveErr)
	}
	return err
}

func prompt(s *domain.Session) string {
	if s == nil {
		return repl.DefaultPrompt
	}
	return s.Username + "@" + repl.DefaultPrompt
}

// CommandPaths lists every command path of cmds ("article list") plus
// "help".
func CommandPaths(cmds []*cli.Command) []string {
	paths := []string{"help"}
	var walk func(prefix string, cmds []*cli.Command)
	walk = func(prefix string, cmds []*cli.Command) {
		for _, cmd := range cmds {
			path := strings.TrimSpace(prefix + " " + cmd.Name)
			paths = append(paths, path)
			walk(path, cmd.Subcommands)
		}
	}
	walk("", cmds)
	return paths
}

// watchConfig reloads env whenever the config file is written. The
// returned function stops watching.
func watchConfig(env *Env) (stop func()) {
	path := env.ConfigPath()
	log := env.Logger()

	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		log.Debug("config directory missing, not watching", "path", path)
		return func() {}
	}

	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(logger.Slog(log)))
	if err != nil {
		log.Warn("config watcher unavailable", "error", err)
		return func() {}
	}
	if err := w.Watch(path); err != nil {
		w.Stop()
		return func() {}
	}

	w.OnChange(func(string) {
		if err := env.Reload(); err != nil {
			log.Warn("config reload failed", "error", err)
		}
	})
	w.StartAsync()
	return func() { w.Stop() }
}
