package command

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/cmsadmin-go/internal/cli/output"
	"github.com/yndnr/cmsadmin-go/internal/core/domain"
	"github.com/yndnr/cmsadmin-go/internal/core/service"
	"github.com/yndnr/cmsadmin-go/internal/infra/buildinfo"
	"github.com/yndnr/cmsadmin-go/internal/transport"
)

const envKey = "env"

// NewApp creates the CLI application on env.
func NewApp(env *Env) *cli.App {
	return &cli.App{
		Name:                 "cmsadmin",
		Usage:                "Manage the content of a CMS site",
		Version:              buildinfo.String(),
		Flags:                globalFlags(),
		Reader:               env.Stdin,
		Writer:               env.Stdout,
		ErrWriter:            env.Stderr,
		EnableBashCompletion: true,
		Metadata:             map[string]any{envKey: env},
		Commands:             Commands(),
		Before: func(c *cli.Context) error {
			return env.Configure(c.String("config"), flagOverrides(c))
		},
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// Commands returns the top-level commands.
func Commands() []*cli.Command {
	cmds := []*cli.Command{
		LoginCommand(),
		LogoutCommand(),
		WhoamiCommand(),
		PasswdCommand(),
	}
	cmds = append(cmds, ResourceCommands()...)
	return append(cmds,
		ConfigCommand(),
		VersionCommand(),
		MetricsCommand(),
		ShellCommand(),
	)
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "CMS server address (e.g., https://cms.example.com)",
			EnvVars: []string{"CMSADMIN_SERVER"},
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file path",
			EnvVars: []string{"CMSADMIN_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "lang",
			Aliases: []string{"l"},
			Usage:   "Content language: en, zh",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
	}
}

// flagOverrides maps the global flags the user set to config keys.
func flagOverrides(c *cli.Context) map[string]any {
	flags := make(map[string]any)
	if c.IsSet("server") {
		flags["api.server"] = c.String("server")
	}
	if c.IsSet("lang") {
		flags["language"] = c.String("lang")
	}
	if c.IsSet("output") {
		flags["output"] = c.String("output")
	}
	if c.Bool("verbose") {
		flags["log.level"] = "debug"
	}
	return flags
}

// GetEnv retrieves the Env from context.
func GetEnv(c *cli.Context) *Env {
	if env, ok := c.App.Metadata[envKey].(*Env); ok {
		return env
	}
	return nil
}

// clientFor returns the API client of the Env's connection.
func clientFor(c *cli.Context) (*service.Client, error) {
	mgr, err := GetEnv(c).Manager(c.Context)
	if err != nil {
		return nil, err
	}
	return mgr.Client(), nil
}

// call runs fn as a pending operation bound to the command context, so
// that an interrupt cancels the request.
func call[T any](c *cli.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	return transport.Go(c.Context, fn).Await(c.Context)
}

// language returns the effective content language.
func language(c *cli.Context) (domain.Language, error) {
	if c.IsSet("lang") {
		return domain.ParseLanguage(c.String("lang"))
	}
	return domain.ParseLanguage(GetEnv(c).Config().Language)
}

// formatter returns the output formatter for this invocation.
func formatter(c *cli.Context) (output.Format, output.Formatter, error) {
	name := GetEnv(c).Config().Output
	if c.IsSet("output") {
		name = c.String("output")
	}
	format, err := output.ParseFormat(name)
	if err != nil {
		return "", nil, err
	}
	return format, output.NewFormatter(format, c.Bool("wide")), nil
}

// render writes data in the selected format. table, when non-nil, is
// used for table output in place of data.
func render(c *cli.Context, data any, table func() (*output.Table, error)) error {
	format, f, err := formatter(c)
	if err != nil {
		return err
	}

	w := GetEnv(c).Stdout
	if format == output.FormatTable && table != nil {
		t, err := table()
		if err != nil || t == nil {
			return err
		}
		return f.Format(w, t)
	}
	return f.Format(w, data)
}

// message prints a status line for table output. Structured formats get
// data instead so that scripts can parse it.
func message(c *cli.Context, data any, format string, args ...any) error {
	return render(c, data, func() (*output.Table, error) {
		printf(GetEnv(c).Stdout, format+"\n", args...)
		return nil, nil
	})
}

func printf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}
