package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/cmsadmin-go/internal/cli/config"
)

// ConfigCommand returns the config command group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show and edit the configuration",
		Subcommands: []*cli.Command{
			configShowCommand(),
			configGetCommand(),
			configSetCommand(),
			configPathCommand(),
		},
	}
}

func configShowCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Show the effective configuration (file, environment and flags)",
		Action: func(c *cli.Context) error {
			return render(c, config.Flatten(GetEnv(c).Config()), nil)
		},
	}
}

func configGetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Show one effective configuration value",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			key, err := requireArg(c, "KEY")
			if err != nil {
				return err
			}
			value, ok := config.Flatten(GetEnv(c).Config())[key]
			if !ok {
				return fmt.Errorf("unknown config key %q", key)
			}
			return message(c, map[string]any{key: value}, "%v", value)
		},
	}
}

func configSetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Write one value to the config file",
		ArgsUsage: "KEY VALUE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return requireArgs(c, "KEY and VALUE")
			}
			key, value := c.Args().Get(0), c.Args().Get(1)

			env := GetEnv(c)
			if err := config.SetValue(env.ConfigPath(), key, value); err != nil {
				return err
			}
			env.Logger().Debug("config value written", "key", key, "path", env.ConfigPath())
			return message(c, map[string]string{key: value}, "Set %s = %s in %s.", key, value, env.ConfigPath())
		},
	}
}

func configPathCommand() *cli.Command {
	return &cli.Command{
		Name:  "path",
		Usage: "Print the config file path",
		Action: func(c *cli.Context) error {
			path := GetEnv(c).ConfigPath()
			return message(c, map[string]string{"path": path}, "%s", path)
		},
	}
}
