package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/cmsadmin-go/internal/cli/output"
	"github.com/yndnr/cmsadmin-go/internal/core/domain"
	"github.com/yndnr/cmsadmin-go/internal/core/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// resourceCommand describes the command group of one CMS resource.
type resourceCommand[R, S any, In domain.Input] struct {
	name    string
	aliases []string
	// noun is used in messages, e.g. "home section".
	noun    string
	usage   string
	client  func(*service.Client) *service.Resource[R, S, In]
	columns []output.Column[S]
	extra   []*cli.Command
}

func (r resourceCommand[R, S, In]) command() *cli.Command {
	subs := []*cli.Command{r.list(), r.get(), r.save(), r.delete()}
	return &cli.Command{
		Name:        r.name,
		Aliases:     r.aliases,
		Usage:       r.usage,
		Subcommands: append(subs, r.extra...),
	}
}

func (r resourceCommand[R, S, In]) resource(c *cli.Context) (*service.Resource[R, S, In], error) {
	client, err := clientFor(c)
	if err != nil {
		return nil, err
	}
	return r.client(client), nil
}

func (r resourceCommand[R, S, In]) list() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List " + r.noun + " records",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "page",
				Usage: "Page number, starting at 1",
			},
			&cli.IntFlag{
				Name:  "page-size",
				Usage: "Records per page",
			},
		},
		Action: func(c *cli.Context) error {
			page := domain.Page{Page: c.Int("page"), PageSize: c.Int("page-size")}
			if page.Page < 0 || page.PageSize < 0 {
				return errors.New("--page and --page-size must not be negative")
			}
			lang, err := language(c)
			if err != nil {
				return err
			}
			res, err := r.resource(c)
			if err != nil {
				return err
			}

			list, err := call(c, func(ctx context.Context) (domain.List[S], error) {
				return res.List(ctx, lang, page)
			})
			if err != nil {
				return err
			}

			return render(c, list, func() (*output.Table, error) {
				table := output.Rows(list.Items, c.Bool("wide"), r.columns...)
				if list.Total != nil {
					table.Footer = fmt.Sprintf("Total: %d", *list.Total)
				}
				return table, nil
			})
		},
	}
}

func (r resourceCommand[R, S, In]) get() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Show one " + r.noun,
		ArgsUsage: "ID",
		Action: func(c *cli.Context) error {
			id, err := requireArg(c, "ID")
			if err != nil {
				return err
			}
			lang, err := language(c)
			if err != nil {
				return err
			}
			res, err := r.resource(c)
			if err != nil {
				return err
			}

			rec, err := call(c, func(ctx context.Context) (*R, error) {
				return res.Retrieve(ctx, id, lang)
			})
			if err != nil {
				return err
			}
			if rec == nil {
				return fmt.Errorf("%s %s not found", r.noun, id)
			}

			return render(c, rec, func() (*output.Table, error) {
				return output.Detail(rec)
			})
		},
	}
}

func (r resourceCommand[R, S, In]) save() *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Create or update a " + r.noun + " from a JSON document (an \"id\" field updates)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "JSON file to read, - for stdin",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			data, err := readDocument(GetEnv(c), c.String("file"))
			if err != nil {
				return err
			}

			var in In
			if err := json.Unmarshal(data, &in); err != nil {
				return fmt.Errorf("parse %s: %w", c.String("file"), err)
			}

			res, err := r.resource(c)
			if err != nil {
				return err
			}

			id, err := call(c, func(ctx context.Context) (string, error) {
				return res.Save(ctx, in)
			})
			if err != nil {
				return err
			}

			verb := "Created"
			if in.HasID() {
				verb = "Updated"
			}
			return message(c, map[string]string{"id": id}, "%s %s %s.", verb, r.noun, id)
		},
	}
}

func (r resourceCommand[R, S, In]) delete() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a " + r.noun,
		ArgsUsage: "ID",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Do not ask for confirmation",
			},
		},
		Action: func(c *cli.Context) error {
			id, err := requireArg(c, "ID")
			if err != nil {
				return err
			}

			if !c.Bool("force") {
				ok, err := confirm(GetEnv(c), fmt.Sprintf("Delete %s %s? [y/N] ", r.noun, id))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(GetEnv(c).Stderr, "Aborted.")
					return nil
				}
			}

			res, err := r.resource(c)
			if err != nil {
				return err
			}
			if _, err := call(c, func(ctx context.Context) (struct{}, error) {
				return struct{}{}, res.Delete(ctx, id)
			}); err != nil {
				return err
			}
			return message(c, map[string]string{"deleted": id}, "Deleted %s %s.", r.noun, id)
		},
	}
}

func requireArg(c *cli.Context, name string) (string, error) {
	arg := c.Args().First()
	if arg == "" {
		return "", requireArgs(c, name+" argument")
	}
	return arg, nil
}

func requireArgs(c *cli.Context, what string) error {
	return fmt.Errorf("missing %s (usage: %s %s)", what, c.Command.HelpName, c.Command.ArgsUsage)
}

func readDocument(env *Env, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(env.Input())
	}
	return os.ReadFile(path)
}

func confirm(env *Env, prompt string) (bool, error) {
	answer, err := env.ReadLine(prompt)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
