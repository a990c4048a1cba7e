package command

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/cmsadmin-go/internal/cli/output"
	"github.com/yndnr/cmsadmin-go/internal/core/domain"
	"github.com/yndnr/cmsadmin-go/internal/core/service"
)

// cellWidth bounds free-text table cells.
const cellWidth = 48

// ResourceCommands returns one command group per CMS resource.
func ResourceCommands() []*cli.Command {
	return []*cli.Command{
		homeCommand(),
		serviceCommand(),
		articleCommand(),
		memberCommand(),
		categoryCommand(),
		contactCommand(),
	}
}

func seq(n int) string {
	return strconv.Itoa(n)
}

func homeCommand() *cli.Command {
	return resourceCommand[domain.Home, domain.Home, domain.HomeInput]{
		name:   "home",
		noun:   "home section",
		usage:  "Manage home page sections",
		client: func(c *service.Client) *service.Home { return c.Home },
		columns: []output.Column[domain.Home]{
			{Header: "ID", Value: func(h domain.Home) string { return h.ID }},
			{Header: "SEQ", Value: func(h domain.Home) string { return seq(h.Seq) }},
			{Header: "LANG", Wide: true, Value: func(h domain.Home) string { return string(h.Language) }},
			{Header: "DATA", Value: func(h domain.Home) string { return output.Truncate(h.Data.Data, cellWidth) }},
		},
	}.command()
}

func serviceCommand() *cli.Command {
	return resourceCommand[domain.Service, domain.Service, domain.ServiceInput]{
		name:    "service",
		aliases: []string{"services"},
		noun:    "service",
		usage:   "Manage offered services",
		client:  func(c *service.Client) *service.Services { return c.Services },
		columns: []output.Column[domain.Service]{
			{Header: "ID", Value: func(s domain.Service) string { return s.ID }},
			{Header: "SEQ", Value: func(s domain.Service) string { return seq(s.Seq) }},
			{Header: "TITLE", Value: func(s domain.Service) string { return s.Data.Title }},
			{Header: "ICON", Wide: true, Value: func(s domain.Service) string { return s.Data.Icon }},
			{Header: "LANG", Wide: true, Value: func(s domain.Service) string { return string(s.Language) }},
			{Header: "DATA", Wide: true, Value: func(s domain.Service) string { return output.Truncate(s.Data.Data, cellWidth) }},
		},
	}.command()
}

func articleCommand() *cli.Command {
	return resourceCommand[domain.Article, domain.ArticleSummary, domain.ArticleInput]{
		name:    "article",
		aliases: []string{"articles"},
		noun:    "article",
		usage:   "Manage articles",
		client: func(c *service.Client) *service.Resource[domain.Article, domain.ArticleSummary, domain.ArticleInput] {
			return c.Articles.Resource
		},
		columns: []output.Column[domain.ArticleSummary]{
			{Header: "ID", Value: func(a domain.ArticleSummary) string { return a.ID }},
			{Header: "SEQ", Value: func(a domain.ArticleSummary) string { return seq(a.Seq) }},
			{Header: "TITLE", Value: func(a domain.ArticleSummary) string { return output.Truncate(a.Title, cellWidth) }},
			{Header: "CREATED", Value: func(a domain.ArticleSummary) string { return output.FormatValue(a.CreatedAt) }},
			{Header: "LANG", Wide: true, Value: func(a domain.ArticleSummary) string { return string(a.Language) }},
		},
		extra: []*cli.Command{articleViewCommand()},
	}.command()
}

func articleViewCommand() *cli.Command {
	return &cli.Command{
		Name:      "view",
		Usage:     "Record one view of an article",
		ArgsUsage: "ID",
		Action: func(c *cli.Context) error {
			id, err := requireArg(c, "ID")
			if err != nil {
				return err
			}
			client, err := clientFor(c)
			if err != nil {
				return err
			}
			if _, err := call(c, func(ctx context.Context) (struct{}, error) {
				return struct{}{}, client.Articles.View(ctx, id)
			}); err != nil {
				return err
			}
			return message(c, map[string]string{"viewed": id}, "Recorded a view of article %s.", id)
		},
	}
}

func memberCommand() *cli.Command {
	return resourceCommand[domain.Member, domain.MemberSummary, domain.MemberInput]{
		name:    "member",
		aliases: []string{"members"},
		noun:    "member",
		usage:   "Manage team members",
		client: func(c *service.Client) *service.Resource[domain.Member, domain.MemberSummary, domain.MemberInput] {
			return c.Members.Resource
		},
		columns: []output.Column[domain.MemberSummary]{
			{Header: "ID", Value: func(m domain.MemberSummary) string { return m.ID }},
			{Header: "SEQ", Value: func(m domain.MemberSummary) string { return seq(m.Seq) }},
			{Header: "NAME", Value: func(m domain.MemberSummary) string { return m.Name }},
			{Header: "AVATAR", Wide: true, Value: func(m domain.MemberSummary) string { return m.Avatar }},
		},
		extra: []*cli.Command{memberAvatarCommand()},
	}.command()
}

func memberAvatarCommand() *cli.Command {
	return &cli.Command{
		Name:      "avatar",
		Usage:     "Upload a new avatar image for a member",
		ArgsUsage: "ID FILE",
		Action: func(c *cli.Context) error {
			env := GetEnv(c)
			id, path := c.Args().Get(0), c.Args().Get(1)
			if id == "" || path == "" {
				return requireArgs(c, "ID and FILE")
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			client, err := clientFor(c)
			if err != nil {
				return err
			}

			var spinner *output.Spinner
			if env.Interactive() {
				spinner = output.NewSpinner(env.Stderr, "Uploading "+filepath.Base(path))
				spinner.Start()
			}

			_, err = call(c, func(ctx context.Context) (struct{}, error) {
				return struct{}{}, client.Members.UploadAvatar(ctx, id, filepath.Base(path), f)
			})
			if spinner != nil {
				if err != nil {
					spinner.Fail("Upload failed")
				} else {
					spinner.Success("Upload complete")
				}
			}
			if err != nil {
				return err
			}
			return message(c, map[string]string{"member": id, "avatar": filepath.Base(path)}, "Avatar of member %s updated.", id)
		},
	}
}

func categoryCommand() *cli.Command {
	return resourceCommand[domain.Category, domain.Category, domain.CategoryInput]{
		name:    "category",
		aliases: []string{"categories"},
		noun:    "category",
		usage:   "Manage article categories",
		client:  func(c *service.Client) *service.Categories { return c.Categories },
		columns: []output.Column[domain.Category]{
			{Header: "ID", Value: func(cat domain.Category) string { return cat.ID }},
			{Header: "SEQ", Value: func(cat domain.Category) string { return seq(cat.Seq) }},
			{Header: "NAME", Value: func(cat domain.Category) string { return cat.Data.Name }},
			{Header: "ICON", Wide: true, Value: func(cat domain.Category) string { return cat.Data.Icon }},
			{Header: "LANG", Wide: true, Value: func(cat domain.Category) string { return string(cat.Language) }},
		},
	}.command()
}

func contactCommand() *cli.Command {
	return resourceCommand[domain.Contact, domain.Contact, domain.ContactInput]{
		name:   "contact",
		noun:   "contact details",
		usage:  "Manage contact details",
		client: func(c *service.Client) *service.Contact { return c.Contact },
		columns: []output.Column[domain.Contact]{
			{Header: "ID", Value: func(ct domain.Contact) string { return ct.ID }},
			{Header: "SEQ", Value: func(ct domain.Contact) string { return seq(ct.Seq) }},
			{Header: "LANG", Wide: true, Value: func(ct domain.Contact) string { return string(ct.Language) }},
			{Header: "DATA", Value: func(ct domain.Contact) string { return output.Truncate(string(ct.Data), cellWidth) }},
		},
	}.command()
}
