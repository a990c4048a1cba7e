package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/cmsadmin-go/internal/cli/output"
	"github.com/yndnr/cmsadmin-go/internal/core/domain"
	"github.com/yndnr/cmsadmin-go/internal/core/service"
	"github.com/yndnr/cmsadmin-go/internal/telemetry/logger"
)

// sessionInfo is the printable view of a session. The token is masked.
type sessionInfo struct {
	Server   string `json:"server"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

func newSessionInfo(client *service.Client, sess *domain.Session) sessionInfo {
	return sessionInfo{
		Server:   client.BaseURL(),
		UserID:   sess.UserID,
		Username: sess.Username,
		Token:    logger.RedactToken(sess.Token),
	}
}

// LoginCommand returns the login command.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and remember the session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "Account name (prompted when omitted)",
			},
			&cli.BoolFlag{
				Name:  "password-stdin",
				Usage: "Read the password from the first line of stdin",
			},
		},
		Action: runLogin,
	}
}

func runLogin(c *cli.Context) error {
	env := GetEnv(c)

	username := c.String("username")
	if username == "" {
		var err error
		if username, err = env.ReadLine("Username: "); err != nil {
			return err
		}
	}

	password, err := readPassword(c, "Password: ")
	if err != nil {
		return err
	}

	client, err := clientFor(c)
	if err != nil {
		return err
	}

	sess, err := call(c, func(ctx context.Context) (*domain.Session, error) {
		return client.SignIn(ctx, username, password)
	})
	if err != nil {
		return err
	}

	return message(c, newSessionInfo(client, sess), "Logged in as %s.", sess.Username)
}

// LogoutCommand returns the logout command.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "End the session on the server and forget it locally",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "policy",
				Usage: "What to do when the server call fails: fail-closed keeps the local session, fail-open forgets it",
				Value: service.FailClosed.String(),
			},
			&cli.BoolFlag{
				Name:  "fail-open",
				Usage: "Shorthand for --policy fail-open",
			},
		},
		Action: runLogout,
	}
}

func runLogout(c *cli.Context) error {
	env := GetEnv(c)

	policy, err := service.ParseLogoutPolicy(c.String("policy"))
	if err != nil {
		return err
	}
	if c.Bool("fail-open") {
		policy = service.FailOpen
	}

	client, err := clientFor(c)
	if err != nil {
		return err
	}

	cleared, err := call(c, func(ctx context.Context) (bool, error) {
		return client.SignOut(ctx, policy)
	})
	switch {
	case err == nil:
		return message(c, map[string]bool{"cleared": true}, "Logged out.")
	case cleared:
		env.Logger().Warn("server logout failed", "policy", policy, "code", domain.GetErrorCode(err), "error", err)
		fmt.Fprintf(env.Stderr, "warning: %v\n", err)
		return message(c, map[string]bool{"cleared": true}, "Local session cleared.")
	case errors.Is(err, domain.ErrUnauthenticated):
		return err
	default:
		return fmt.Errorf("%w; local session kept (use --fail-open to discard it)", err)
	}
}

// WhoamiCommand returns the whoami command.
func WhoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the current session",
		Action: func(c *cli.Context) error {
			client, err := clientFor(c)
			if err != nil {
				return err
			}
			sess := client.Session()
			if sess == nil {
				return domain.ErrUnauthenticated
			}

			info := newSessionInfo(client, sess)
			return render(c, info, func() (*output.Table, error) {
				return output.Detail(info)
			})
		},
	}
}

// PasswdCommand returns the passwd command.
func PasswdCommand() *cli.Command {
	return &cli.Command{
		Name:  "passwd",
		Usage: "Change the password of the logged-in user",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "password-stdin",
				Usage: "Read the new password from the first line of stdin",
			},
		},
		Action: runPasswd,
	}
}

func runPasswd(c *cli.Context) error {
	client, err := clientFor(c)
	if err != nil {
		return err
	}
	if client.Session() == nil {
		return domain.ErrUnauthenticated
	}

	password, err := readPassword(c, "New password: ")
	if err != nil {
		return err
	}
	if !c.Bool("password-stdin") {
		confirm, err := GetEnv(c).Secret("Confirm password: ")
		if err != nil {
			return err
		}
		if confirm != password {
			return errors.New("passwords do not match")
		}
	}

	if _, err := call(c, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, client.Users.ChangePassword(ctx, password)
	}); err != nil {
		return err
	}
	return message(c, map[string]bool{"changed": true}, "Password changed.")
}

func readPassword(c *cli.Context, prompt string) (string, error) {
	env := GetEnv(c)
	if c.Bool("password-stdin") {
		return env.ReadLine("")
	}
	return env.Secret(prompt)
}
