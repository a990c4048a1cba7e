package command

import (
	"errors"
	"fmt"
	"net"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/cmsadmin-go/internal/cli/output"
	"github.com/yndnr/cmsadmin-go/internal/infra/buildinfo"
	"github.com/yndnr/cmsadmin-go/internal/server/httpserver"
	"github.com/yndnr/cmsadmin-go/internal/telemetry/metric"
)

// metricsPrefix selects the client's own metric families.
const metricsPrefix = "cmsadmin_"

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show build information",
		Action: func(c *cli.Context) error {
			info := buildinfo.Get()
			return render(c, info, func() (*output.Table, error) {
				return output.Detail(info)
			})
		},
	}
}

// MetricsCommand returns the metrics command.
func MetricsCommand() *cli.Command {
	return &cli.Command{
		Name:  "metrics",
		Usage: "Print client metrics in the Prometheus text format",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Include Go runtime and process metrics",
			},
		},
		Action: func(c *cli.Context) error {
			reg, err := metricsRegistry(c)
			if err != nil {
				return err
			}
			prefix := metricsPrefix
			if c.Bool("all") {
				prefix = ""
			}
			return reg.WriteText(GetEnv(c).Stdout, prefix)
		},
		Subcommands: []*cli.Command{metricsServeCommand()},
	}
}

func metricsServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Expose client metrics over HTTP until interrupted",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Listen address",
				Value: "127.0.0.1:9464",
			},
			&cli.StringSliceFlag{
				Name:  "allow",
				Usage: "Client IP or CIDR allowed to scrape (repeatable; default any)",
			},
		},
		Action: func(c *cli.Context) error {
			allow, err := httpserver.ParseAllowList(c.StringSlice("allow"))
			if err != nil {
				return err
			}
			reg, err := metricsRegistry(c)
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", c.String("listen"))
			if err != nil {
				return err
			}
			env := GetEnv(c)
			fmt.Fprintf(env.Stderr, "Serving metrics on http://%s/metrics\n", ln.Addr())

			router := httpserver.NewRouter(httpserver.RouterConfig{
				Registry:  reg,
				Logger:    env.Logger(),
				AllowList: allow,
			})
			return httpserver.New(router).Serve(c.Context, ln)
		},
	}
}

func metricsRegistry(c *cli.Context) (*metric.Registry, error) {
	mgr, err := GetEnv(c).Manager(c.Context)
	if err != nil {
		return nil, err
	}
	if mgr.Metrics() == nil {
		return nil, errors.New("metrics are disabled (cmsadmin config set metrics.enabled true)")
	}
	return mgr.Metrics(), nil
}
