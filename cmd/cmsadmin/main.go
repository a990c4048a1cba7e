package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yndnr/cmsadmin-go/internal/cli/command"
	"github.com/yndnr/cmsadmin-go/internal/infra/shutdown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := shutdown.Notify(context.Background())
	defer stop()

	env := command.NewEnv(os.Stdin, os.Stdout, os.Stderr)
	defer env.Close()

	app := command.NewApp(env)
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
