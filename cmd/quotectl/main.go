package main

import (
	"context"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "quotectl: %v\n", err)
		os.Exit(1)
	}
}

func newApp(out, logOut io.Writer) *cli.Command {
	return &cli.Command{
		Name:                  "quotectl",
		Usage:                 "Quote workflow migrations from exported files",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "pricing-overrides",
				Usage:   "JSON merge patch applied to the built-in plan tables",
				Sources: cli.EnvVars("PRICING_OVERRIDES_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Aliases:   []string{"a"},
				Usage:     "Ingest export files and print the summary and savings",
				ArgsUsage: "FILE...",
				Flags: []cli.Flag{
					&cli.FloatFlag{
						Name:  "execs",
						Usage: "Executions per day per workflow; all scenarios when omitted",
					},
					&cli.FloatFlag{
						Name:  "self-host-cost",
						Usage: "Monthly cost of running the migrated workflows",
					},
					&cli.StringSliceFlag{
						Name:  "zap",
						Usage: "Zap id to include in the quote (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "all-zaps",
						Usage: "Include every zap found in Zapier exports",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runAnalyze(ctx, cmd, out, logOut)
				},
			},
			{
				Name:  "plans",
				Usage: "Print the incumbent plan tables and price constants",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runPlans(cmd, out)
				},
			},
		},
	}
}
