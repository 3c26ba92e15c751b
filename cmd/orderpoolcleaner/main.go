package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(run).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(action cli.ActionFunc) *cli.App {
	return &cli.App{
		Name:   "orderpoolcleaner",
		Usage:  "Keep the block builder orderpool in sync with new chain heads",
		Flags:  appFlags(),
		Before: loadEnvFile,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Run the orderpool cleaner",
				Flags:  runFlags(),
				Action: action,
			},
		},
	}
}

// loadEnvFile runs before the subcommand builds its flag set, so values from
// the file are visible to every flag's EnvVars. Existing variables win.
func loadEnvFile(c *cli.Context) error {
	path := c.String("env-file")
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}
