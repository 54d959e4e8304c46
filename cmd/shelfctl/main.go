// Command shelfctl manages the home library from the terminal. It works on
// the same data files as the server.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"home-library/internal/config"
	"home-library/internal/library"
	"home-library/internal/logging"
)

var version = "0.1.0-dev"

// cli carries the state shared by every subcommand.
type cli struct {
	out     io.Writer
	dataDir string
	json    bool
	lib     *library.Library
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	app := &cli{out: out}

	rootCmd := &cobra.Command{
		Use:   "shelfctl",
		Short: "Browse and track your home library",
		Long: `shelfctl browses the catalog, records what you read and how you rated it,
tracks books in progress and suggests what to read next.

Data lives in the directory given by --data-dir (default from config).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.open()
		},
	}
	rootCmd.PersistentFlags().StringVar(&app.dataDir, "data-dir", "", "Directory holding books.json and user_data.json")
	rootCmd.PersistentFlags().BoolVar(&app.json, "json", false, "Print machine-readable JSON")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(app.out, "shelfctl %s\n", version)
		},
	}

	rootCmd.AddCommand(
		app.booksCmd(),
		app.addCmd(),
		app.readCmd(),
		app.unreadCmd(),
		app.rateCmd(),
		app.readingCmd(),
		app.startCmd(),
		app.progressCmd(),
		app.finishCmd(),
		app.abandonCmd(),
		app.recommendCmd(),
		app.statsCmd(),
		versionCmd,
	)
	return rootCmd
}

// open loads the configuration and opens the library it points at.
func (a *cli) open() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// Diagnostics go to stderr and stay quiet unless something is wrong.
	level := cfg.Logging.Level
	if level == "info" {
		level = "warn"
	}
	logging.Init(logging.Config{Level: level, Format: "console"})

	data := cfg.Data
	if a.dataDir != "" {
		data.Dir = a.dataDir
	}
	a.lib = library.Open(data, cfg.AI.APIKey)
	return nil
}

// idArg parses a positional book id.
func idArg(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid book id %q", s)
	}
	return id, nil
}
