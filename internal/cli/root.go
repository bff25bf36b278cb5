// Package cli wires configuration, logging and the catalog into cobra commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vertextoedge/photo-catalog/internal/config"
)

// session carries the App built in PersistentPreRunE to the running command
type session struct {
	viper      *viper.Viper
	configPath string
	app        *App
}

func (s *session) close() {
	if s.app != nil {
		s.app.Close()
	}
}

// NewRootCommand builds the command tree. Without a subcommand the
// interactive menu starts.
func NewRootCommand(version string) *cobra.Command {
	s := &session{viper: config.New()}
	return newRootCommand(version, s)
}

func newRootCommand(version string, s *session) *cobra.Command {
	root := &cobra.Command{
		Use:   "photo-catalog",
		Short: "Keep a personal catalog of photo metadata",
		Long: `photo-catalog maintains a small catalog of photo metadata records
(file name, description, capture date, file size and rating) in a single
local YAML file. Every change is written to disk immediately.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app, err := Bootstrap(s.viper, s.configPath)
			if err != nil {
				return err
			}
			s.app = app
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.RunMenu(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&s.configPath, "config", "", "path to a YAML configuration file")
	flags.String("catalog", "", "catalog file path (overrides catalog.path)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text or json")

	_ = s.viper.BindPFlag("catalog.path", flags.Lookup("catalog"))
	_ = s.viper.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = s.viper.BindPFlag("logging.format", flags.Lookup("log-format"))

	root.AddCommand(newListCommand(s))
	root.AddCommand(newExportCommand(s))

	return root
}

// Execute runs the CLI and returns the process exit code
func Execute(version string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s := &session{viper: config.New()}
	defer s.close()

	root := newRootCommand(version, s)
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
