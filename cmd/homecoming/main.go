// Command homecoming runs the gesture-controlled arrivals board service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/homecoming/internal/config"
	"github.com/ayusman/homecoming/internal/logger"
)

var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cli carries state shared by the subcommands.
type cli struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:           "homecoming",
		Short:         "Homecoming - hand gestures for the arrivals board",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			if err := logger.Init(cfg.Log); err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", defaultConfigPath(), "path to the YAML config file")

	rootCmd.AddCommand(c.serveCmd())
	rootCmd.AddCommand(c.replayCmd())
	rootCmd.AddCommand(c.gesturesCmd())

	return rootCmd
}

func defaultConfigPath() string {
	return filepath.Join(config.DataDir(), "config.yaml")
}
