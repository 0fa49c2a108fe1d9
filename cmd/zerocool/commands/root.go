package commands

import (
	"fmt"
	"os"

	"github.com/battlesnakeio/zerocool/cmd/zerocool/commands/server"
	"github.com/battlesnakeio/zerocool/config"
	"github.com/battlesnakeio/zerocool/version"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "zerocool",
	Short:   "zerocool is a battlesnake that plays to win",
	Version: version.Version,
	PersistentPreRun: func(c *cobra.Command, args []string) {
		setLogLevel(logLevel)
	},
	Run: func(c *cobra.Command, args []string) {
		server.RootCmd.PreRun(c, args)
		server.RootCmd.Run(c, args)
	},
}

var (
	apiAddr  = fmt.Sprintf("http://localhost:%d", config.Port)
	logLevel = config.LogLevel
)

func setLogLevel(level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.WithError(err).WithField("level", level).Warn("unknown log level, using info")
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

// Execute runs the root command
func Execute() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logLevel, "log level: debug, info, warn or error")
	rootCmd.Flags().AddFlagSet(server.RootCmd.Flags())

	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(server.RootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
