package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ayusman/signspeak/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running signspeak without a subcommand
// serves.
func newRootCmd() *cobra.Command {
	v := config.New()
	var configPath string

	root := &cobra.Command{
		Use:           "signspeak",
		Short:         "SignSpeak - sign language to text and speech",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./signspeak.yaml or ~/.signspeak/signspeak.yaml)")

	serve := newServeCmd(v, &configPath)
	root.AddCommand(serve, newConfigCmd(), newClassifyCmd())

	// serve is the default command
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

// loadConfig reads the config and applies its log level.
func loadConfig(v *viper.Viper, path string) (config.Config, error) {
	cfg, err := config.Load(v, path)
	if err != nil {
		return config.Config{}, err
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return config.Config{}, fmt.Errorf("invalid log_level %q: %w", cfg.LogLevel, err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return cfg, nil
}
