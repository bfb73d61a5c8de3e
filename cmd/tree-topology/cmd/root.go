package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/network/netconf"
)

var (
	flagConfigFile string
	flagMembers    string
	flagLogLevel   string
	flagOffline    []string

	log  zerolog.Logger
	conf = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "tree-topology",
	Short: "Inspect the broadcast tree topology of a membership",
	Long: `Inspect the broadcast tree topology of a membership.

The membership file is a JSON array of hex encoded node identifiers. The order of
the array is the canonical order of the membership.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "optional YAML or JSON file with topology configuration")
	rootCmd.PersistentFlags().StringVarP(&flagMembers, "members", "m", "", "path to the JSON membership file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "loglevel", "warn", "level for logging output")
	rootCmd.PersistentFlags().StringSliceVar(&flagOffline, "offline", nil, "hex node identifiers to treat as unreachable (repeatable)")
	netconf.InitializeTopologyFlags(rootCmd.PersistentFlags(), netconf.DefaultConfig())

	rootCmd.AddCommand(fanoutCmd)
	rootCmd.AddCommand(parentCmd)
	rootCmd.AddCommand(describeCmd)

	log = zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger()
}

func initConfig(cmd *cobra.Command, _ []string) error {
	lvl, err := zerolog.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", flagLogLevel, err)
	}
	log = log.Level(lvl)

	if flagConfigFile != "" {
		conf.SetConfigFile(flagConfigFile)
		if err := conf.ReadInConfig(); err != nil {
			return fmt.Errorf("could not read config file %s: %w", flagConfigFile, err)
		}
		log.Debug().Str("file", conf.ConfigFileUsed()).Msg("config file loaded")
	}

	return netconf.BindFlags(conf, cmd.Flags())
}
