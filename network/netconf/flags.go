package netconf

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// All constant strings are used for CLI flag names and corresponding keys for config values.
	treeBroadcastEnabled = "tree-broadcast-enabled"
	treeTopologyWidth    = "tree-topology-width"
	fanoutCacheSize      = "tree-topology-cache-size"

	// envPrefix is the prefix of environment variables overriding config values,
	// e.g. TOPOLOGY_TREE_TOPOLOGY_WIDTH.
	envPrefix = "topology"
)

func AllFlagNames() []string {
	return []string{treeBroadcastEnabled, treeTopologyWidth, fanoutCacheSize}
}

// InitializeTopologyFlags initializes all CLI flags for the topology configuration on the provided pflag set.
// Args:
//
//	*pflag.FlagSet: the pflag set of the node.
//	*Config: the default topology config used to set default values on the flags
func InitializeTopologyFlags(flags *pflag.FlagSet, config *Config) {
	flags.Bool(treeBroadcastEnabled, config.TreeBroadcastEnabled, "forward broadcasts along the tree topology instead of to every reachable member")
	flags.Uint(treeTopologyWidth, config.TreeWidth, "branching factor of the broadcast tree, must be at least 2")
	flags.Uint32(fanoutCacheSize, config.FanoutCacheSize, "number of memoised topology decisions, 0 disables the cache")
}

// BindFlags registers the topology flags on the viper store, so that values are resolved
// in the order flag > environment > config file > default.
func BindFlags(conf *viper.Viper, flags *pflag.FlagSet) error {
	conf.SetEnvPrefix(envPrefix)
	conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	conf.AutomaticEnv()

	for _, flagName := range AllFlagNames() {
		flag := flags.Lookup(flagName)
		if flag == nil {
			return fmt.Errorf("topology flag %s is not initialized on the flag set", flagName)
		}
		if err := conf.BindPFlag(flagName, flag); err != nil {
			return fmt.Errorf("could not bind flag %s: %w", flagName, err)
		}
	}
	return nil
}

// LoadConfig decodes the topology configuration from the viper store and validates it.
func LoadConfig(conf *viper.Viper) (*Config, error) {
	config := DefaultConfig()
	if err := conf.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("could not decode topology config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
