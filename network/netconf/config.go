package netconf

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
)

const (
	// DefaultTreeWidth is the default branching factor of the broadcast tree.
	DefaultTreeWidth = 3
	// DefaultFanoutCacheSize is the default number of memoised topology decisions.
	DefaultFanoutCacheSize = 1024
)

// Config is the broadcast topology configuration of a node.
type Config struct {
	// TreeBroadcastEnabled selects the tree topology; when disabled the node
	// forwards every broadcast to all reachable members.
	TreeBroadcastEnabled bool `mapstructure:"tree-broadcast-enabled"`
	// TreeWidth is the branching factor of the broadcast tree, i.e. the number of
	// children of every tree position.
	TreeWidth uint `validate:"gte=2" mapstructure:"tree-topology-width"`
	// FanoutCacheSize is the number of memoised topology decisions, 0 disables caching.
	FanoutCacheSize uint32 `validate:"lte=1048576" mapstructure:"tree-topology-cache-size"`
}

// DefaultConfig returns the default topology configuration.
func DefaultConfig() *Config {
	return &Config{
		TreeBroadcastEnabled: true,
		TreeWidth:            DefaultTreeWidth,
		FanoutCacheSize:      DefaultFanoutCacheSize,
	}
}

// Validate checks the configuration and returns an InvalidConfigError listing
// every violated constraint.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("could not validate topology config: %w", err)
	}

	var result *multierror.Error
	for _, fe := range fieldErrs {
		result = multierror.Append(result, fmt.Errorf("field %s violates constraint %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return NewInvalidConfigErr(result.ErrorOrNil())
}

// InvalidConfigError indicates that the topology configuration is not usable.
type InvalidConfigError struct {
	err error
}

func (e InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid topology configuration: %v", e.err)
}

func (e InvalidConfigError) Unwrap() error {
	return e.err
}

// NewInvalidConfigErr returns a new InvalidConfigError.
func NewInvalidConfigErr(err error) InvalidConfigError {
	return InvalidConfigError{err: err}
}

// IsInvalidConfigError returns whether an error is InvalidConfigError
func IsInvalidConfigError(err error) bool {
	var e InvalidConfigError
	return errors.As(err, &e)
}
