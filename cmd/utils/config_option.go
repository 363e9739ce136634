// Package utils holds the CLI configuration plumbing shared by the commands.
// Each option is declared once and can be set by flag or by environment
// variable with the WP_ prefix, flags taking precedence.
package utils

import (
	"fmt"
	"go/types"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variables that map to config
// options. A flag named "database-url" maps to WP_DATABASE_URL.
const EnvPrefix = "WP"

// ConfigOption declares a single configuration value for a command.
type ConfigOption struct {
	Name           string
	Usage          string
	OptType        types.BasicKind
	FlagDefault    interface{}
	Required       bool
	ConfigKey      interface{}
	CustomSetValue func(co *ConfigOption) error
}

type ConfigOptions []*ConfigOption

// Init registers the options as persistent flags on the command and binds
// them to viper with the WP_ environment prefix.
func (cos ConfigOptions) Init(cmd *cobra.Command) error {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	for _, co := range cos {
		if err := co.init(cmd); err != nil {
			return fmt.Errorf("initializing config option %q: %w", co.Name, err)
		}
	}
	return nil
}

func (co *ConfigOption) init(cmd *cobra.Command) error {
	flags := cmd.PersistentFlags()

	switch co.OptType {
	case types.String:
		defaultValue, _ := co.FlagDefault.(string)
		flags.String(co.Name, defaultValue, co.Usage)
	case types.Int:
		defaultValue, _ := co.FlagDefault.(int)
		flags.Int(co.Name, defaultValue, co.Usage)
	case types.Bool:
		defaultValue, _ := co.FlagDefault.(bool)
		flags.Bool(co.Name, defaultValue, co.Usage)
	default:
		return fmt.Errorf("unsupported option type %v", co.OptType)
	}

	if err := viper.BindPFlag(co.Name, flags.Lookup(co.Name)); err != nil {
		return fmt.Errorf("binding flag: %w", err)
	}
	return nil
}

// Require returns an error naming every required option that has no value
// from any source.
func (cos ConfigOptions) Require() error {
	var missing []string
	for _, co := range cos {
		if co.Required && isZeroValue(viper.Get(co.Name)) {
			missing = append(missing, co.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config options: %s", strings.Join(missing, ", "))
	}
	return nil
}

// SetValues copies every option's resolved value into its ConfigKey, running
// CustomSetValue where one is declared.
func (cos ConfigOptions) SetValues() error {
	for _, co := range cos {
		if err := co.setValue(); err != nil {
			return fmt.Errorf("setting config option %q: %w", co.Name, err)
		}
	}
	return nil
}

func (co *ConfigOption) setValue() error {
	if co.CustomSetValue != nil {
		return co.CustomSetValue(co)
	}
	if co.ConfigKey == nil {
		return nil
	}

	switch key := co.ConfigKey.(type) {
	case *string:
		*key = viper.GetString(co.Name)
	case *int:
		*key = viper.GetInt(co.Name)
	case *bool:
		*key = viper.GetBool(co.Name)
	default:
		return fmt.Errorf("configKey has an unsupported type %T", co.ConfigKey)
	}
	return nil
}

func isZeroValue(v interface{}) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return value == ""
	case int:
		return value == 0
	case bool:
		return false
	default:
		return false
	}
}
