package utils

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/meridianpay/wallet-platform-backend/internal/crashtracker"
	"github.com/meridianpay/wallet-platform-backend/internal/custody"
	"github.com/meridianpay/wallet-platform-backend/internal/logging"
	"github.com/meridianpay/wallet-platform-backend/internal/message"
	"github.com/meridianpay/wallet-platform-backend/internal/monitor"
	"github.com/meridianpay/wallet-platform-backend/internal/utils"
)

func SetConfigOptionLogLevel(co *ConfigOption) error {
	logLevelStr := viper.GetString(co.Name)
	logLevel, err := logrus.ParseLevel(logLevelStr)
	if err != nil {
		return fmt.Errorf("couldn't parse log level: %w", err)
	}

	key, ok := co.ConfigKey.(*logrus.Level)
	if !ok {
		return fmt.Errorf("configKey has an invalid type %T", co.ConfigKey)
	}
	*key = logLevel

	logging.SetLevel(logLevel.String())
	return nil
}

func SetConfigOptionMessengerType(co *ConfigOption) error {
	senderType := viper.GetString(co.Name)

	messengerType, err := message.ParseMessengerType(senderType)
	if err != nil {
		return fmt.Errorf("couldn't parse messenger type: %w", err)
	}

	*(co.ConfigKey.(*message.MessengerType)) = messengerType
	return nil
}

func SetConfigOptionMetricType(co *ConfigOption) error {
	metricType := viper.GetString(co.Name)

	metricTypeParsed, err := monitor.ParseMetricType(metricType)
	if err != nil {
		return fmt.Errorf("couldn't parse metric type: %w", err)
	}

	*(co.ConfigKey.(*monitor.MetricType)) = metricTypeParsed
	return nil
}

func SetConfigOptionCrashTrackerType(co *ConfigOption) error {
	ctType := viper.GetString(co.Name)

	ctTypeParsed, err := crashtracker.ParseCrashTrackerType(ctType)
	if err != nil {
		return fmt.Errorf("couldn't parse crash tracker type: %w", err)
	}

	*(co.ConfigKey.(*crashtracker.CrashTrackerType)) = ctTypeParsed
	return nil
}

// SetConfigOptionCustodyEnvironment maps the environment name to the custody
// platform base URL.
func SetConfigOptionCustodyEnvironment(co *ConfigOption) error {
	envStr := strings.ToLower(viper.GetString(co.Name))

	var env custody.Environment
	switch envStr {
	case "production":
		env = custody.Production
	case "sandbox":
		env = custody.Sandbox
	default:
		return fmt.Errorf("invalid custody environment %q, options: \"production\", \"sandbox\"", envStr)
	}

	*(co.ConfigKey.(*custody.Environment)) = env
	return nil
}

// SetConfigOptionEC256PublicKey validates that the incoming value is a valid
// EC256 public key.
func SetConfigOptionEC256PublicKey(co *ConfigOption) error {
	key, ok := co.ConfigKey.(*string)
	if !ok {
		return fmt.Errorf("not a valid EC256PublicKey: the expected type for this config key is a string, but got a %T instead", co.ConfigKey)
	}

	publicKey := viper.GetString(co.Name)

	// Literal \n sequences appear when the key is set through an env var.
	publicKey = strings.ReplaceAll(publicKey, `\n`, "\n")

	if _, err := utils.ParseStrongECPublicKey(publicKey); err != nil {
		return fmt.Errorf("parsing EC256PublicKey: %w", err)
	}

	*key = publicKey
	return nil
}

// SetConfigOptionEC256PrivateKey validates that the incoming value is a valid
// EC256 private key.
func SetConfigOptionEC256PrivateKey(co *ConfigOption) error {
	key, ok := co.ConfigKey.(*string)
	if !ok {
		return fmt.Errorf("not a valid EC256PrivateKey: the expected type for this config key is a string, but got a %T instead", co.ConfigKey)
	}

	privateKey := viper.GetString(co.Name)

	privateKey = strings.ReplaceAll(privateKey, `\n`, "\n")

	if _, err := utils.ParseStrongECPrivateKey(privateKey); err != nil {
		return fmt.Errorf("parsing EC256PrivateKey: %w", err)
	}

	*key = privateKey
	return nil
}

// SetCorsAllowedOrigins parses the comma-separated list of allowed origins
// and validates that each one is a URL.
func SetCorsAllowedOrigins(co *ConfigOption) error {
	corsAllowedOriginsOptions := viper.GetString(co.Name)
	if corsAllowedOriginsOptions == "" {
		return fmt.Errorf("cors allowed addresses cannot be empty")
	}

	corsAllowedOrigins := strings.Split(corsAllowedOriginsOptions, ",")

	for _, origin := range corsAllowedOrigins {
		if origin == "*" {
			logging.L(context.Background()).Warn(`The value "*" for the CORS allowed origins is too permissive and not recommended.`)
			continue
		}
		if _, err := url.ParseRequestURI(origin); err != nil {
			return fmt.Errorf("parsing cors addresses: %w", err)
		}
	}

	*(co.ConfigKey.(*[]string)) = corsAllowedOrigins
	return nil
}

// SetConfigOptionRoles splits the comma-separated list of user roles.
func SetConfigOptionRoles(co *ConfigOption) error {
	rolesStr := viper.GetString(co.Name)

	var roles []string
	for _, role := range strings.Split(rolesStr, ",") {
		if role = strings.TrimSpace(role); role != "" {
			roles = append(roles, role)
		}
	}

	*(co.ConfigKey.(*[]string)) = roles
	return nil
}

// SetConfigOptionURLString validates that the incoming value parses as a URL.
func SetConfigOptionURLString(co *ConfigOption) error {
	u := viper.GetString(co.Name)
	if u == "" {
		return fmt.Errorf("url cannot be empty")
	}
	if _, err := url.ParseRequestURI(u); err != nil {
		return fmt.Errorf("parsing url: %w", err)
	}

	*(co.ConfigKey.(*string)) = u
	return nil
}
