package utils

import (
	"go/types"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestCommand(t *testing.T, configOpts ConfigOptions) *cobra.Command {
	t.Helper()
	ClearTestEnvironment(t)
	viper.Reset()

	testCmd := &cobra.Command{
		Run: func(cmd *cobra.Command, args []string) {},
	}
	testCmd.SetOut(new(strings.Builder))

	err := configOpts.Init(testCmd)
	require.NoError(t, err)

	return testCmd
}

func Test_ConfigOptions_Init(t *testing.T) {
	t.Run("registers flags for every supported type", func(t *testing.T) {
		var strValue string
		var intValue int
		var boolValue bool
		configOpts := ConfigOptions{
			{Name: "some-string", OptType: types.String, ConfigKey: &strValue, FlagDefault: "default"},
			{Name: "some-int", OptType: types.Int, ConfigKey: &intValue, FlagDefault: 7},
			{Name: "some-bool", OptType: types.Bool, ConfigKey: &boolValue, FlagDefault: false},
		}

		testCmd := initTestCommand(t, configOpts)

		for _, name := range []string{"some-string", "some-int", "some-bool"} {
			assert.NotNil(t, testCmd.PersistentFlags().Lookup(name), "flag %q should be registered", name)
		}
	})

	t.Run("returns an error for an unsupported option type", func(t *testing.T) {
		ClearTestEnvironment(t)
		viper.Reset()

		var f float64
		configOpts := ConfigOptions{
			{Name: "some-float", OptType: types.Float64, ConfigKey: &f},
		}

		err := configOpts.Init(&cobra.Command{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `initializing config option "some-float"`)
	})
}

func Test_ConfigOptions_Require(t *testing.T) {
	var databaseURL, apiKey string
	configOpts := ConfigOptions{
		{Name: "database-url", OptType: types.String, ConfigKey: &databaseURL, FlagDefault: "mongodb://localhost:27017", Required: true},
		{Name: "custody-api-key", OptType: types.String, ConfigKey: &apiKey, Required: true},
	}

	t.Run("returns an error naming the missing options", func(t *testing.T) {
		testCmd := initTestCommand(t, configOpts)
		testCmd.SetArgs([]string{})
		require.NoError(t, testCmd.Execute())

		err := configOpts.Require()
		require.Error(t, err)
		assert.EqualError(t, err, "missing required config options: custody-api-key")
	})

	t.Run("🎉 passes when the value comes from a flag", func(t *testing.T) {
		testCmd := initTestCommand(t, configOpts)
		testCmd.SetArgs([]string{"--custody-api-key", "mck_test_abc123"})
		require.NoError(t, testCmd.Execute())

		require.NoError(t, configOpts.Require())
	})

	t.Run("🎉 passes when the value comes from an env var", func(t *testing.T) {
		testCmd := initTestCommand(t, configOpts)
		t.Setenv("WP_CUSTODY_API_KEY", "mck_test_abc123")
		testCmd.SetArgs([]string{})
		require.NoError(t, testCmd.Execute())

		require.NoError(t, configOpts.Require())
	})
}

func Test_ConfigOptions_SetValues(t *testing.T) {
	t.Run("copies the resolved values into the config keys", func(t *testing.T) {
		var strValue string
		var intValue int
		var boolValue bool
		configOpts := ConfigOptions{
			{Name: "some-string", OptType: types.String, ConfigKey: &strValue, FlagDefault: "default"},
			{Name: "some-int", OptType: types.Int, ConfigKey: &intValue, FlagDefault: 7},
			{Name: "some-bool", OptType: types.Bool, ConfigKey: &boolValue, FlagDefault: false},
		}

		testCmd := initTestCommand(t, configOpts)
		testCmd.SetArgs([]string{"--some-int", "42", "--some-bool"})
		require.NoError(t, testCmd.Execute())

		require.NoError(t, configOpts.SetValues())
		assert.Equal(t, "default", strValue)
		assert.Equal(t, 42, intValue)
		assert.True(t, boolValue)
	})

	t.Run("env var overrides the flag default", func(t *testing.T) {
		var strValue string
		configOpts := ConfigOptions{
			{Name: "some-string", OptType: types.String, ConfigKey: &strValue, FlagDefault: "default"},
		}

		testCmd := initTestCommand(t, configOpts)
		t.Setenv("WP_SOME_STRING", "from-env")
		testCmd.SetArgs([]string{})
		require.NoError(t, testCmd.Execute())

		require.NoError(t, configOpts.SetValues())
		assert.Equal(t, "from-env", strValue)
	})

	t.Run("runs CustomSetValue when declared", func(t *testing.T) {
		var upper string
		configOpts := ConfigOptions{
			{
				Name:      "some-string",
				OptType:   types.String,
				ConfigKey: &upper,
				CustomSetValue: func(co *ConfigOption) error {
					*(co.ConfigKey.(*string)) = strings.ToUpper(viper.GetString(co.Name))
					return nil
				},
			},
		}

		testCmd := initTestCommand(t, configOpts)
		testCmd.SetArgs([]string{"--some-string", "loud"})
		require.NoError(t, testCmd.Execute())

		require.NoError(t, configOpts.SetValues())
		assert.Equal(t, "LOUD", upper)
	})

	t.Run("returns an error for an unsupported config key type", func(t *testing.T) {
		var f float64
		configOpts := ConfigOptions{
			{Name: "some-string", OptType: types.String, ConfigKey: &f},
		}

		testCmd := initTestCommand(t, ConfigOptions{
			{Name: "some-string", OptType: types.String, ConfigKey: new(string)},
		})
		testCmd.SetArgs([]string{})
		require.NoError(t, testCmd.Execute())

		err := configOpts.SetValues()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configKey has an unsupported type *float64")
	})
}
