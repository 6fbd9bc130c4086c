package config

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// bindOverrides resets the global viper instance and binds all default
// overrides to a fresh flag set.
func bindOverrides(t *testing.T) *pflag.FlagSet {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	flagSet := pflag.NewFlagSet("test", pflag.PanicOnError)
	for _, override := range DefaultOverrides() {
		require.NoError(t, override.Bind(flagSet))
	}

	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	return flagSet
}

func TestOverrideDefaults(t *testing.T) {
	bindOverrides(t)

	cfg := NewConfig()
	err := viper.Unmarshal(cfg)
	require.NoError(t, err)

	// build expected config and compare full struct
	expectedCfg := &Config{
		Logging: Logging{Type: LoggingTypeStderr, Level: LogLevelInfo},
		Provider: Provider{
			Type:    ProviderTypeCounter,
			Counter: CounterProviderConfig{Interval: DefaultCounterIntervalMS},
		},
		Output: Output{Type: OutputTypeStdout},
	}
	require.Equal(t, expectedCfg, cfg)
}

func TestOverrideFlags(t *testing.T) {
	flagSet := bindOverrides(t)

	args := []string{
		"--logging-level", "warn",
		"--provider-type", "counter",
		"--provider-counter-interval", "250",
		"--provider-counter-max-count", "10",
		"--output-type", "nop",
	}
	require.NoError(t, flagSet.Parse(args))

	cfg := NewConfig()
	err := viper.Unmarshal(cfg)
	require.NoError(t, err)

	expectedCfg := &Config{
		Logging: Logging{Type: LoggingTypeStderr, Level: LogLevelWarn},
		Provider: Provider{
			Type:    ProviderTypeCounter,
			Counter: CounterProviderConfig{Interval: 250, MaxCount: 10},
		},
		Output: Output{Type: OutputTypeNop},
	}
	require.Equal(t, expectedCfg, cfg)
}

func TestOverrideEnvs(t *testing.T) {
	t.Setenv("CADENCE_LOGGING_LEVEL", "debug")
	t.Setenv("CADENCE_PROVIDER_COUNTER_INTERVAL", "0")
	t.Setenv("CADENCE_PROVIDER_COUNTER_MAX_COUNT", "7")

	bindOverrides(t)

	cfg := NewConfig()
	err := viper.Unmarshal(cfg)
	require.NoError(t, err)

	expectedCfg := &Config{
		Logging: Logging{Type: LoggingTypeStderr, Level: LogLevelDebug},
		Provider: Provider{
			Type:    ProviderTypeCounter,
			Counter: CounterProviderConfig{Interval: 0, MaxCount: 7},
		},
		Output: Output{Type: OutputTypeStdout},
	}
	require.Equal(t, expectedCfg, cfg)
}

func TestApplyHostMapping(t *testing.T) {
	bindOverrides(t)

	// The host's mapping uses bare keys; unknown keys are ignored.
	hostMapping := "interval: 50\nmax_count: 2\nsomething_unknown: true\n"
	require.NoError(t, viper.ReadConfig(strings.NewReader(hostMapping)))

	ApplyHostMapping()

	cfg := NewConfig()
	err := viper.Unmarshal(cfg)
	require.NoError(t, err)

	require.Equal(t, 50, cfg.Provider.Counter.Interval)
	require.Equal(t, 2, cfg.Provider.Counter.MaxCount)
}

func TestApplyHostMapping_MissingKeysKeepDefaults(t *testing.T) {
	bindOverrides(t)

	require.NoError(t, viper.ReadConfig(strings.NewReader("max_count: 4\n")))

	ApplyHostMapping()

	cfg := NewConfig()
	err := viper.Unmarshal(cfg)
	require.NoError(t, err)

	require.Equal(t, DefaultCounterIntervalMS, cfg.Provider.Counter.Interval)
	require.Equal(t, 4, cfg.Provider.Counter.MaxCount)
}
