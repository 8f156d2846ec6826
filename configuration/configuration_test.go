package configuration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iotaledger/hive.go/ierrors"
	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/iotaledger/qfunding/configuration"
)

func writeFile(t *testing.T, name string, content string) string {
	filePath := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(filePath, []byte(content), 0o600))

	return filePath
}

func newFlagSet() *flag.FlagSet {
	flagSet := flag.NewFlagSet("", flag.ContinueOnError)
	flagSet.String("logger.level", "info", "the log level")
	flagSet.StringSlice("logger.outputPaths", []string{"stdout"}, "the log outputs")
	flagSet.Float64("round.matchingPool", 0, "the matching pool")
	flagSet.Int("engine.workers", 4, "the number of workers")
	flagSet.Bool("engine.finalize", true, "write back final amounts")

	return flagSet
}

func TestFlagDefaults(t *testing.T) {
	config := configuration.New()
	require.NoError(t, config.LoadFlagSet(newFlagSet()))

	require.Equal(t, "info", config.String("logger.level"))
	require.Equal(t, []string{"stdout"}, config.Strings("logger.outputPaths"))
	require.Equal(t, 4, config.Int("engine.workers"))
	require.True(t, config.Bool("engine.finalize"))
	require.True(t, config.Exists("round.matchingPool"))
}

func TestFileOverridesDefaults(t *testing.T) {
	for name, content := range map[string]string{
		"config.json": `{"logger": {"level": "debug"}, "round": {"matchingPool": 250.5}}`,
		"config.yaml": "logger:\n  level: debug\nround:\n  matchingPool: 250.5\n",
		"config.toml": "[logger]\nlevel = \"debug\"\n[round]\nmatchingPool = 250.5\n",
	} {
		t.Run(name, func(t *testing.T) {
			config := configuration.New()
			require.NoError(t, config.LoadFile(writeFile(t, name, content)))
			require.NoError(t, config.LoadFlagSet(newFlagSet()))

			require.Equal(t, "debug", config.String("logger.level"))
			require.Equal(t, 250.5, config.Float64("round.matchingPool"))
			require.Equal(t, 4, config.Int("engine.workers"))
		})
	}
}

func TestChangedFlagOverridesFile(t *testing.T) {
	flagSet := newFlagSet()
	require.NoError(t, flagSet.Parse([]string{"--engine.workers=8", "--logger.level=warn"}))

	config := configuration.New()
	require.NoError(t, config.LoadFile(writeFile(t, "config.yaml", "logger:\n  level: debug\nengine:\n  workers: 2\n")))
	require.NoError(t, config.LoadFlagSet(flagSet))

	require.Equal(t, "warn", config.String("logger.level"))
	require.Equal(t, 8, config.Int("engine.workers"))
}

func TestEnvironmentVars(t *testing.T) {
	t.Setenv("QFTEST_LOGGER_LEVEL", "error")
	t.Setenv("QFTEST_UNKNOWN_KEY", "ignored")

	config := configuration.New()
	require.NoError(t, config.LoadFlagSet(newFlagSet()))
	require.NoError(t, config.LoadEnvironmentVars("QFTEST"))

	require.Equal(t, "error", config.String("logger.level"))
	require.False(t, config.Exists("unknown.key"))
}

func TestUnmarshalKey(t *testing.T) {
	type loggerParameters struct {
		Level       string   `koanf:"level"`
		OutputPaths []string `koanf:"outputPaths"`
	}

	config := configuration.New()
	require.NoError(t, config.LoadFlagSet(newFlagSet()))

	params := &loggerParameters{}
	require.NoError(t, config.UnmarshalKey("logger", params))
	require.Equal(t, "info", params.Level)
	require.Equal(t, []string{"stdout"}, params.OutputPaths)
}

func TestLoadFileErrors(t *testing.T) {
	config := configuration.New()

	err := config.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.True(t, ierrors.Is(err, configuration.ErrConfigDoesNotExist))

	err = config.LoadFile(writeFile(t, "config.ini", "level=debug"))
	require.True(t, ierrors.Is(err, configuration.ErrUnknownConfigFormat))

	err = config.LoadFile(writeFile(t, "config.json", "{invalid"))
	require.Error(t, err)
}
