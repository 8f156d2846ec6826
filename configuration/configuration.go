package configuration

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	flag "github.com/spf13/pflag"

	"github.com/iotaledger/hive.go/ierrors"
)

var (
	// ErrConfigDoesNotExist is returned if the config file is unknown.
	ErrConfigDoesNotExist = ierrors.New("config does not exist")
	// ErrUnknownConfigFormat is returned if the format of the config file is unknown.
	ErrUnknownConfigFormat = ierrors.New("unknown config file format")
)

// Configuration holds config parameters from several sources (flag defaults, file, env vars, flags).
// All keys are case-insensitive.
type Configuration struct {
	config *koanf.Koanf
}

// New returns a new configuration.
func New() *Configuration {
	return &Configuration{
		config: koanf.New("."),
	}
}

// LoadFile loads parameters from a JSON, YAML or TOML file and merges them into the loaded config.
// Existing keys will be overwritten.
func (c *Configuration) LoadFile(filePath string) error {
	if _, err := os.Stat(filePath); err != nil {
		if os.IsNotExist(err) {
			return ierrors.Wrapf(ErrConfigDoesNotExist, "file %s", filePath)
		}

		return ierrors.Wrapf(err, "unable to access config file %s", filePath)
	}

	parser, err := ParserForFile(filePath)
	if err != nil {
		return err
	}

	if err := c.config.Load(file.Provider(filePath), parser); err != nil {
		return ierrors.Wrapf(err, "unable to load config file %s", filePath)
	}

	return nil
}

// LoadFlagSet loads parameters from a FlagSet (spf13/pflag lib) including
// default values and merges them into the loaded config.
// Existing keys will only be overwritten, if they were set via command line.
// If not given via command line, default values will only be used if they did not exist beforehand.
func (c *Configuration) LoadFlagSet(flagSet *flag.FlagSet) error {
	return c.config.Load(lowerPosflagProvider(flagSet, ".", c.config), nil)
}

// LoadEnvironmentVars loads parameters from env vars and merges them into the loaded config.
// The prefix is used to filter the env vars, e.g. QF_LOGGER_LEVEL sets "logger.level" for the prefix "QF".
// Only existing keys will be overwritten, all other keys are ignored.
func (c *Configuration) LoadEnvironmentVars(prefix string) error {
	if prefix != "" {
		prefix += "_"
	}

	return c.config.Load(env.Provider(prefix, ".", func(s string) string {
		mapKey := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, prefix)), "_", ".")
		if !c.config.Exists(mapKey) {
			// only accept values from env vars that already exist in the config
			return ""
		}

		return mapKey
	}), nil)
}

// Exists returns true if the given key is set.
func (c *Configuration) Exists(key string) bool {
	return c.config.Exists(strings.ToLower(key))
}

// String returns the string value of the given key.
func (c *Configuration) String(key string) string {
	return c.config.String(strings.ToLower(key))
}

// Strings returns the string slice value of the given key.
func (c *Configuration) Strings(key string) []string {
	return c.config.Strings(strings.ToLower(key))
}

// Int returns the int value of the given key.
func (c *Configuration) Int(key string) int {
	return c.config.Int(strings.ToLower(key))
}

// Float64 returns the float64 value of the given key.
func (c *Configuration) Float64(key string) float64 {
	return c.config.Float64(strings.ToLower(key))
}

// Bool returns the bool value of the given key.
func (c *Configuration) Bool(key string) bool {
	return c.config.Bool(strings.ToLower(key))
}

// UnmarshalKey unmarshals the subtree at the given key into the struct pointed to by out. Fields are matched by their
// koanf tags, ignoring case.
func (c *Configuration) UnmarshalKey(key string, out interface{}) error {
	if err := c.config.UnmarshalWithConf(strings.ToLower(key), out, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return ierrors.Wrapf(err, "unable to unmarshal %s", key)
	}

	return nil
}

// ParserForFile returns the parser for the extension of the given file.
func ParserForFile(filePath string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".json":
		return &JSONLowerParser{}, nil
	case ".yaml", ".yml":
		return &YAMLLowerParser{}, nil
	case ".toml":
		return &TOMLLowerParser{}, nil
	default:
		return nil, ierrors.Wrapf(ErrUnknownConfigFormat, "file %s", filePath)
	}
}
