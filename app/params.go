package app

import (
	flag "github.com/spf13/pflag"

	"github.com/iotaledger/qfunding/logger"
	"github.com/iotaledger/qfunding/report"
)

const (
	// CfgConfigFilePath is the path of the optional configuration file.
	CfgConfigFilePath = "config"
	// CfgRoundFilePath is the path of the round definition.
	CfgRoundFilePath = "round"
	// CfgMatchingPool overrides the matching pool of the round definition if it is positive.
	CfgMatchingPool = "matchingPool"
	// CfgWorkers is the number of workers that recompute the projects. Zero recomputes them sequentially.
	CfgWorkers = "workers"
	// CfgOutput is the format of the report.
	CfgOutput = "output"

	// EnvironmentPrefix is the prefix of the environment variables that override configuration values.
	EnvironmentPrefix = "QF"
)

func newFlagSet(name string) *flag.FlagSet {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SortFlags = false

	flagSet.StringP(CfgConfigFilePath, "c", "", "file path of the configuration file (json, yaml or toml)")
	flagSet.StringP(CfgRoundFilePath, "r", "", "file path of the round definition (json, yaml or toml)")
	flagSet.Float64(CfgMatchingPool, 0, "overrides the matching pool of the round definition (0 = keep)")
	flagSet.Int(CfgWorkers, 0, "the number of workers that recompute the projects (0 = sequential)")
	flagSet.StringP(CfgOutput, "o", report.FormatText, "the format of the report (text or json)")

	defaults := logger.DefaultConfig()
	flagSet.String(logger.ConfigurationKeyLevel, defaults.Level, "the minimum enabled logging level")
	flagSet.Bool(logger.ConfigurationKeyDisableCaller, defaults.DisableCaller, "stops annotating logs with the calling function's file name and line number")
	flagSet.Bool(logger.ConfigurationKeyDisableStacktrace, defaults.DisableStacktrace, "disables automatic stacktrace capturing")
	flagSet.String(logger.ConfigurationKeyEncoding, defaults.Encoding, "the logger's encoding (console or json)")
	// the report is written to stdout
	flagSet.StringSlice(logger.ConfigurationKeyOutputPaths, []string{"stderr"}, "a list of URLs, file paths or stdout/stderr to write logging output to")

	return flagSet
}
