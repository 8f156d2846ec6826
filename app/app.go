// Package app wires the components of the qfround batch tool (configuration, logger, worker pool and funding round)
// in a dig container and runs a round from its definition to the report.
package app

import (
	"io"

	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/runtime/options"
	flag "github.com/spf13/pflag"

	"github.com/iotaledger/qfunding/configuration"
	"github.com/iotaledger/qfunding/logger"
	"github.com/iotaledger/qfunding/qf"
	"github.com/iotaledger/qfunding/report"
	"github.com/iotaledger/qfunding/roundfile"
	"github.com/iotaledger/qfunding/syncutils"
	"github.com/iotaledger/qfunding/workerpool"
)

// ErrMissingRoundFile is returned if no round definition was configured.
var ErrMissingRoundFile = ierrors.New("no round file given")

// App runs a single funding round.
type App struct {
	name      string
	output    io.Writer
	flagSet   *flag.FlagSet
	config    *configuration.Configuration
	container *dig.Container
}

type dependencies struct {
	dig.In

	Config       *configuration.Configuration
	Logger       *logger.Logger
	WorkerPool   *workerpool.WorkerPool
	FundingRound *qf.FundingRound
}

// New creates a new App that writes its report to output.
func New(name string, output io.Writer) *App {
	return &App{
		name:      name,
		output:    output,
		flagSet:   newFlagSet(name),
		config:    configuration.New(),
		container: dig.New(),
	}
}

// FlagSet returns the flags of the App.
func (a *App) FlagSet() *flag.FlagSet {
	return a.flagSet
}

// Run parses the arguments, loads the configuration and processes the configured round.
func (a *App) Run(args []string) error {
	if err := a.flagSet.Parse(args); err != nil {
		if ierrors.Is(err, flag.ErrHelp) {
			return nil
		}

		return ierrors.Wrap(err, "unable to parse flags")
	}

	if err := a.loadConfig(); err != nil {
		return err
	}

	if err := a.provide(); err != nil {
		return err
	}

	if err := a.container.Invoke(a.run); err != nil {
		return dig.RootCause(err)
	}

	return nil
}

// loadConfig merges the configuration file, the flags and the environment variables, in ascending priority.
func (a *App) loadConfig() error {
	if configFilePath, _ := a.flagSet.GetString(CfgConfigFilePath); configFilePath != "" {
		if err := a.config.LoadFile(configFilePath); err != nil {
			return ierrors.Wrap(err, "loading config file failed")
		}
	}

	if err := a.config.LoadFlagSet(a.flagSet); err != nil {
		return ierrors.Wrap(err, "loading flags failed")
	}

	if err := a.config.LoadEnvironmentVars(EnvironmentPrefix); err != nil {
		return ierrors.Wrap(err, "loading environment variables failed")
	}

	return nil
}

func (a *App) provide() error {
	if err := a.container.Provide(func() *configuration.Configuration {
		return a.config
	}); err != nil {
		return err
	}

	if err := a.container.Provide(func(config *configuration.Configuration) (*logger.Logger, error) {
		cfg := logger.DefaultConfig()
		if err := config.UnmarshalKey("logger", &cfg); err != nil {
			return nil, err
		}

		rootLogger, err := logger.NewRootLogger(cfg)
		if err != nil {
			return nil, err
		}

		return rootLogger.Named(a.name), nil
	}); err != nil {
		return err
	}

	if err := a.container.Provide(func(config *configuration.Configuration, log *logger.Logger) (*workerpool.WorkerPool, error) {
		workerCount := config.Int(CfgWorkers)
		if workerCount <= 0 {
			return nil, nil
		}

		return workerpool.New("Recompute", workerpool.WithWorkerCount(workerCount), workerpool.WithLogger(log))
	}); err != nil {
		return err
	}

	if err := a.container.Provide(func(config *configuration.Configuration) (*roundfile.Definition, error) {
		roundFilePath := config.String(CfgRoundFilePath)
		if roundFilePath == "" {
			return nil, ierrors.Wrapf(ErrMissingRoundFile, "set --%s or %s_%s", CfgRoundFilePath, EnvironmentPrefix, "ROUND")
		}

		definition, err := roundfile.Load(roundFilePath)
		if err != nil {
			return nil, err
		}

		// the round validates the override, so negative values are reported instead of ignored
		if matchingPool := config.Float64(CfgMatchingPool); matchingPool != 0 {
			definition.MatchingPool = matchingPool
		}

		return definition, nil
	}); err != nil {
		return err
	}

	return a.container.Provide(func(definition *roundfile.Definition, log *logger.Logger, workerPool *workerpool.WorkerPool) (*qf.FundingRound, error) {
		opts := []options.Option[qf.FundingRound]{qf.WithLogger(log.Named("FundingRound"))}
		if workerPool != nil {
			opts = append(opts, qf.WithWorkerPool(workerPool))
		}

		return definition.Build(opts...)
	})
}

func (a *App) run(deps dependencies) error {
	defer func() { _ = deps.Logger.Sync() }()

	if deps.WorkerPool != nil {
		defer deps.WorkerPool.Shutdown()
	}

	defer deps.FundingRound.Events.AllocationComputed.Hook(func(allocation *qf.Allocation) {
		deps.Logger.Infow("allocation computed", "digest", allocation.Digest().String(), "constrained", allocation.Constrained(), "scalingFactor", allocation.ScalingFactor())
	}).Unhook()

	deps.Logger.Infof("processing round with %d projects and a matching pool of %v", deps.FundingRound.ProjectCount(), deps.FundingRound.MatchingPool())

	deps.Logger.Debugf("deadlock detection enabled: %t", syncutils.DeadlockDetectionEnabled)

	allocation, err := deps.FundingRound.Finalize()
	if err != nil {
		return err
	}

	if deps.WorkerPool != nil {
		deps.Logger.Debugw("worker pool stats", "name", deps.WorkerPool.Name, "workers", deps.WorkerPool.WorkerCount(), "pendingTasks", deps.WorkerPool.PendingTasks(), "recoveredPanics", deps.WorkerPool.RecoveredPanics())
	}

	return report.New(deps.FundingRound, allocation).Write(a.output, deps.Config.String(CfgOutput))
}
