package workerpool

import (
	"runtime"
	"runtime/debug"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/atomic"

	"github.com/iotaledger/qfunding/logger"
)

// ErrShutdown is returned if a task is submitted to a WorkerPool that was shut down.
var ErrShutdown = ierrors.New("worker pool is shut down")

// WorkerPool executes submitted tasks on a bounded set of goroutines.
type WorkerPool struct {
	Name string

	pool         *ants.Pool
	pendingTasks *atomic.Int64
	panics       *atomic.Int64

	optsWorkerCount int
	optsLogger      *logger.Logger

	*logger.WrappedLogger
}

// New creates a new WorkerPool. It uses 2*runtime.NumCPU() workers unless configured otherwise.
func New(name string, opts ...options.Option[WorkerPool]) (*WorkerPool, error) {
	w := options.Apply(&WorkerPool{
		Name:            name,
		pendingTasks:    atomic.NewInt64(0),
		panics:          atomic.NewInt64(0),
		optsWorkerCount: 2 * runtime.NumCPU(),
	}, opts)

	w.WrappedLogger = logger.NewWrappedLogger(w.optsLogger)

	if w.optsWorkerCount < 1 {
		return nil, ierrors.Errorf("worker pool '%s' needs at least one worker, got %d", name, w.optsWorkerCount)
	}

	pool, err := ants.NewPool(w.optsWorkerCount, ants.WithPanicHandler(w.handlePanic))
	if err != nil {
		return nil, ierrors.Wrapf(err, "failed to create worker pool '%s'", name)
	}
	w.pool = pool

	return w, nil
}

// Submit queues a task for execution. It blocks while all workers are busy.
func (w *WorkerPool) Submit(task func()) error {
	w.pendingTasks.Inc()

	if err := w.pool.Submit(func() {
		defer w.pendingTasks.Dec()

		task()
	}); err != nil {
		w.pendingTasks.Dec()

		if ierrors.Is(err, ants.ErrPoolClosed) {
			return ierrors.Wrapf(ErrShutdown, "failed to submit task to '%s'", w.Name)
		}

		return ierrors.Wrapf(err, "failed to submit task to '%s'", w.Name)
	}

	return nil
}

// NewGroup creates a Group that submits its tasks to this WorkerPool.
func (w *WorkerPool) NewGroup() *Group {
	return newGroup(w)
}

// PendingTasks returns the number of tasks that were submitted but did not finish yet.
func (w *WorkerPool) PendingTasks() int64 {
	return w.pendingTasks.Load()
}

// RecoveredPanics returns the number of tasks that panicked.
func (w *WorkerPool) RecoveredPanics() int64 {
	return w.panics.Load()
}

// WorkerCount returns the maximum number of concurrently running tasks.
func (w *WorkerPool) WorkerCount() int {
	return w.pool.Cap()
}

// IsRunning returns true if the WorkerPool accepts new tasks.
func (w *WorkerPool) IsRunning() bool {
	return !w.pool.IsClosed()
}

// Shutdown stops accepting new tasks and releases the workers.
func (w *WorkerPool) Shutdown() {
	w.pool.Release()
}

func (w *WorkerPool) handlePanic(recovered interface{}) {
	w.panics.Inc()

	w.LogErrorf("recovered from panic in worker pool '%s': %v\n%s", w.Name, recovered, debug.Stack())
}

// WithWorkerCount sets the number of workers of the WorkerPool.
func WithWorkerCount(workerCount int) options.Option[WorkerPool] {
	return func(w *WorkerPool) {
		w.optsWorkerCount = workerCount
	}
}

// WithLogger sets the logger that is used to report recovered panics.
func WithLogger(log *logger.Logger) options.Option[WorkerPool] {
	return func(w *WorkerPool) {
		w.optsLogger = log
	}
}
