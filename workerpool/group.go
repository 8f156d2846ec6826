package workerpool

import (
	"sync"

	"github.com/iotaledger/hive.go/ierrors"
)

// Group tracks a set of tasks that were submitted to a WorkerPool so they can be joined.
type Group struct {
	workerPool *WorkerPool
	wg         sync.WaitGroup

	errMutex sync.Mutex
	err      error
}

func newGroup(workerPool *WorkerPool) *Group {
	return &Group{
		workerPool: workerPool,
	}
}

// Submit queues a task as part of the Group.
func (g *Group) Submit(task func()) {
	g.wg.Add(1)

	if err := g.workerPool.Submit(func() {
		defer g.wg.Done()

		task()
	}); err != nil {
		g.wg.Done()

		g.errMutex.Lock()
		g.err = ierrors.Join(g.err, err)
		g.errMutex.Unlock()
	}
}

// Wait blocks until all submitted tasks of the Group finished and returns the errors that occurred while
// submitting them.
func (g *Group) Wait() error {
	g.wg.Wait()

	g.errMutex.Lock()
	defer g.errMutex.Unlock()

	return g.err
}
