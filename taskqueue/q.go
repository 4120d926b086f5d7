package taskqueue

import (
	"errors"
	"sync"
)

// WorkerFunc handles one item. Jobs may submit follow-up items to q.
type WorkerFunc[T any] func(q *Q[T], item T) error

type job[T any] struct {
	fn   WorkerFunc[T]
	item T
}

// Q runs submitted items on a fixed pool of goroutines and collects their
// errors.
type Q[T any] struct {
	c      chan job[T]
	wg     sync.WaitGroup
	worker WorkerFunc[T]

	mu   sync.Mutex
	errs []error
}

func NewQ[T any](workerCount int, chanSize int, worker WorkerFunc[T]) (q *Q[T]) {
	if worker == nil {
		panic("worker cannot be nil")
	}
	if workerCount <= 0 {
		panic("workerCount must be at least 1")
	}

	q = &Q[T]{
		c:      make(chan job[T], chanSize),
		worker: worker,
	}

	for n := 0; n < workerCount; n++ {
		go func() {
			for j := range q.c {
				q.run(j)
			}
		}()
	}

	return
}

func (q *Q[T]) run(j job[T]) {
	defer q.wg.Done()
	if err := j.fn(q, j.item); err != nil {
		q.mu.Lock()
		q.errs = append(q.errs, err)
		q.mu.Unlock()
	}
}

func (q *Q[T]) SubmitItem(item T) {
	q.SubmitJob(item, q.worker)
}

func (q *Q[T]) SubmitJob(item T, fn WorkerFunc[T]) {
	q.wg.Add(1)
	q.c <- job[T]{fn, item}
}

// Wait blocks until every submitted item is done and returns their errors
// joined.
func (q *Q[T]) Wait() error {
	q.wg.Wait()
	q.mu.Lock()
	defer q.mu.Unlock()
	return errors.Join(q.errs...)
}

func (q *Q[T]) Close() {
	close(q.c)
}
