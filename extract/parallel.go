package extract

import (
	"sync"

	"github.com/panjf2000/ants/v2"
)

// A Pool extracts from many documents concurrently over a bounded worker
// set.  Getter trees are not safe for concurrent use, so the Pool keeps a
// tree per in-flight job, built by the constructor passed to NewPool; T
// carries whatever handles (typically *Field pointers) the caller needs to
// read results out of that tree.
type Pool[T any] struct {
	workers *ants.Pool
	trees   sync.Pool
	wg      sync.WaitGroup
}

type poolTree[T any] struct {
	main *Main
	tree T
}

// NewPool starts a Pool of at most size concurrent workers.  build must
// return a fresh Main and the handle struct for reading its results; it is
// called lazily, at most once per concurrently active job.
func NewPool[T any](size int, build func() (*Main, T)) (*Pool[T], error) {
	workers, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}
	p := &Pool[T]{workers: workers}
	p.trees.New = func() any {
		main, tree := build()
		return &poolTree[T]{main: main, tree: tree}
	}
	return p, nil
}

// Go schedules data for extraction.  done runs on a worker goroutine with
// the populated handles; values borrowed from the tree or from data must be
// copied before done returns, as the tree is recycled right after.
func (p *Pool[T]) Go(data []byte, done func(tree T, err error)) error {
	p.wg.Add(1)
	err := p.workers.Submit(func() {
		defer p.wg.Done()
		pt := p.trees.Get().(*poolTree[T])
		done(pt.tree, pt.main.Parse(data))
		p.trees.Put(pt)
	})
	if err != nil {
		p.wg.Done()
	}
	return err
}

// Wait blocks until every scheduled job has finished.
func (p *Pool[T]) Wait() {
	p.wg.Wait()
}

// Release waits for outstanding jobs and shuts the workers down.
func (p *Pool[T]) Release() {
	p.wg.Wait()
	p.workers.Release()
}
