package util

import (
	"sync"

	"github.com/nmishr/flowgate/logger"
	"go.uber.org/zap"
)

// Worker drains a buffered channel of jobs on a single goroutine. Handler
// errors are logged, they do not stop the worker.
type Worker[T any] struct {
	name    string
	stop    chan struct{}
	wg      *sync.WaitGroup
	handler func(T) error
	jobChan chan T
}

func NewWorker[T any](name string, wg *sync.WaitGroup, handler func(T) error, capacity int) *Worker[T] {
	return &Worker[T]{
		jobChan: make(chan T, capacity),
		stop:    make(chan struct{}),
		name:    name,
		wg:      wg,
		handler: handler,
	}
}

func (w *Worker[T]) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case job := <-w.jobChan:
				err := w.handler(job)
				if err != nil {
					logger.Error("error executing job in worker", zap.String("worker", w.name), zap.Error(err))
				}
			case <-w.stop:
				logger.Info("stopping worker", zap.String("worker", w.name))
				return
			}
		}
	}()
}

func (w *Worker[T]) Sender() chan<- T {
	return w.jobChan
}

func (w *Worker[T]) Stop() {
	w.stop <- struct{}{}
}
