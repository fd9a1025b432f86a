package renderer

import (
	"context"
	"fmt"
	"runtime"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"golang.org/x/sync/errgroup"
)

// PixelTask asks a worker to sample one pixel of a scanline
type PixelTask struct {
	Column int
	Row    int // Counted from the bottom of the image
}

// PixelResult contains the averaged color of one pixel
type PixelResult struct {
	Column  int
	Color   core.Vec3
	Samples int
	Error   error
}

// WorkerPool fans the columns of a scanline out to parallel workers
type WorkerPool struct {
	taskQueue   chan PixelTask
	resultQueue chan PixelResult
	workers     []*Worker
	numWorkers  int
	group       errgroup.Group
}

// Worker samples pixels from the shared task queue
type Worker struct {
	ID          int
	raytracer   *Raytracer
	taskQueue   <-chan PixelTask
	resultQueue chan<- PixelResult
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(raytracer *Raytracer, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	// Room for a full scanline so RenderRow never blocks on submit
	width := max(1, raytracer.config.Width)
	wp := &WorkerPool{
		taskQueue:   make(chan PixelTask, width),
		resultQueue: make(chan PixelResult, width),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			raytracer:   raytracer,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.group.Go(worker.run)
	}
}

// Stop shuts down all workers once queued tasks are drained
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	_ = wp.group.Wait()
	close(wp.resultQueue)
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// RenderRow samples every pixel of scanline j and returns the colors left to right.
// It returns only once the whole row is complete.
func (wp *WorkerPool) RenderRow(ctx context.Context, j int) ([]core.Vec3, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	width := wp.workers[0].raytracer.config.Width
	for i := 0; i < width; i++ {
		wp.taskQueue <- PixelTask{Column: i, Row: j}
	}

	row := make([]core.Vec3, width)
	samples := 0
	var firstErr error
	for n := 0; n < width; n++ {
		result := <-wp.resultQueue
		if result.Error != nil && firstErr == nil {
			firstErr = result.Error
		}
		row[result.Column] = result.Color
		samples += result.Samples
	}
	if firstErr != nil {
		return nil, samples, fmt.Errorf("scanline %d: %w", j, firstErr)
	}
	return row, samples, nil
}

// run is the main worker loop
func (w *Worker) run() error {
	for task := range w.taskQueue {
		w.resultQueue <- w.sample(task)
	}
	return nil
}

func (w *Worker) sample(task PixelTask) (result PixelResult) {
	result.Column = task.Column
	defer func() {
		if r := recover(); r != nil {
			result.Error = fmt.Errorf("worker %d panicked at pixel (%d, %d): %v", w.ID, task.Column, task.Row, r)
		}
	}()

	sampler := w.raytracer.PixelSampler(task.Column, task.Row)
	stats := w.raytracer.SamplePixel(task.Column, task.Row, sampler)
	result.Color = stats.GetColor()
	result.Samples = stats.SampleCount
	return result
}
