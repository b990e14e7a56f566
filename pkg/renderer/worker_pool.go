package renderer

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/lumiray/lumiray/pkg/core"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile          *Tile
	TargetSamples int
	TaskID        int            // For deterministic ordering
	PixelStats    [][]PixelStats // Shared pixel stats array to write to
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Stats  RenderStats
	Error  error
}

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	workers     []*worker
	numWorkers  int
	wg          sync.WaitGroup
}

type worker struct {
	id          int
	raytracer   *Raytracer
	taskQueue   chan TileTask
	resultQueue chan TileResult
}

// NewWorkerPool creates a worker pool with the specified number of
// workers. Zero or negative numWorkers uses the CPU count. The channel
// buffers hold a full tile grid, so a whole pass can be submitted
// before any result is drained.
func NewWorkerPool(scene Scene, width, height, tileSize, numWorkers int) (*WorkerPool, error) {
	if tileSize <= 0 {
		return nil, fmt.Errorf("tile size must be positive, got %d", tileSize)
	}
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	maxTiles := ((width + tileSize - 1) / tileSize) * ((height + tileSize - 1) / tileSize)

	wp := &WorkerPool{
		taskQueue:   make(chan TileTask, maxTiles),
		resultQueue: make(chan TileResult, maxTiles),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		rt, err := NewRaytracer(scene, width, height)
		if err != nil {
			return nil, err
		}
		wp.workers = append(wp.workers, &worker{
			id:          i,
			raytracer:   rt,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp, nil
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, w := range wp.workers {
		wp.wg.Add(1)
		go w.run(&wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed tile result
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// MergeSamplingConfig applies overrides to every worker's raytracer.
// Call before Start; worker configs are not guarded by a lock.
func (wp *WorkerPool) MergeSamplingConfig(config core.SamplingConfig) {
	for _, w := range wp.workers {
		w.raytracer.MergeSamplingConfig(config)
	}
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop. Tiles have non-overlapping bounds, so
// writing into the shared pixel stats array needs no locking.
func (w *worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		stats := w.raytracer.RenderBounds(task.Tile.Bounds, task.PixelStats, task.Tile.Random, task.TargetSamples)

		w.resultQueue <- TileResult{
			TaskID: task.TaskID,
			Stats:  stats,
		}
	}
}
