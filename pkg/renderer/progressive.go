package renderer

import (
	"context"
	"fmt"
	"image"

	"github.com/lumiray/lumiray/pkg/core"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

// Printf forwards to fmt.Printf
func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize       int   // Size of each tile (64x64 recommended)
	InitialSamples int   // Samples for first pass (1 recommended)
	MaxPasses      int   // Maximum number of passes
	NumWorkers     int   // Number of parallel workers (0 = use CPU count)
	Seed           int64 // Base seed for the per-tile generators
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:       64,
		InitialSamples: 1,
		MaxPasses:      6,
		NumWorkers:     0,
		Seed:           42,
	}
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// ProgressiveRaytracer renders the image in multiple passes of
// increasing sample counts, emitting a refined image after each pass.
// Per-pixel accumulators survive across passes, so every pass only
// adds the samples the previous passes have not taken yet.
type ProgressiveRaytracer struct {
	scene         Scene
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile
	pixelStats    [][]PixelStats
	raytracer     *Raytracer
	workerPool    *WorkerPool
	logger        core.Logger
}

// NewProgressiveRaytracer creates a new progressive raytracer
func NewProgressiveRaytracer(scene Scene, width, height int, config ProgressiveConfig, logger core.Logger) (*ProgressiveRaytracer, error) {
	if config.MaxPasses <= 0 {
		return nil, fmt.Errorf("max passes must be positive, got %d", config.MaxPasses)
	}
	if config.TileSize <= 0 {
		return nil, fmt.Errorf("tile size must be positive, got %d", config.TileSize)
	}

	raytracer, err := NewRaytracer(scene, width, height)
	if err != nil {
		return nil, err
	}

	workerPool, err := NewWorkerPool(scene, width, height, config.TileSize, config.NumWorkers)
	if err != nil {
		return nil, err
	}

	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	if logger == nil {
		logger = &DefaultLogger{}
	}

	return &ProgressiveRaytracer{
		scene:      scene,
		width:      width,
		height:     height,
		config:     config,
		tiles:      NewTileGrid(width, height, config.TileSize, config.Seed),
		pixelStats: pixelStats,
		raytracer:  raytracer,
		workerPool: workerPool,
		logger:     logger,
	}, nil
}

// MergeSamplingConfig applies overrides to the sampling configuration
// used for pass planning and by every worker
func (pr *ProgressiveRaytracer) MergeSamplingConfig(config core.SamplingConfig) {
	pr.raytracer.MergeSamplingConfig(config)
	pr.workerPool.MergeSamplingConfig(config)
}

// samplesForPass calculates the cumulative sample target for a pass
func (pr *ProgressiveRaytracer) samplesForPass(passNumber int) int {
	maxSamples := pr.raytracer.SamplingConfig().SamplesPerPixel
	if pr.config.MaxPasses == 1 {
		return maxSamples
	}

	// First pass is a quick preview, the rest split the remainder evenly
	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	remainingSamples := maxSamples - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	target := pr.config.InitialSamples + (passNumber-1)*samplesPerPass
	if passNumber == pr.config.MaxPasses {
		target = maxSamples
	}
	return target
}

// RenderPass renders a single progressive pass across the worker pool
func (pr *ProgressiveRaytracer) RenderPass(passNumber int) (*image.RGBA, RenderStats, error) {
	targetSamples := pr.samplesForPass(passNumber)

	pr.logger.Printf("Pass %d/%d: target %d samples per pixel (%d workers)\n",
		passNumber, pr.config.MaxPasses, targetSamples, pr.workerPool.NumWorkers())

	if passNumber == 1 {
		pr.workerPool.Start()
	}

	for taskID, tile := range pr.tiles {
		pr.workerPool.SubmitTask(TileTask{
			Tile:          tile,
			TargetSamples: targetSamples,
			TaskID:        taskID,
			PixelStats:    pr.pixelStats,
		})
	}

	for i := 0; i < len(pr.tiles); i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			return nil, RenderStats{}, result.Error
		}
	}

	img, stats := pr.assembleCurrentImage(targetSamples)
	return img, stats, nil
}

// RenderProgressive runs all passes, sending a PassResult after each
// one. The context is checked between passes; cancellation stops the
// render without a final image.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)
		defer pr.workerPool.Stop()

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			select {
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			default:
			}

			img, stats, err := pr.RenderPass(pass)
			if err != nil {
				errChan <- err
				return
			}

			select {
			case passChan <- PassResult{
				PassNumber: pass,
				Image:      img,
				Stats:      stats,
				IsLast:     pass == pr.config.MaxPasses,
			}:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return passChan, errChan
}

// assembleCurrentImage converts the accumulated pixel stats to an image
func (pr *ProgressiveRaytracer) assembleCurrentImage(targetSamples int) (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, pr.width, pr.height))
	stats := RenderStats{
		TotalPixels: pr.width * pr.height,
		MaxSamples:  targetSamples,
	}

	for y := 0; y < pr.height; y++ {
		for x := 0; x < pr.width; x++ {
			ps := &pr.pixelStats[y][x]
			stats.TotalSamples += ps.SampleCount
			img.SetRGBA(x, y, pr.raytracer.vec3ToColor(ps.GetColor()))
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return img, stats
}
