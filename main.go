package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/lumiray/lumiray/pkg/core"
	applog "github.com/lumiray/lumiray/pkg/log"
	"github.com/lumiray/lumiray/pkg/renderer"
	"github.com/lumiray/lumiray/pkg/scene"
	"github.com/lumiray/lumiray/pkg/writer"
	"github.com/lumiray/lumiray/web/server"
)

var logger = applog.New("lumiray")

func main() {
	app := cli.NewApp()
	app.Name = "lumiray"
	app.Usage = "render sphere scenes using stochastic path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "render",
			Usage:     "render a scene to an image file",
			ArgsUsage: "[output file]",
			Description: `
Render one of the built-in scenes and write the result as PNG or plain
PPM. The output defaults to output/<scene>/render_<timestamp>.<format>.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scene",
					Value: "random-world",
					Usage: "scene to render (see list-scenes)",
				},
				cli.IntFlag{
					Name:  "width",
					Value: 400,
					Usage: "image width in pixels",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: 0,
					Usage: "samples per pixel (0 = scene default)",
				},
				cli.IntFlag{
					Name:  "max-depth",
					Value: 0,
					Usage: "maximum ray bounce depth (0 = scene default)",
				},
				cli.IntFlag{
					Name:  "tile-size",
					Value: 64,
					Usage: "tile edge length in pixels",
				},
				cli.IntFlag{
					Name:  "workers",
					Value: 0,
					Usage: "number of render workers (0 = CPU count)",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 42,
					Usage: "seed for scene generation and sampling",
				},
				cli.StringFlag{
					Name:  "format",
					Value: "png",
					Usage: "output format: png or ppm",
				},
			},
			Action: renderScene,
		},
		{
			Name:   "list-scenes",
			Usage:  "list the built-in scenes",
			Action: listScenes,
		},
		{
			Name:  "serve",
			Usage: "start the progressive preview web server",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "port",
					Value: 8080,
					Usage: "port to listen on",
				},
			},
			Action: serve,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		applog.SetLevel(applog.Info)
	}

	if ctx.GlobalBool("vv") {
		applog.SetLevel(applog.Debug)
	}
}

func renderScene(ctx *cli.Context) error {
	setupLogging(ctx)

	sceneID := ctx.String("scene")
	seed := ctx.Int64("seed")

	selectedScene, err := scene.CreateScene(sceneID, seed, renderer.CameraConfig{
		Width: ctx.Int("width"),
	})
	if err != nil {
		return err
	}

	camera := selectedScene.GetCamera()
	width := camera.Width()
	height := camera.Height()

	config := renderer.DefaultProgressiveConfig()
	config.TileSize = ctx.Int("tile-size")
	config.NumWorkers = ctx.Int("workers")
	config.Seed = seed
	config.MaxPasses = 1

	progressive, err := renderer.NewProgressiveRaytracer(selectedScene, width, height, config, applog.Progress{Logger: logger})
	if err != nil {
		return err
	}
	progressive.MergeSamplingConfig(core.SamplingConfig{
		SamplesPerPixel: ctx.Int("spp"),
		MaxDepth:        ctx.Int("max-depth"),
	})

	logger.Noticef("rendering %q at %dx%d", sceneID, width, height)
	startTime := time.Now()

	passChan, errChan := progressive.RenderProgressive(context.Background())

	var result renderer.PassResult
	for pass := range passChan {
		result = pass
	}
	if err := <-errChan; err != nil {
		return err
	}
	renderTime := time.Since(startTime)

	format := ctx.String("format")
	outputFile := ctx.Args().First()
	if outputFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputFile = filepath.Join("output", sceneID, fmt.Sprintf("render_%s.%s", timestamp, format))
	}
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("creating output directory: %v", err)
	}

	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("creating output file: %v", err)
	}
	defer file.Close()

	if err := writer.Write(file, result.Image, format); err != nil {
		return err
	}

	printRenderSummary(result, renderTime, outputFile)
	return nil
}

// printRenderSummary writes a small stats table to stdout
func printRenderSummary(result renderer.PassResult, renderTime time.Duration, outputFile string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Pixels", "Samples", "Avg spp", "Time", "Output"})
	table.Append([]string{
		strconv.Itoa(result.Stats.TotalPixels),
		strconv.Itoa(result.Stats.TotalSamples),
		fmt.Sprintf("%.1f", result.Stats.AverageSamples),
		renderTime.Round(time.Millisecond).String(),
		outputFile,
	})
	table.Render()
}

func listScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Description"})
	for _, info := range scene.ListScenes() {
		table.Append([]string{info.ID, info.Name, info.Description})
	}
	table.Render()
	return nil
}

func serve(ctx *cli.Context) error {
	setupLogging(ctx)
	return server.NewServer(ctx.Int("port")).Start()
}
