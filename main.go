package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds the parsed command line
type options struct {
	sceneName  string
	configPath string
	format     string
	output     string
	occlusion  string
	list       bool
	help       bool
	sampling   renderer.SamplingConfig
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	var seed uint64

	fs := flag.NewFlagSet("phong-raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.sceneName, "scene", "phong", "Built-in scene name (see -list)")
	fs.StringVar(&opts.configPath, "config", "", "Path to a JSON scene file; overrides -scene")
	fs.IntVar(&opts.sampling.Width, "width", 0, "Image width in pixels (0 = scene default)")
	fs.IntVar(&opts.sampling.SamplesPerPixel, "samples", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&opts.sampling.MaxDepth, "depth", 0, "Maximum bounce depth (0 = scene default)")
	fs.Uint64Var(&seed, "seed", 0, "Random seed (0 = scene default)")
	fs.IntVar(&opts.sampling.NumWorkers, "workers", 0, "Parallel workers (0 = number of CPUs)")
	fs.StringVar(&opts.format, "format", "ppm", "Output format: 'ppm' or 'png'")
	fs.StringVar(&opts.output, "output", "", "Output file (default stdout for ppm, render.png for png)")
	fs.StringVar(&opts.occlusion, "occlusion", "", "Shadow query: 'nearest' or 'first' (default: scene setting)")
	fs.BoolVar(&opts.list, "list", false, "List built-in scenes and exit")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.sampling.Seed = seed

	if opts.help {
		fmt.Fprintln(stderr, "Phong Raytracer")
		fmt.Fprintln(stderr, "Usage: phong-raytracer [options] > image.ppm")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}

	switch opts.format {
	case "ppm", "png":
	default:
		return opts, fmt.Errorf("unknown format %q (want ppm or png)", opts.format)
	}
	return opts, nil
}

// createScene loads the scene file if one is given, otherwise the named built-in scene
func createScene(sceneName, configPath string) (*scene.Scene, error) {
	if configPath != "" {
		return scene.LoadFile(configPath)
	}
	return scene.Create(sceneName)
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if opts.help {
		return 0
	}

	if opts.list {
		for _, info := range scene.List() {
			fmt.Fprintf(stdout, "  %-16s %s\n", info.ID, info.Description)
		}
		return 0
	}

	selectedScene, err := createScene(opts.sceneName, opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating scene: %v\n", err)
		return 1
	}

	selectedScene.SamplingConfig = renderer.MergeSamplingConfig(selectedScene.SamplingConfig, opts.sampling)
	if opts.occlusion != "" {
		mode, err := geometry.ParseOcclusionMode(opts.occlusion)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		selectedScene.World.Mode = mode
	}

	if err := selectedScene.Prepare(); err != nil {
		fmt.Fprintf(stderr, "Error preparing scene: %v\n", err)
		return 1
	}

	out, closeOut, err := openOutput(opts, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening output: %v\n", err)
		return 1
	}

	var sink renderer.Sink
	if opts.format == "png" {
		sink = renderer.NewPNGWriter(out)
	} else {
		sink = renderer.NewPPMWriter(out)
	}

	logger := renderer.NewDefaultLogger(stderr)
	config := selectedScene.SamplingConfig
	logger.Printf("Rendering %q at %dx%d, %d samples, depth %d, occlusion %s",
		selectedScene.Name, config.Width, config.Height, config.SamplesPerPixel, config.MaxDepth, selectedScene.World.Mode)

	raytracer := renderer.NewRaytracer(selectedScene, config, logger)
	_, renderErr := raytracer.Render(context.Background(), sink)
	closeErr := closeOut()
	if renderErr != nil {
		fmt.Fprintf(stderr, "Error rendering: %v\n", renderErr)
		return 1
	}
	if closeErr != nil {
		fmt.Fprintf(stderr, "Error closing output: %v\n", closeErr)
		return 1
	}

	if opts.output != "" || opts.format == "png" {
		logger.Printf("Render saved as %s", outputName(opts))
	}
	return 0
}

func outputName(opts options) string {
	if opts.output != "" {
		return opts.output
	}
	if opts.format == "png" {
		return "render.png"
	}
	return ""
}

// openOutput returns the destination writer and a function that closes it
func openOutput(opts options, stdout io.Writer) (io.Writer, func() error, error) {
	name := outputName(opts)
	if name == "" {
		return stdout, func() error { return nil }, nil
	}
	file, err := os.Create(name)
	if err != nil {
		return nil, nil, err
	}
	return file, file.Close, nil
}
