package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-mirror-raytracer/pkg/core"
	"github.com/df07/go-mirror-raytracer/pkg/loaders"
	"github.com/df07/go-mirror-raytracer/pkg/renderer"
	"github.com/df07/go-mirror-raytracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	scene     string
	scenesDir string
	width     int
	height    int
	sky       string
	fov       float64
	workers   int
	tile      int
	gamma     float64
	out       string
	serial    bool
}

func main() {
	opts := options{}
	flag.StringVar(&opts.scene, "scene", "default", "Scene: built-in name, file:<name>, or path to a .pbrt file")
	flag.StringVar(&opts.scenesDir, "scenes", "scenes", "Directory searched for file: scenes")
	flag.IntVar(&opts.width, "width", 0, "Frame width (0 = scene or default)")
	flag.IntVar(&opts.height, "height", 0, "Frame height (0 = scene or default)")
	flag.StringVar(&opts.sky, "sky", "", "Environment image (PNG/JPEG), overrides the scene's sky")
	flag.Float64Var(&opts.fov, "fov", 0, "Vertical field of view in degrees (0 = scene camera)")
	flag.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (0 = physical cores)")
	flag.IntVar(&opts.tile, "tile", renderer.DefaultConfig().TileSize, "Tile size in pixels")
	flag.Float64Var(&opts.gamma, "gamma", 2.2, "Output gamma")
	flag.StringVar(&opts.out, "out", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	flag.BoolVar(&opts.serial, "serial", false, "Render on a single goroutine")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	if err := run(opts, renderer.NewDefaultLogger()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Mirror Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Built-in scenes:")
	for _, name := range scene.BuiltinNames() {
		fmt.Printf("  %s\n", name)
	}
}

// run renders one frame according to opts and writes it as a PNG
func run(opts options, logger core.Logger) error {
	sf, err := loaders.LoadNamedScene(opts.scene, opts.scenesDir)
	if err != nil {
		return err
	}
	s := sf.Scene

	if opts.sky != "" {
		s.SkyFilename = opts.sky
	}
	sky, err := loaders.EnvironmentFor(s)
	if err != nil {
		return err
	}

	config := renderConfig(opts, sf)
	logger.Printf("Rendering %q at %dx%d...\n", opts.scene, config.Width, config.Height)

	var tracer renderer.PathTracer
	if opts.serial {
		tracer = renderer.NewSerialTracer(config, logger)
	} else {
		tracer = renderer.NewCPUTracer(config, logger)
	}
	defer tracer.Close()

	if err := tracer.Initialize(); err != nil {
		return err
	}
	if err := tracer.LoadScene(s); err != nil {
		return err
	}
	if err := tracer.SetSky(sky); err != nil {
		return err
	}
	tracer.SetViewMatrix(s.Camera.ViewMatrix())

	stats, err := tracer.Render()
	if err != nil {
		return err
	}
	logger.Printf("Bounces per pixel: %.2f (max %d), escaped pixels: %d\n",
		stats.AverageBounces, stats.MaxBouncesUsed, stats.EscapedPixels)

	filename := outputPath(opts, sf, time.Now())
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()

	frame := &renderer.FrameBuffer{Width: config.Width, Height: config.Height, Pixels: tracer.GetPixels()}
	if err := frame.WritePNG(file, float32(opts.gamma)); err != nil {
		return err
	}

	logger.Printf("Render saved as %s\n", filename)
	return nil
}

// renderConfig merges flags over the scene's film and camera settings
func renderConfig(opts options, sf *loaders.SceneFile) renderer.Config {
	config := renderer.DefaultConfig()
	if sf.Width > 0 && sf.Height > 0 {
		config.Width, config.Height = sf.Width, sf.Height
	}
	if opts.width > 0 {
		config.Width = opts.width
	}
	if opts.height > 0 {
		config.Height = opts.height
	}

	config.FovDegrees = sf.Scene.Camera.FovDegrees
	if opts.fov > 0 {
		config.FovDegrees = float32(opts.fov)
	}
	if config.FovDegrees <= 0 {
		config.FovDegrees = renderer.DefaultConfig().FovDegrees
	}

	config.NumWorkers = opts.workers
	config.TileSize = opts.tile
	return config
}

// outputPath picks the PNG destination: the -out flag, then the scene's
// film filename, then a timestamped file under output/<scene>/
func outputPath(opts options, sf *loaders.SceneFile, now time.Time) string {
	if opts.out != "" {
		return opts.out
	}
	if sf.OutputFilename != "" {
		return filepath.Join("output", sf.OutputFilename)
	}
	name := strings.TrimPrefix(opts.scene, "file:")
	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	return filepath.Join("output", name, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}
