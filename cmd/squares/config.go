package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hexaflex/canvasdemo/scene"
)

// Config defines program configuration.
type Config struct {
	Width  int     // Window width in pixels.
	Height int     // Window height in pixels.
	Size   float64 // Square width and height in pixels.
	Seed   int64   // Color seed; 0 picks one from the clock.
	ID     string  // Canvas identifier. Reserved for multiple canvases.
	Debug  bool    // Enable debug logging?
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	var c Config
	c.Width = 640
	c.Height = 480
	c.Size = scene.DefaultSize

	flag.Usage = func() {
		fmt.Printf("%s [options]\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.IntVar(&c.Width, "width", c.Width, "Window width in pixels.")
	flag.IntVar(&c.Height, "height", c.Height, "Window height in pixels.")
	flag.Float64Var(&c.Size, "size", c.Size, "Square size in pixels.")
	flag.Int64Var(&c.Seed, "seed", c.Seed, "Random color seed. 0 uses the current time.")
	flag.StringVar(&c.ID, "id", c.ID, "Canvas identifier.")
	flag.BoolVar(&c.Debug, "debug", c.Debug, "Enable debug logging.")

	version := flag.Bool("version", false, "Display version information.")
	flag.Parse()

	if *version {
		fmt.Println(Version())
		os.Exit(0)
	}

	if c.Width <= 0 || c.Height <= 0 || c.Size <= 0 {
		fmt.Fprintln(os.Stderr, "width, height and size must be positive")
		flag.Usage()
		os.Exit(1)
	}

	return &c
}
