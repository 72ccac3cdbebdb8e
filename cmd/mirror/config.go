package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/hexaflex/canvasdemo/mirror"
	"github.com/hexaflex/canvasdemo/store"
)

// Known store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config defines program configuration.
type Config struct {
	Width         int    // Canvas width in pixels.
	Height        int    // Canvas height in pixels.
	Margin        int    // Offset of the canvas from the window's top-left corner.
	Windows       int    // Number of windows to open. Only meaningful for the memory store.
	Store         string // Store backend: memory or redis.
	Key           string // Store key holding the shared snapshot.
	Prefix        string // Redis key prefix.
	ID            string // Identifier of this context; random when empty.
	RedisAddr     string // Redis server address.
	RedisPassword string // Redis password.
	Debug         bool   // Enable debug logging?
}

// parseArgs parses command line arguments as applicable.
// Redis settings default to REDIS_HOST, REDIS_PORT and REDIS_PASSWORD,
// which may be provided through a .env file.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("failed to load .env: %v", err)
	}

	var c Config
	c.Width = 400
	c.Height = 300
	c.Margin = 20
	c.Windows = 1
	c.Store = StoreMemory
	c.Key = mirror.DefaultKey
	c.Prefix = store.DefaultPrefix
	c.RedisAddr = net.JoinHostPort(getenv("REDIS_HOST", "127.0.0.1"), getenv("REDIS_PORT", "6379"))
	c.RedisPassword = os.Getenv("REDIS_PASSWORD")

	flag.Usage = func() {
		fmt.Printf("%s [options]\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.IntVar(&c.Width, "width", c.Width, "Canvas width in pixels.")
	flag.IntVar(&c.Height, "height", c.Height, "Canvas height in pixels.")
	flag.IntVar(&c.Margin, "margin", c.Margin, "Canvas offset inside the window, in pixels.")
	flag.IntVar(&c.Windows, "windows", c.Windows, "Number of mirrored windows to open.")
	flag.StringVar(&c.Store, "store", c.Store, "Shared store backend: memory or redis.")
	flag.StringVar(&c.Key, "key", c.Key, "Store key holding the canvas snapshot.")
	flag.StringVar(&c.Prefix, "prefix", c.Prefix, "Redis key prefix.")
	flag.StringVar(&c.ID, "id", c.ID, "Identifier of this context. Random when empty.")
	flag.StringVar(&c.RedisAddr, "redis", c.RedisAddr, "Redis server address.")
	flag.BoolVar(&c.Debug, "debug", c.Debug, "Enable debug logging.")

	version := flag.Bool("version", false, "Display version information.")
	flag.Parse()

	if *version {
		fmt.Println(Version())
		os.Exit(0)
	}

	if c.Width <= 0 || c.Height <= 0 || c.Margin < 0 || c.Windows <= 0 {
		fmt.Fprintln(os.Stderr, "width, height and windows must be positive; margin must not be negative")
		flag.Usage()
		os.Exit(1)
	}

	if c.Store != StoreMemory && c.Store != StoreRedis {
		fmt.Fprintf(os.Stderr, "unknown store %q\n", c.Store)
		flag.Usage()
		os.Exit(1)
	}

	return &c
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
