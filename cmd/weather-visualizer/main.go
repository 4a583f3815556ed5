package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/chrissnell/weather-visualizer/internal/log"
	"github.com/chrissnell/weather-visualizer/internal/pipeline"
	"github.com/chrissnell/weather-visualizer/pkg/config"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	cfgFile := flag.String("config", "", "Path to a YAML configuration file. Built-in defaults are used when empty;\n\t\t\t  WEATHERVIS_* environment variables override either")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("weather-visualizer %s\n", version)
		os.Exit(0)
	}

	// A missing .env file is normal
	_ = godotenv.Load()

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	os.Exit(run(*cfgFile))
}

func run(cfgFile string) int {
	defer log.Sync()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		log.Errorf("error reading config. Did you pass the -config flag? Run with -h for help: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(cfg, log.GetSugaredLogger(), os.Stdout)
	if _, err := p.Run(ctx); err != nil {
		if errors.Is(err, pipeline.ErrAborted) {
			return 0
		}
		log.Errorf("run failed: %v", err)
		return 1
	}
	return 0
}
