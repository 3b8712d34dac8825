package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amankumarsingh77/video-transcriber/internal/config"
	"github.com/amankumarsingh77/video-transcriber/internal/models"
	"github.com/amankumarsingh77/video-transcriber/internal/server"
	"github.com/amankumarsingh77/video-transcriber/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("vidscribe", flag.ContinueOnError)
	configFile := fs.String("config", "config.yml", "path to the config file")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: vidscribe [-config config.yml] URL...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	_ = godotenv.Load()
	cfgFile, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loadConfig: %v\n", err)
		return 1
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parseConfig: %v\n", err)
		return 1
	}

	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()

	jobsUC, closeEngine, err := server.NewJobsUseCase(cfg, nil, nil, appLogger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup: %v\n", err)
		return 1
	}
	defer closeEngine()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := jobsUC.RunBatch(ctx, &models.BatchRequest{URLs: fs.Args()})
	if err != nil {
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			fs.Usage()
		}
		fmt.Fprintf(os.Stderr, "vidscribe: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(models.BatchResponse{Results: results}); err != nil {
		fmt.Fprintf(os.Stderr, "encode results: %v\n", err)
		return 1
	}
	return 0
}
