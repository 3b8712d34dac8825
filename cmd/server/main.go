package main

import (
	"context"
	"log"
	"os"

	"github.com/amankumarsingh77/video-transcriber/internal/config"
	"github.com/amankumarsingh77/video-transcriber/internal/server"
	"github.com/amankumarsingh77/video-transcriber/pkg/db/aws"
	"github.com/amankumarsingh77/video-transcriber/pkg/db/redis"
	"github.com/amankumarsingh77/video-transcriber/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("Starting server")
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	configFile := os.Getenv("CONFIG_PATH")
	if configFile == "" {
		configFile = "config.yml"
	}
	cfgFile, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("loadConfig: %v", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("parseConfig: %v", err)
	}

	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("AppVersion: %s, LogLevel: %s, Mode: %s", cfg.Server.AppVersion, cfg.Logger.Level, cfg.Server.Mode)

	redisClient, err := redis.NewRedisClient(cfg)
	if err != nil {
		appLogger.Warnf("could not connect to redis, job events disabled: %s", err)
	} else if redisClient != nil {
		appLogger.Infof("redis connected")
		defer redisClient.Close()
	}

	s3Client, err := aws.NewS3Client(context.Background(), cfg.S3)
	if err != nil {
		appLogger.Warnf("could not create s3 client, mirroring disabled: %s", err)
	}

	s := server.NewServer(cfg, redisClient, s3Client, appLogger)
	if err = s.Run(); err != nil {
		appLogger.Errorf("could not start server: %s", err)
	}
}
