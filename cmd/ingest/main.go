package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"policyrag/internal/chunker"
	"policyrag/internal/config"
	"policyrag/internal/embedding/openai"
	"policyrag/internal/service"
	"policyrag/internal/vectorstore/chroma"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, dir string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/policyrag/config.yaml if not provided)")
	flag.StringVar(&dir, "dir", "", "Corpus directory (overrides config)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if dir != "" {
		cfg.Corpus.Dir = dir
	}

	embedder, err := openai.NewClient(openai.Config{
		BaseURL:   cfg.Embedder.OpenAI.BaseURL,
		APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
		Model:     cfg.Embedder.OpenAI.Model,
		Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		BatchSize: cfg.Embedder.OpenAI.BatchSize,
	})
	if err != nil {
		log.Fatalf("embedder init failed: %v", err)
	}
	index := chroma.NewStore(chroma.Config{
		URL:        cfg.Index.Chroma.URL,
		Collection: cfg.Index.Chroma.Collection,
		Timeout:    time.Duration(cfg.Index.Chroma.TimeoutSecs) * time.Second,
	})

	svc := service.New(chunker.New(), embedder, index)

	fmt.Printf("Loading policies from %s\n", cfg.Corpus.Dir)
	fmt.Printf("Using embedding model: %s\n", cfg.Embedder.OpenAI.Model)
	count, err := svc.Ingest(context.Background(), cfg.Corpus.Dir)
	if err != nil {
		log.Fatalf("ingest failed: %v", err)
	}
	fmt.Printf("Ingestion complete: %d chunks written to %q\n", count, cfg.Index.Chroma.Collection)
}
