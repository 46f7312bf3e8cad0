package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"policyrag/internal/chunker"
	"policyrag/internal/config"
	"policyrag/internal/domain"
	"policyrag/internal/embedding/openai"
	"policyrag/internal/service"
	"policyrag/internal/tui"
	"policyrag/internal/vectorstore/chroma"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var topK int
	var interactive bool
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/policyrag/config.yaml if not provided)")
	flag.IntVar(&topK, "k", 3, "Number of results to return")
	flag.BoolVar(&interactive, "i", false, "Interactive search (TUI)")
	flag.Parse()

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" && !interactive {
		fmt.Println("Usage: search [--config=config.yaml] [-k=3] \"your question\"  (or -i for interactive mode)")
		os.Exit(1)
	}

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

	if interactive {
		m := tui.New(svc, topK)
		if _, err := tea.NewProgram(m).Run(); err != nil {
			log.Fatal(err)
		}
		return
	}

	results, err := svc.Search(context.Background(), query, topK)
	if err != nil {
		if errors.Is(err, domain.ErrIndexNotFound) {
			fmt.Fprintln(os.Stderr, "Policy index not found. Run the ingest command first.")
			os.Exit(1)
		}
		log.Fatalf("search failed: %v", err)
	}

	fmt.Printf("\nSearching for: %s\n", query)
	fmt.Println(strings.Repeat("-", 80))
	if len(results) == 0 {
		fmt.Println("No matches.")
		return
	}
	for i, r := range results {
		fmt.Printf("\nResult %d:\n", i+1)
		fmt.Printf("Source: %s\n", r.Source)
		if r.Section != "" {
			fmt.Printf("Section: %s\n", r.Section)
		}
		fmt.Printf("Policy: %s\n", r.PolicyID)
		fmt.Printf("Relevance: %.3f\n", r.Score)
		fmt.Println("\nContent:")
		fmt.Println(strings.Repeat("-", 40))
		fmt.Println(r.Text)
		fmt.Println(strings.Repeat("-", 80))
	}
}
