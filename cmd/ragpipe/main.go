package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/ragpipe"
)

func main() {
	mcpMode := flag.Bool("mcp", false, "serve the pipeline as MCP tools on stdio instead of running a batch conversion")
	flag.Usage = printUsage
	flag.Parse()

	cfgPath := "ragpipe.yaml"
	if flag.NArg() > 0 {
		cfgPath = flag.Arg(0)
	}

	cfg, err := ragpipe.LoadConfig(cfgPath)
	if err != nil {
		// An implicit, absent ragpipe.yaml means run with defaults. An
		// explicitly named config that cannot be loaded is fatal.
		if flag.NArg() > 0 || !errors.Is(err, os.ErrNotExist) {
			slog.Error("config", "path", cfgPath, "error", err)
			os.Exit(1)
		}
		cfg = ragpipe.DefaultConfig()
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)
	cfg.Logger = logger

	pipe := ragpipe.New(*cfg)
	ctx := context.Background()

	if *mcpMode {
		srv := mcp.NewServer(&mcp.Implementation{
			Name:    "ragpipe",
			Version: "0.1.0",
		}, nil)
		pipe.RegisterMCP(srv)
		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
			logger.Error("mcp server", "error", err)
			os.Exit(1)
		}
		return
	}

	result, err := pipe.ConvertDir(ctx)
	if err != nil {
		if errors.Is(err, ragpipe.ErrNoInput) {
			logger.Warn("no HTML files found, nothing to do", "dir", cfg.InputDir)
			return
		}
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}

	if err := ragpipe.WriteRecords(cfg.OutputFile, result.Records); err != nil {
		logger.Error("write output", "path", cfg.OutputFile, "error", err)
		os.Exit(1)
	}
	logger.Info("wrote output", "path", cfg.OutputFile, "records", len(result.Records))

	if cfg.DBPath != "" {
		store, err := ragpipe.OpenStore(cfg.DBPath)
		if err != nil {
			logger.Error("open store", "path", cfg.DBPath, "error", err)
			os.Exit(1)
		}
		if err := store.InsertRun(ctx, result.Records); err != nil {
			store.Close()
			logger.Error("index records", "error", err)
			os.Exit(1)
		}
		store.Close()
		logger.Info("indexed records", "db", cfg.DBPath)
	}

	fmt.Println(result.Stats().Summary())
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `ragpipe — convert saved HTML pages into RAG-ready JSON records

usage:
  ragpipe [config.yaml]
  ragpipe -mcp [config.yaml]

Without a config file, defaults are used: ./input for HTML files,
./output/converted_documents.json for the record array, and
./noise_pattern.txt for optional noise regexes (one per line).

-mcp serves the conversion tools over MCP on stdio.
`)
}
