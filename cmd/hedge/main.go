// Command hedge evaluates a mesh script and writes the result as JSON.
//
// Usage:
//
//	hedge [-config hedge.toml] [-format interchange|hemesh] [-v] [script]
//
// The script is read from standard input when no file is given. Settings
// come from defaults, the optional TOML file, and HEDGE_* environment
// variables.
package main

import (
	"encoding/json"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/chazu/hedge"
	"github.com/chazu/hedge/internal/config"
)

func main() {
	configPath := flag.String("config", "", "TOML settings file")
	format := flag.String("format", "interchange", "output format: interchange or hemesh")
	verbose := flag.Bool("v", false, "log to stderr")
	flag.Parse()

	if *verbose {
		hedge.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	source, err := readSource(flag.Arg(0))
	if err != nil {
		log.Fatalf("read script: %v", err)
	}

	app, err := NewApp(cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	result := app.Evaluate(string(source))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	switch {
	case len(result.Errors) > 0:
		_ = enc.Encode(result)
		os.Exit(1)
	case *format == "hemesh":
		err = enc.Encode(result.Mesh)
	case *format == "interchange":
		err = enc.Encode(result)
	default:
		log.Fatalf("unknown format %q", *format)
	}
	if err != nil {
		log.Fatalf("write: %v", err)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Load()
	}
	f, err := os.Open(path)
	if err != nil {
		return config.Config{}, err
	}
	defer f.Close()
	return config.Read(f)
}

func readSource(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
