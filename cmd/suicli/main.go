// Package main is the entry point for the suicli tool.
package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/suitools/suicli/internal/config"
)

// Build-time variables (set via ldflags)
var (
	version = "dev"
	commit  = "unknown"
)

func init() {
	// Load .env for any additional env vars
	_ = godotenv.Load()
}

// runContext carries shared state into command Run methods.
type runContext struct {
	cfg *config.Config
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("suicli"),
		kong.Description("Sui signing-key vault and interactive agent session"),
		kong.UsageOnError(),
		kongVars(),
	)

	var cfg *config.Config
	var err error
	if cli.Config != "" {
		cfg, err = config.LoadFile(cli.Config)
	} else {
		cfg, err = config.Load()
	}
	kctx.FatalIfErrorf(err)

	kctx.FatalIfErrorf(kctx.Run(&runContext{cfg: cfg}))
}
