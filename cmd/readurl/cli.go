package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/readurl"
)

// Extraction engines selectable with --engine.
const (
	engineReadurl     = "readurl"
	engineReadability = "readability"
	engineTrafilatura = "trafilatura"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Policy    *readurl.Policy
	Fetcher   readurl.Fetcher
	Extractor readurl.Extractor
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	PolicyFile string        `name:"policy" env:"READURL_POLICY" placeholder:"FILE" help:"YAML file overriding the extraction policy"`
	Verbose    bool          `short:"v" help:"Log every fetch and extraction"`
	Engine     string        `default:"readurl" enum:"readurl,readability,trafilatura" help:"Extraction engine (${enum})"`
	Browser    bool          `help:"Render pages in headless Chrome before extracting"`
	Timeout    time.Duration `default:"10s" help:"Per-page fetch timeout"`

	Read    ReadCmd    `cmd:"" help:"Fetch URLs and print one JSON article per line"`
	Extract ExtractCmd `cmd:"" help:"Extract an article from a local HTML file"`
	Serve   ServeCmd   `cmd:"" help:"Serve the read-url JSON endpoint over HTTP"`
	Policy  PolicyCmd  `cmd:"" help:"Print the effective extraction policy as YAML"`
}

// ReadCmd is the "read" subcommand.
type ReadCmd struct {
	URLs        []string `arg:"" name:"url" help:"Page URLs to read"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent fetch limit"`
	RPS         float64  `name:"rps" default:"1" help:"Requests per second per domain (0 disables)"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	File string `arg:"" help:"HTML file to extract, or - for stdin"`
	URL  string `short:"u" help:"Original page URL, used for platform detection"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr            string        `default:":8080" help:"Listen address"`
	ShutdownTimeout time.Duration `default:"5s" help:"Grace period for in-flight requests on shutdown"`
}

// PolicyCmd is the "policy" subcommand.
type PolicyCmd struct{}
