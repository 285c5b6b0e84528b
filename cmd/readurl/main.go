package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/readurl"
	"github.com/fwojciec/readurl/crawl"
	"github.com/fwojciec/readurl/goquery"
	readurlhttp "github.com/fwojciec/readurl/http"
	"github.com/fwojciec/readurl/readability"
	"github.com/fwojciec/readurl/rod"
	readurlslog "github.com/fwojciec/readurl/slog"
	"github.com/fwojciec/readurl/trafilatura"
	"github.com/fwojciec/readurl/yaml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Stdin is read by "extract -". Set before calling Run().
	Stdin io.Reader

	// Fetcher replaces the network fetcher for end-to-end testing.
	Fetcher readurl.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Stdin: os.Stdin,
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("readurl"),
		kong.Description("Extract readable articles from web pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'readurl --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	policy := readurl.DefaultPolicy()
	if cli.PolicyFile != "" {
		policy, err = yaml.LoadPolicy(cli.PolicyFile)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: run 'readurl policy' to print the default policy as a starting point")
			return fmt.Errorf("failed to load policy %q: %w", cli.PolicyFile, err)
		}
	}
	deps.Policy = policy
	deps.Extractor = readurlslog.NewLoggingExtractor(newExtractor(cli.Engine, policy), deps.Logger)

	switch kongCtx.Selected().Name {
	case "read", "serve":
		fetcher := m.Fetcher
		if fetcher == nil {
			fetcher, err = newFetcher(cli, deps.Logger)
			if err != nil {
				return err
			}
		}
		fetcher = readurlslog.NewLoggingFetcher(fetcher, deps.Logger)
		defer fetcher.Close()
		deps.Fetcher = fetcher
	}

	return kongCtx.Run(deps)
}

func newExtractor(engine string, policy *readurl.Policy) readurl.Extractor {
	switch engine {
	case engineReadability:
		return readability.NewExtractor()
	case engineTrafilatura:
		return trafilatura.NewExtractor()
	default:
		return goquery.NewExtractor(goquery.WithPolicy(policy))
	}
}

func newFetcher(cli *CLI, logger *slog.Logger) (readurl.Fetcher, error) {
	if cli.Browser {
		fetcher, err := rod.NewFetcher(
			rod.WithFetchTimeout(cli.Timeout),
			rod.WithUserAgent(readurlhttp.DefaultUserAgent),
			rod.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
		}
		return fetcher, nil
	}
	return readurlhttp.NewFetcher(readurlhttp.WithTimeout(cli.Timeout)), nil
}

// newReader builds the batch reader used by the read command.
func newReader(deps *Dependencies, concurrency int, rps float64) *crawl.Reader {
	return &crawl.Reader{
		Fetcher:     deps.Fetcher,
		Extractor:   deps.Extractor,
		RateLimiter: crawl.NewDomainLimiter(rps),
		Logger:      deps.Logger,
		Concurrency: concurrency,
	}
}
