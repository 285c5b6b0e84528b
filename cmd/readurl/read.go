package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/readurl"
	"github.com/fwojciec/readurl/crawl"
)

// Run executes the read command.
func (c *ReadCmd) Run(deps *Dependencies) error {
	reader := newReader(deps, c.Concurrency, c.RPS)

	progress := func(event crawl.ProgressEvent) {
		if event.Type == crawl.ProgressFailed {
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", crawl.ShortURL(event.URL, 60), readurl.ErrorMessage(event.Error))
		}
	}

	batch := reader.Read(deps.Ctx, c.URLs, progress)

	enc := json.NewEncoder(deps.Stdout)
	enc.SetEscapeHTML(false)
	for _, r := range batch.Results {
		if r.Err != nil {
			continue
		}
		if err := enc.Encode(r.Article); err != nil {
			return fmt.Errorf("write article: %w", err)
		}
	}

	fmt.Fprintf(deps.Stderr, "Read %d of %d pages (%d unique, %s)",
		batch.Succeeded, len(batch.Results), batch.UniqueContent(), crawl.FormatSize(batch.Bytes))
	if batch.Duplicates > 0 {
		fmt.Fprintf(deps.Stderr, ", %d duplicate URLs skipped", batch.Duplicates)
	}
	fmt.Fprintln(deps.Stderr)

	if batch.Failed > 0 && batch.Succeeded == 0 {
		return fmt.Errorf("all %d pages failed", batch.Failed)
	}
	return nil
}
