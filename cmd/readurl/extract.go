package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/readurl"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	var (
		b   []byte
		err error
	)
	if c.File == "-" {
		b, err = io.ReadAll(deps.Stdin)
	} else {
		b, err = os.ReadFile(c.File)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	article := deps.Extractor.Extract(readurl.RawDocument{URL: c.URL, HTML: string(b)})

	enc := json.NewEncoder(deps.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(article)
}
