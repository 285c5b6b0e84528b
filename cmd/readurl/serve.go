package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	readurlhttp "github.com/fwojciec/readurl/http"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	ln, err := net.Listen("tcp", c.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", c.Addr, err)
	}

	srv := &http.Server{
		Handler:           readurlhttp.NewHandler(deps.Fetcher, deps.Extractor, deps.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Fprintf(deps.Stdout, "Listening on http://%s%s\n", ln.Addr(), readurlhttp.ReadURLPath)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-deps.Ctx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
