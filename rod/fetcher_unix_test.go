//go:build integration && !windows

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"syscall"
	"testing"
	"time"

	"github.com/fwojciec/readurl/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// running reports whether pid exists, using signal 0.
func running(pid int) bool {
	return syscall.Kill(pid, syscall.Signal(0)) == nil
}

func TestFetcher_Close_KillsLauncherProcess(t *testing.T) {
	t.Parallel()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)

	pid := fetcher.LauncherPID()
	require.NotZero(t, pid)
	require.True(t, running(pid))

	require.NoError(t, fetcher.Close())
	time.Sleep(100 * time.Millisecond)

	assert.False(t, running(pid))
}

func TestFetcher_Fetch_RecycleKillsOldLauncher(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>ok</body></html>`))
	}))
	defer srv.Close()

	fetcher, err := rod.NewFetcher(rod.WithBrowserMaxPages(1))
	require.NoError(t, err)
	defer fetcher.Close()

	_, err = fetcher.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	oldPID := fetcher.LauncherPID()

	_, err = fetcher.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)

	assert.NotEqual(t, oldPID, fetcher.LauncherPID())
	assert.False(t, running(oldPID))
}
