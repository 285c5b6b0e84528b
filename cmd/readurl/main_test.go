package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/readurl"
	main "github.com/fwojciec/readurl/cmd/readurl"
	"github.com/fwojciec/readurl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wechatURL = "https://mp.weixin.qq.com/s/abc"

const wechatHTML = `<html><head><title>Head</title></head><body>
<h1 id="activity-name">每日英语</h1>
<div id="js_content">
<p>微信号：daily</p>
<p>无注释原文</p>
<p>The first paragraph of the article tells a story about learning.</p>
<p>The second paragraph continues that story with more detail.</p>
<p>The third paragraph wraps the story up for the reader.</p>
<p>参考译文</p>
<p>译文内容</p>
</div>
</body></html>`

const genericHTML = `<html><head><title>Blog</title></head><body>
<article><p>This is the only paragraph of a plain blog post.</p></article>
</body></html>`

func pageFetcher(pages map[string]string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			html, ok := pages[url]
			if !ok {
				return "", &readurl.FetchError{URL: url, StatusCode: http.StatusNotFound}
			}
			return html, nil
		},
		CloseFn: func() error { return nil },
	}
}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	// Use kong.Exit to prevent os.Exit from being called during tests
	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range []string{"read", "extract", "serve", "policy"} {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
	for _, flag := range []string{"--policy", "--verbose", "--engine", "--browser"} {
		assert.Contains(t, helpOutput, flag, "Help should mention %s flag", flag)
	}
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("help returns nil and shows commands", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Usage:")
		assert.Contains(t, stdout.String(), "read")
	})

	t.Run("no arguments returns error", func(t *testing.T) {
		t.Parallel()

		err := main.NewMain().Run(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
	})

	t.Run("rejects unknown engine", func(t *testing.T) {
		t.Parallel()

		err := main.NewMain().Run(context.Background(), []string{"--engine", "magic", "policy"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
	})
}

func TestCmdRead(t *testing.T) {
	t.Parallel()

	t.Run("prints one JSON article per URL in order", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.Fetcher = pageFetcher(map[string]string{
			wechatURL:                  wechatHTML,
			"https://example.com/post": genericHTML,
		})
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"read", "--rps", "0", wechatURL, "https://example.com/post"}, stdout, stderr)

		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		require.Len(t, lines, 2)

		var first, second readurl.Article
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
		require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))

		assert.Equal(t, wechatURL, first.URL)
		assert.Equal(t, "每日英语", first.Title)
		assert.Equal(t, "The first paragraph of the article tells a story about learning.\n\n"+
			"The second paragraph continues that story with more detail.\n\n"+
			"The third paragraph wraps the story up for the reader.", first.Content)

		assert.Equal(t, "Blog", second.Title)
		assert.Equal(t, "This is the only paragraph of a plain blog post.", second.Content)
		assert.Contains(t, stderr.String(), "Read 2 of 2 pages")
	})

	t.Run("reports failed URLs and keeps the rest", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.Fetcher = pageFetcher(map[string]string{"https://example.com/post": genericHTML})
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"read", "--rps", "0", "https://example.com/missing", "https://example.com/post"}, stdout, stderr)

		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(stdout.String(), "\n"))
		assert.Contains(t, stderr.String(), "skip https://example.com/missing")
		assert.Contains(t, stderr.String(), "HTTP 404")
	})

	t.Run("returns error when every URL fails", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.Fetcher = pageFetcher(nil)

		err := m.Run(context.Background(), []string{"read", "--rps", "0", "https://example.com/missing"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "all 1 pages failed")
	})

	t.Run("skips duplicate URLs", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.Fetcher = pageFetcher(map[string]string{"https://example.com/post": genericHTML})
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"read", "--rps", "0", "https://example.com/post", "https://example.com/post#top"}, stdout, stderr)

		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(stdout.String(), "\n"))
		assert.Contains(t, stderr.String(), "1 duplicate URLs skipped")
	})

	t.Run("logs fetches with verbose flag", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.Fetcher = pageFetcher(map[string]string{"https://example.com/post": genericHTML})
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--verbose", "read", "--rps", "0", "https://example.com/post"}, &bytes.Buffer{}, stderr)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "msg=fetch")
		assert.Contains(t, stderr.String(), "msg=extract")
		assert.Contains(t, stderr.String(), "tier=article")
	})

	t.Run("closes the fetcher", func(t *testing.T) {
		t.Parallel()

		closed := false
		m := main.NewMain()
		m.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				return genericHTML, nil
			},
			CloseFn: func() error {
				closed = true
				return nil
			},
		}

		err := m.Run(context.Background(), []string{"read", "https://example.com/post"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.NoError(t, err)
		assert.True(t, closed)
	})
}

func TestCmdExtract(t *testing.T) {
	t.Parallel()

	t.Run("extracts a local file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "page.html")
		require.NoError(t, os.WriteFile(path, []byte(genericHTML), 0o600))
		stdout := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"extract", path}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		var article readurl.Article
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &article))
		assert.Equal(t, "Blog", article.Title)
		assert.Equal(t, "This is the only paragraph of a plain blog post....", article.Summary)
	})

	t.Run("reads stdin and applies platform rules for the given URL", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.Stdin = strings.NewReader(wechatHTML)
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"extract", "--url", wechatURL, "-"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		var article readurl.Article
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &article))
		assert.Equal(t, wechatURL, article.URL)
		assert.NotContains(t, article.Content, "微信号")
		assert.NotContains(t, article.Content, "译文内容")
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), []string{"extract", filepath.Join(t.TempDir(), "missing.html")}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
		assert.Contains(t, stderr.String(), "error:")
	})
}

func TestCmdPolicy(t *testing.T) {
	t.Parallel()

	t.Run("prints default policy", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), []string{"policy"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "minDensityScore: 100")
		assert.Contains(t, stdout.String(), "wechat:")
	})

	t.Run("applies policy file overrides", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "policy.yaml")
		require.NoError(t, os.WriteFile(path, []byte("generic:\n  minDensityScore: 7\n"), 0o600))
		stdout := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"--policy", path, "policy"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "minDensityScore: 7")
	})

	t.Run("fails on invalid policy file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "policy.yaml")
		require.NoError(t, os.WriteFile(path, []byte("generic:\n  minDensityScore: -1\n"), 0o600))
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"--policy", path, "policy"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Equal(t, readurl.EINVALID, readurl.ErrorCode(err))
		assert.Contains(t, stderr.String(), "Hint:")
	})
}

func TestCmdServe(t *testing.T) {
	t.Parallel()

	t.Run("stops when the context is canceled", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.Fetcher = pageFetcher(nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		stdout := &bytes.Buffer{}

		err := m.Run(ctx, []string{"serve", "--addr", "127.0.0.1:0"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Listening on http://127.0.0.1:")
	})
}
