package rod

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/readurl"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultMaxPages is the number of pages a Chrome process renders before it
// is replaced.
const DefaultMaxPages = 75

// BrowserManager owns the headless Chrome processes behind a Fetcher. After
// maxPages pages it launches a fresh process for new pages; the old one is
// shut down once its last open page is released.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	current  *process
	live     map[*process]struct{}
	opened   int
	maxPages int
	recycles int
	closed   bool
	logger   *slog.Logger
}

// process is one launched Chrome instance.
type process struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	open     int
	retired  bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets how many pages a process opens before it is recycled.
// Zero or less disables recycling.
func WithMaxPages(n int) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithManagerLogger sets the logger that records recycles.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(bm *BrowserManager) {
		bm.logger = logger
	}
}

// NewBrowserManager launches headless Chrome. Close must be called when the
// BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxPages: DefaultMaxPages,
		live:     make(map[*process]struct{}),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(bm)
	}

	p, err := launch()
	if err != nil {
		return nil, err
	}
	bm.current = p
	bm.live[p] = struct{}{}
	return bm, nil
}

// NewPage opens a blank tab, replacing the Chrome process first when it has
// reached its page limit. release closes the tab and must be called once.
func (bm *BrowserManager) NewPage(ctx context.Context) (page *rod.Page, release func(), err error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, nil, readurl.Errorf(readurl.EINVALID, "browser is closed")
	}

	if bm.maxPages > 0 && bm.opened >= bm.maxPages {
		// On failure the current process keeps serving until the next limit.
		_ = bm.recycle(ctx)
		bm.opened = 0
	}

	p := bm.current
	page, err = p.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, nil, err
	}
	p.open++
	bm.opened++

	var once sync.Once
	release = func() {
		once.Do(func() {
			_ = page.Close()
			bm.release(p)
		})
	}
	return page, release, nil
}

// release drops one open page from p and shuts p down if it was retired.
func (bm *BrowserManager) release(p *process) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	p.open--
	if p.retired && p.open == 0 {
		bm.shutdown(p)
	}
}

// recycle swaps in a new Chrome process. Must be called with mu held.
func (bm *BrowserManager) recycle(ctx context.Context) (err error) {
	defer func(begin time.Time, pages int) {
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelWarn
		}
		bm.logger.Log(ctx, level, "recycle browser",
			"pages", pages,
			"recycles", bm.recycles,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now(), bm.opened)

	next, err := launch()
	if err != nil {
		return err
	}

	old := bm.current
	old.retired = true
	if old.open == 0 {
		bm.shutdown(old)
	}
	bm.current = next
	bm.live[next] = struct{}{}
	bm.recycles++
	return nil
}

// shutdown stops p. Must be called with mu held.
func (bm *BrowserManager) shutdown(p *process) error {
	delete(bm.live, p)
	err := p.browser.Close()
	p.launcher.Kill()
	return err
}

// Recycles returns how many times Chrome has been replaced.
func (bm *BrowserManager) Recycles() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.recycles
}

// LauncherPID returns the process ID of the current browser launcher, or
// zero after Close.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.closed {
		return 0
	}
	return bm.current.launcher.PID()
}

// Close stops every Chrome process, including those with open pages.
// Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true

	var errs []error
	for p := range bm.live {
		if err := bm.shutdown(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// launch starts Chrome with flags that keep background tabs rendering.
func launch() (*process, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, readurl.Errorf(readurl.EINTERNAL, "launch browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, readurl.Errorf(readurl.EINTERNAL, "connect to browser: %v", err)
	}
	return &process{browser: browser, launcher: l}, nil
}
