package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/readurl"
)

// ReadURLPath is the route served by Handler.
const ReadURLPath = "/read-url"

// Ensure Handler implements http.Handler at compile time.
var _ http.Handler = (*Handler)(nil)

// Handler fetches the page named by the url query parameter and responds
// with the extracted article as JSON.
type Handler struct {
	fetcher   readurl.Fetcher
	extractor readurl.Extractor
	logger    *slog.Logger
	mux       *http.ServeMux
}

// NewHandler creates a Handler. A nil logger discards log output.
func NewHandler(fetcher readurl.Fetcher, extractor readurl.Extractor, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Handler{
		fetcher:   fetcher,
		extractor: extractor,
		logger:    logger,
		mux:       http.NewServeMux(),
	}
	h.mux.HandleFunc(ReadURLPath, h.handleReadURL)
	return h
}

// ServeHTTP dispatches the request and turns panics into a 500 response.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("panic serving request",
				"path", r.URL.Path,
				"panic", rec,
			)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
		}
	}()
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleReadURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	target := r.URL.Query().Get("url")
	if target == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}
	if !validURL(target) {
		writeError(w, http.StatusBadRequest, "Invalid URL")
		return
	}

	begin := time.Now()
	html, err := h.fetcher.Fetch(r.Context(), target)
	if err != nil {
		status := fetchStatus(err)
		h.logger.Warn("read-url fetch failed",
			"url", target,
			"status", status,
			"err", err,
		)
		if status == http.StatusBadRequest {
			writeError(w, status, "Invalid URL")
			return
		}
		writeError(w, status, "Failed to fetch URL")
		return
	}

	article := h.extractor.Extract(readurl.RawDocument{URL: target, HTML: html})
	h.logger.Info("read-url",
		"url", target,
		"bytes", len(html),
		"tier", article.Tier,
		"duration", time.Since(begin),
	)
	writeJSON(w, http.StatusOK, article)
}

// fetchStatus maps a fetch error to the response status. Upstream HTTP
// errors are passed through; anything else is a bad gateway.
func fetchStatus(err error) int {
	var fe *readurl.FetchError
	if errors.As(err, &fe) && fe.StatusCode >= 400 && fe.StatusCode <= 599 {
		return fe.StatusCode
	}
	if readurl.ErrorCode(err) == readurl.EINVALID {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func validURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
