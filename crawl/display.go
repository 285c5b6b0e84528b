package crawl

import (
	"fmt"
	"net/url"
	"unicode/utf8"
)

// ShortURL fits rawURL into max characters for progress output. The scheme
// and host stay visible when they fit; the middle of the path is elided.
func ShortURL(rawURL string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(rawURL)
	if len(runes) <= max {
		return rawURL
	}
	if max < 4 {
		return string(runes[:max])
	}

	head := ""
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		head = u.Scheme + "://" + u.Host
	}
	// Keep at least a few trailing characters of the path.
	if utf8.RuneCountInString(head)+1+8 > max {
		head = ""
	}
	tail := max - utf8.RuneCountInString(head) - 1
	return head + "…" + string(runes[len(runes)-tail:])
}

// FormatSize renders a byte count in binary units.
func FormatSize(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	size := float64(n) / unit
	for _, suffix := range []string{"KB", "MB"} {
		if size < unit {
			return fmt.Sprintf("%.1f %s", size, suffix)
		}
		size /= unit
	}
	return fmt.Sprintf("%.1f GB", size)
}
