package crawl

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ContentHash fingerprints article content. Runs of whitespace hash the
// same, so re-encoded copies of one article match.
func ContentHash(content string) string {
	d := xxhash.New()
	for i, word := range strings.Fields(content) {
		if i > 0 {
			_, _ = d.WriteString(" ")
		}
		_, _ = d.WriteString(word)
	}
	return strconv.FormatUint(d.Sum64(), 16)
}
