package bloom_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/readurl/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_Seen(t *testing.T) {
	t.Parallel()

	t.Run("records URL on first sight", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)

		assert.False(t, f.Contains("https://mp.weixin.qq.com/s/abc"))
		assert.False(t, f.Seen("https://mp.weixin.qq.com/s/abc"))
		assert.True(t, f.Contains("https://mp.weixin.qq.com/s/abc"))
		assert.True(t, f.Seen("https://mp.weixin.qq.com/s/abc"))
	})

	t.Run("different URL is not seen", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)
		f.Seen("https://example.com/page1")

		assert.False(t, f.Contains("https://example.com/page2"))
	})

	t.Run("treats fragment and host case variants as the same URL", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)
		f.Seen("https://MP.weixin.qq.com/s/abc#rd")

		assert.True(t, f.Seen("https://mp.weixin.qq.com/s/abc"))
	})

	t.Run("zero capacity still works", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(0, 0.01)

		assert.False(t, f.Seen("https://example.com"))
		assert.True(t, f.Seen("https://example.com"))
	})

	t.Run("is safe for concurrent use", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				f.Seen(fmt.Sprintf("https://example.com/%d", i))
			}(i)
		}
		wg.Wait()

		for i := range 50 {
			assert.True(t, f.Contains(fmt.Sprintf("https://example.com/%d", i)))
		}
	})
}

func TestKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"drops fragment", "https://example.com/a#top", "https://example.com/a"},
		{"lower-cases host", "https://EXAMPLE.com/Path", "https://example.com/Path"},
		{"keeps query", "https://mp.weixin.qq.com/s?__biz=1&mid=2", "https://mp.weixin.qq.com/s?__biz=1&mid=2"},
		{"trims relative input", "  not a url  ", "not a url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, bloom.Key(tt.in))
		})
	}
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.Equal(t, uint(0), f.EstimatedCount())

	f.Seen("https://example.com/page1")
	f.Seen("https://example.com/page2")
	f.Seen("https://example.com/page3")
	f.Seen("https://example.com/page3")

	count := f.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 10000
		fpRate     = 0.01
		testLookups = 10000
	)

	f := bloom.NewFilter(numItems, fpRate)

	for i := range numItems {
		f.Seen(fmt.Sprintf("https://example.com/added/%d", i))
	}

	falsePositives := 0
	for i := range testLookups {
		if f.Contains(fmt.Sprintf("https://example.com/notadded/%d", i)) {
			falsePositives++
		}
	}

	// Allow up to 2% to account for statistical variance
	actualRate := float64(falsePositives) / float64(testLookups)
	assert.Less(t, actualRate, 0.02, "false positive rate %f exceeds 2%%", actualRate)
}
