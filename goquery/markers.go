package goquery

import (
	"strings"

	"github.com/fwojciec/readurl"
)

// TrimStart drops the boilerplate that precedes a start marker.
//
// Every paragraph is scanned. A paragraph matching any start marker becomes
// the candidate start unless one of the matching markers has a MaxLength the
// paragraph exceeds. The last candidate wins, except that a Priority marker
// ends the scan at once. When the start paragraph matches a StartAfter
// marker, content begins on the next paragraph. The cut is applied only if
// the remaining text is longer than MinTailLength.
func TrimStart(paragraphs []string, policy readurl.PlatformPolicy) []string {
	start := -1
	for i, p := range paragraphs {
		matched := matchingMarkers(p, policy.StartMarkers, policy.ShortEndMarkerLength)
		if len(matched) == 0 || exceedsMaxLength(p, matched) {
			continue
		}
		start = i
		if hasPriority(matched) {
			break
		}
	}
	if start == -1 {
		return paragraphs
	}

	for _, m := range matchingMarkers(paragraphs[start], policy.StartMarkers, policy.ShortEndMarkerLength) {
		if m.Action == readurl.ActionStartAfter {
			start++
			break
		}
	}
	if start >= len(paragraphs) {
		return paragraphs
	}

	tail := paragraphs[start:]
	if CharCount(strings.Join(tail, "")) > policy.MinTailLength {
		return tail
	}
	return paragraphs
}

// FilterNoise removes boilerplate paragraphs. DropShort rules remove a
// matching paragraph only when it is shorter than ShortNoiseLength; Drop
// rules remove it regardless of length.
func FilterNoise(paragraphs []string, policy readurl.PlatformPolicy) []string {
	var kept []string
	for _, p := range paragraphs {
		if !isNoise(p, policy) {
			kept = append(kept, p)
		}
	}
	return kept
}

func isNoise(p string, policy readurl.PlatformPolicy) bool {
	for _, m := range policy.NoiseRules {
		if !m.Matches(p, policy.ShortNoiseLength) {
			continue
		}
		switch m.Action {
		case readurl.ActionDrop:
			return true
		case readurl.ActionDropShort:
			if CharCount(p) < policy.ShortNoiseLength {
				return true
			}
		}
	}
	return false
}

// TruncateEnd keeps the paragraphs strictly before the first one that
// matches an end marker.
func TruncateEnd(paragraphs []string, policy readurl.PlatformPolicy) []string {
	for i, p := range paragraphs {
		for _, m := range policy.EndMarkers {
			if m.Matches(p, policy.ShortEndMarkerLength) {
				return paragraphs[:i]
			}
		}
	}
	return paragraphs
}

func matchingMarkers(p string, markers []readurl.Marker, shortLength int) []readurl.Marker {
	var matched []readurl.Marker
	for _, m := range markers {
		if m.Matches(p, shortLength) {
			matched = append(matched, m)
		}
	}
	return matched
}

func exceedsMaxLength(p string, markers []readurl.Marker) bool {
	n := CharCount(p)
	for _, m := range markers {
		if m.MaxLength > 0 && n > m.MaxLength {
			return true
		}
	}
	return false
}

func hasPriority(markers []readurl.Marker) bool {
	for _, m := range markers {
		if m.Priority {
			return true
		}
	}
	return false
}
