// Package pagespec parses user-typed page selections such as "1,3,5-7",
// "all" or "every 2".
package pagespec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidSpec = errors.New("invalid page specification")

const All = "all"

type span struct {
	from, to int
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidSpec, fmt.Sprintf(format, args...))
}

func normalize(spec string) string {
	spec = strings.ToLower(strings.TrimSpace(spec))
	return strings.ReplaceAll(spec, " ", "")
}

func parseSpans(spec string) ([]span, error) {
	spec = normalize(spec)
	if spec == "" {
		return nil, invalid("empty")
	}
	var spans []span
	for _, item := range strings.Split(spec, ",") {
		if item == "" {
			return nil, invalid("empty item in %q", spec)
		}
		from, to, isRange := strings.Cut(item, "-")
		a, err := strconv.Atoi(from)
		if err != nil || a < 1 {
			return nil, invalid("bad page %q", from)
		}
		b := a
		if isRange {
			b, err = strconv.Atoi(to)
			if err != nil || b < 1 {
				return nil, invalid("bad page %q", to)
			}
			if b < a {
				return nil, invalid("descending range %q", item)
			}
		}
		spans = append(spans, span{from: a, to: b})
	}
	return spans, nil
}

// Validate checks the syntax of a page list without a page count.
func Validate(spec string) error {
	if normalize(spec) == All {
		return nil
	}
	_, err := parseSpans(spec)
	return err
}

// Parse resolves spec against a document of total pages. Pages are
// 1-based, unique and in first-mention order. Pages past the end are
// dropped; a selection with nothing left is invalid.
func Parse(spec string, total int) ([]int, error) {
	if total < 1 {
		return nil, invalid("document has no pages")
	}
	if normalize(spec) == All {
		pages := make([]int, total)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages, nil
	}
	spans, err := parseSpans(spec)
	if err != nil {
		return nil, err
	}
	seen := make(map[int]bool)
	var pages []int
	for _, s := range spans {
		for p := s.from; p <= s.to && p <= total; p++ {
			if !seen[p] {
				seen[p] = true
				pages = append(pages, p)
			}
		}
	}
	if len(pages) == 0 {
		return nil, invalid("no page within 1-%d", total)
	}
	return pages, nil
}

func parseEvery(spec string) (int, bool, error) {
	rest, ok := strings.CutPrefix(normalize(spec), "every")
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, true, invalid("bad split size %q", rest)
	}
	return n, true, nil
}

// ValidateSplit checks the syntax of a split mode.
func ValidateSplit(spec string) error {
	if _, ok, err := parseEvery(spec); ok {
		return err
	}
	_, err := parseSpans(spec)
	return err
}

// ParseSplit turns "every N" or a comma list of ranges into page groups.
// Each comma item of a range list becomes one output document.
func ParseSplit(spec string, total int) ([][]int, error) {
	if total < 1 {
		return nil, invalid("document has no pages")
	}
	if n, ok, err := parseEvery(spec); ok {
		if err != nil {
			return nil, err
		}
		var groups [][]int
		for start := 1; start <= total; start += n {
			var g []int
			for p := start; p < start+n && p <= total; p++ {
				g = append(g, p)
			}
			groups = append(groups, g)
		}
		return groups, nil
	}
	spans, err := parseSpans(spec)
	if err != nil {
		return nil, err
	}
	var groups [][]int
	for _, s := range spans {
		var g []int
		for p := s.from; p <= s.to && p <= total; p++ {
			g = append(g, p)
		}
		if len(g) > 0 {
			groups = append(groups, g)
		}
	}
	if len(groups) == 0 {
		return nil, invalid("no page within 1-%d", total)
	}
	return groups, nil
}

// Selection renders pages in the string form pdfcpu selects pages with.
func Selection(pages []int) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = strconv.Itoa(p)
	}
	return out
}
