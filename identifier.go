package newswatch

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// trailingDigits matches the numeric item id at the end of an identifier,
// e.g. the 42 in "https://example.com/proc-web/news.jsf?id=42".
var trailingDigits = regexp.MustCompile(`(\d+)$`)

// Resolve turns a raw href found on a listing page into its canonical
// Identifier: the reference is resolved against base, the scheme and host are
// lowercased, default ports and fragments are dropped. Two spellings of the
// same absolute URL always resolve to the same Identifier.
func Resolve(base *url.URL, href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", fmt.Errorf("empty reference")
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid reference %q: %w", href, err)
	}

	abs := ref
	if base != nil {
		abs = base.ResolveReference(ref)
	}
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme in %q", abs.String())
	}

	abs.Scheme = strings.ToLower(abs.Scheme)
	abs.Host = strings.ToLower(abs.Host)
	if port := abs.Port(); (abs.Scheme == "https" && port == "443") || (abs.Scheme == "http" && port == "80") {
		abs.Host = abs.Hostname()
	}
	abs.Fragment = ""
	abs.RawFragment = ""

	return abs.String(), nil
}

// ParseBase parses the fixed base URL that listing references are resolved
// against.
func ParseBase(raw string) (*url.URL, error) {
	base, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute: %q", raw)
	}
	return base, nil
}

// ItemNumber returns the trailing numeric item id of an identifier. The
// second return value is false when the identifier does not end in digits.
func ItemNumber(id string) (int64, bool) {
	m := trailingDigits.FindStringSubmatch(id)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SortNewestFirst orders identifiers by trailing item number, highest first.
// Identifiers without a number come after the numbered ones, in
// lexicographic order, so the result is deterministic for any input.
func SortNewestFirst(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		ni, oki := ItemNumber(ids[i])
		nj, okj := ItemNumber(ids[j])
		switch {
		case oki && okj:
			if ni != nj {
				return ni > nj
			}
			return ids[i] < ids[j]
		case oki:
			return true
		case okj:
			return false
		default:
			return ids[i] < ids[j]
		}
	})
}
