package pagination

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// NormalizeBaseURL removes every query segment keyed by pageParam, with or
// without a value, and returns a URL that contains exactly one '?' and ends
// in '?' or '&'. Appending "param=N" to the result is always well formed.
// Fragments are dropped. The operation is idempotent.
func NormalizeBaseURL(rawURL, pageParam string) string {
	if pageParam == "" {
		pageParam = DefaultPageParam
	}
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		rawURL = rawURL[:i]
	}

	base, query, _ := strings.Cut(rawURL, "?")
	var kept []string
	for _, segment := range strings.FieldsFunc(query, isQuerySeparator) {
		key, _, _ := strings.Cut(segment, "=")
		// html-escaped separators leave "amp;" in front of the key
		if strings.TrimPrefix(key, "amp;") == pageParam {
			continue
		}
		kept = append(kept, segment)
	}
	if len(kept) == 0 {
		return base + "?"
	}
	return base + "?" + strings.Join(kept, "&") + "&"
}

func isQuerySeparator(r rune) bool {
	return r == '&' || r == '?'
}

// PageURL appends the page parameter for a zero-based offset to a base URL
// produced by NormalizeBaseURL.
func PageURL(normalizedBase, pageParam string, offset int) string {
	return normalizedBase + pageParam + "=" + strconv.Itoa(offset)
}

// ParseOffset converts a raw query value into a page offset. Empty,
// malformed and negative values select the first page.
func ParseOffset(raw string) int {
	offset, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

// StripEmptyPageParams removes "&amp;param=" (optionally preceded by '?')
// from rendered markup wherever no page number follows it. The result is
// stable under repeated application.
func StripEmptyPageParams(markup, pageParam string) string {
	if pageParam == "" {
		pageParam = DefaultPageParam
	}
	prefix := "&amp;" + pageParam + "="
	return emptyParamPattern(pageParam).ReplaceAllStringFunc(markup, func(m string) string {
		if strings.HasSuffix(m, prefix) {
			return ""
		}
		return m
	})
}

var emptyParamPatterns sync.Map // page param -> *regexp.Regexp

func emptyParamPattern(pageParam string) *regexp.Regexp {
	if re, ok := emptyParamPatterns.Load(pageParam); ok {
		return re.(*regexp.Regexp)
	}
	re, _ := emptyParamPatterns.LoadOrStore(pageParam,
		regexp.MustCompile(`\??&amp;`+regexp.QuoteMeta(pageParam)+`=\d*`))
	return re.(*regexp.Regexp)
}
