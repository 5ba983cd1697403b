package util

import (
	"regexp"
	"strings"
	"sync"
)

// TagContent is the result of extracting the bodies of one XML-like tag
// (e.g. <thought>...</thought>) from model output.
type TagContent struct {
	Content []string // Trimmed bodies in order of appearance
	Found   bool
}

var (
	tagPatternsMu sync.Mutex
	tagPatterns   = map[string]*regexp.Regexp{}
)

// ExtractTagContent returns every body enclosed by <tag>...</tag> in text.
// Matching is non-greedy and spans newlines.
func ExtractTagContent(text, tag string) TagContent {
	matches := tagPattern(tag).FindAllStringSubmatch(text, -1)

	result := TagContent{Content: make([]string, 0, len(matches))}
	for _, m := range matches {
		result.Content = append(result.Content, strings.TrimSpace(m[1]))
	}
	result.Found = len(matches) > 0

	return result
}

func tagPattern(tag string) *regexp.Regexp {
	tagPatternsMu.Lock()
	defer tagPatternsMu.Unlock()

	if re, ok := tagPatterns[tag]; ok {
		return re
	}

	quoted := regexp.QuoteMeta(tag)
	re := regexp.MustCompile(`(?s)<` + quoted + `>(.*?)</` + quoted + `>`)
	tagPatterns[tag] = re

	return re
}
