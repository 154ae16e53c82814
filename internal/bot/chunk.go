package bot

import (
	"strings"
	"unicode/utf8"
)

// chunkText splits s on line boundaries into pieces of at most limit runes.
// A single line longer than limit is cut hard. Empty pieces are dropped.
func chunkText(s string, limit int) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return []string{s}
	}

	var chunks []string
	var cur []string
	curLen := 0
	flush := func() {
		if text := strings.TrimSpace(strings.Join(cur, "\n")); text != "" {
			chunks = append(chunks, text)
		}
		cur = cur[:0]
		curLen = 0
	}

	for _, line := range strings.Split(s, "\n") {
		for utf8.RuneCountInString(line) > limit {
			flush()
			head, tail := splitRunes(line, limit)
			chunks = append(chunks, head)
			line = tail
		}
		add := utf8.RuneCountInString(line) + 1
		if len(cur) > 0 && curLen+add > limit+1 {
			flush()
		}
		cur = append(cur, line)
		curLen += add
	}
	flush()
	return chunks
}

func splitRunes(s string, n int) (string, string) {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], s[pos:]
		}
		i++
	}
	return s, ""
}
