package tts

import (
	"strings"
	"unicode/utf8"
)

// splitChunks breaks text into pieces of at most max bytes, preferring
// sentence boundaries, then word boundaries. Returned chunks are
// trimmed and non-empty; their concatenation preserves all words in
// order.
func splitChunks(text string, max int) []string {
	text = strings.TrimSpace(text)
	if len(text) <= max {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			chunks = append(chunks, s)
		}
		cur.Reset()
	}

	for _, sentence := range splitSentences(text) {
		if cur.Len() > 0 && cur.Len()+len(sentence)+1 > max {
			flush()
		}
		if len(sentence) > max {
			// A single oversized sentence is split at word boundaries.
			flush()
			for _, word := range strings.Fields(sentence) {
				if len(word) > max {
					// An unbroken run longer than the budget is
					// hard-cut on rune boundaries as a last resort.
					flush()
					chunks = append(chunks, splitRunes(word, max)...)
					continue
				}
				if cur.Len() > 0 && cur.Len()+len(word)+1 > max {
					flush()
				}
				if cur.Len() > 0 {
					cur.WriteByte(' ')
				}
				cur.WriteString(word)
			}
			flush()
			continue
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(sentence)
	}
	flush()
	return chunks
}

// splitRunes cuts s into pieces of at most max bytes, never cutting
// inside a multi-byte rune.
func splitRunes(s string, max int) []string {
	var out []string
	for len(s) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		if cut == 0 {
			cut = max
		}
		out = append(out, s[:cut])
		s = s[cut:]
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}

// splitSentences cuts text after terminal punctuation followed by
// whitespace, keeping the punctuation with its sentence.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		switch text[i] {
		case '.', '!', '?', '\n':
			if text[i+1] == ' ' || text[i+1] == '\n' || text[i+1] == '\t' {
				if s := strings.TrimSpace(text[start : i+1]); s != "" {
					out = append(out, s)
				}
				start = i + 1
			}
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}
