package service

import (
	"strings"
	"unicode/utf8"
)

// SplitText splits text into chunks of at most maxSize bytes with a fixed
// overlap between neighbours. Boundaries prefer the last newline in the
// second half of the window, then the last sentence end, then a hard cut.
// Cut points never land inside a multibyte rune. Callers must keep overlap
// strictly below maxSize or the scan does not advance.
func SplitText(text string, maxSize, overlap int) []string {
	if len(text) <= maxSize {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + maxSize
		if end >= len(text) {
			end = len(text)
		} else {
			end = runeStart(text, end)
			// Seek a natural boundary in the second half of the window
			half := runeStart(text, start+maxSize/2)
			window := text[half:end]
			if idx := strings.LastIndex(window, "\n"); idx >= 0 {
				end = half + idx + 1
			} else if idx := strings.LastIndex(window, ". "); idx >= 0 {
				end = half + idx + 2
			}
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= len(text) {
			break
		}
		start = runeStart(text, end-overlap)
	}

	return chunks
}

// runeStart walks i backward to the start of the rune containing text[i]
func runeStart(text string, i int) int {
	for i > 0 && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}
