package services

import (
	"strings"
	"unicode/utf8"
)

const (
	defaultChunkSize    = 500
	defaultChunkOverlap = 50
)

type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText splits text into word-aligned windows of at most maxChunkSize
// runes. Consecutive windows share roughly overlap runes of trailing words.
// A single word longer than maxChunkSize becomes its own chunk.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = defaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var window []string
	size := 0

	for _, word := range words {
		wordLen := utf8.RuneCountInString(word)
		if size > 0 && size+1+wordLen > maxChunkSize {
			chunks = append(chunks, strings.Join(window, " "))
			window = carryOverlap(window, overlap)
			size = joinedLen(window)
			// Drop the carried words if they leave no room for the next one
			if size > 0 && size+1+wordLen > maxChunkSize {
				window = nil
				size = 0
			}
		}

		if size > 0 {
			size++
		}
		window = append(window, word)
		size += wordLen
	}

	if len(window) > 0 {
		chunks = append(chunks, strings.Join(window, " "))
	}

	return chunks
}

// carryOverlap returns the trailing words of window whose joined length
// stays within overlap runes.
func carryOverlap(window []string, overlap int) []string {
	if overlap == 0 {
		return nil
	}

	start := len(window)
	size := 0
	for start > 0 {
		wordLen := utf8.RuneCountInString(window[start-1])
		next := size + wordLen
		if size > 0 {
			next++
		}
		if next > overlap {
			break
		}
		size = next
		start--
	}

	return append([]string(nil), window[start:]...)
}

func joinedLen(words []string) int {
	if len(words) == 0 {
		return 0
	}
	n := len(words) - 1
	for _, w := range words {
		n += utf8.RuneCountInString(w)
	}
	return n
}
