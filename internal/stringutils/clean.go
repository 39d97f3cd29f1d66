package stringutils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeWhitespace collapses runs of whitespace to single spaces and
// trims the result. Memory text goes through this before embedding so
// formatting noise does not leak into the vector.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SplitChunks splits text into word-boundary chunks of roughly chunkSize
// characters. Embedding models truncate long inputs, so long memories are
// chunked and their chunk embeddings mean-pooled.
func SplitChunks(text string, chunkSize int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var (
		chunks  []string
		current []string
		size    int
	)
	for _, word := range words {
		size += len(word) + 1
		if size > chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = []string{word}
			size = len(word)
		} else {
			current = append(current, word)
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks
}

// Sanitize removes NULL bytes and control characters that SQLite and the
// embedding APIs reject, keeping common whitespace.
func Sanitize(s string) string {
	if utf8.ValidString(s) && !hasControlChars(s) {
		return s
	}

	var builder strings.Builder
	builder.Grow(len(s))

	for _, r := range s {
		if r == 0 || r == 127 {
			continue
		}
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			continue
		}
		if r >= 128 && r <= 159 {
			continue
		}
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			builder.WriteRune(r)
		}
	}

	return builder.String()
}

func hasControlChars(s string) bool {
	for _, r := range s {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return true
		}
		if r == 127 || (r >= 128 && r <= 159) {
			return true
		}
	}
	return false
}
