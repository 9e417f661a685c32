// Package parsetools contains small helpers for working with PHP source text
// that the syntax tree keeps verbatim, such as type hints, doc comments, and
// raw fallback nodes
package parsetools

import (
	"strings"
)

func IndexOfMatchingParenths(searchString string, openingIndex int) int {
	return IndexOfMatchingChar(searchString, openingIndex, '(', ')')
}

// IndexOfMatchingChar finds the closing character that balances the opening
// character at openingIndex, skipping over quoted strings
// Returns -1 if the opening character is not at the index, or if the
// characters are unbalanced
func IndexOfMatchingChar(searchString string, openingIndex int, openingChar, closingChar byte) int {
	if openingIndex >= len(searchString) || searchString[openingIndex] != openingChar {
		return -1
	}

	balance := 0
	for ci := openingIndex; ci < len(searchString); ci++ {
		switch searchString[ci] {
		case '\\':
			ci++
		case '"', '\'':
			end := strings.IndexByte(searchString[ci+1:], searchString[ci])
			if end == -1 {
				return -1
			}
			ci += end + 1
		case openingChar:
			balance++
		case closingChar:
			balance--
		}
		if balance == 0 {
			return ci
		}
	}
	return -1
}

// SplitTopLevel splits the source on every separator that is not nested in
// parentheses or brackets
func SplitTopLevel(source string, separator byte) []string {
	var parts []string
	var depth, last int
	for ci := 0; ci < len(source); ci++ {
		switch source[ci] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case separator:
			if depth == 0 {
				parts = append(parts, source[last:ci])
				last = ci + 1
			}
		}
	}
	return append(parts, source[last:])
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 0x80 || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// IsIdentifier reports whether the whole string is a valid PHP label
func IsIdentifier(source string) bool {
	if source == "" || !isIdentStart(source[0]) {
		return false
	}
	for ci := 1; ci < len(source); ci++ {
		if !isIdentChar(source[ci]) {
			return false
		}
	}
	return true
}

// Identifiers returns every PHP label found in the source, in order. Labels
// directly following a `$` are included without it
func Identifiers(source string) []string {
	var words []string
	for ci := 0; ci < len(source); ci++ {
		if !isIdentStart(source[ci]) || (ci > 0 && isIdentChar(source[ci-1])) {
			continue
		}
		end := ci + 1
		for end < len(source) && isIdentChar(source[end]) {
			end++
		}
		words = append(words, source[ci:end])
		ci = end - 1
	}
	return words
}

// InterpolatedIdentifiers returns the labels a double-quoted string or a
// heredoc reads at runtime: variables (`$name`), and the properties or
// methods accessed on them (`$this->name`)
func InterpolatedIdentifiers(source string) []string {
	var words []string
	for ci := 0; ci < len(source); ci++ {
		switch {
		case source[ci] == '\\':
			ci++
			continue
		case source[ci] == '$':
		case strings.HasPrefix(source[ci:], "->"), strings.HasPrefix(source[ci:], "::"):
			ci++
		default:
			continue
		}
		end := ci + 1
		for end < len(source) && isIdentChar(source[end]) {
			end++
		}
		if end > ci+1 && isIdentStart(source[ci+1]) {
			words = append(words, source[ci+1:end])
		}
		ci = end - 1
	}
	return words
}
