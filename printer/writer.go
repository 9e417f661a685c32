package printer

import "strings"

const indentation = "    "

// writer collects printed tokens. In compact mode, optional whitespace is left
// out, and a space is only added between tokens that would otherwise merge
type writer struct {
	strings.Builder
	compact bool
	indent  int
	// Set when nothing has been written on the current line yet
	lineStart bool
	// Set right after an empty line, so that empty lines never repeat
	blank bool
	last  byte
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' || c == '\\' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isOperatorByte(c byte) bool {
	return strings.IndexByte("+-*/%=<>!&|^.?:~@", c) >= 0
}

// needsSpace reports whether two tokens written next to each other would be
// read as a different token
// Ex: `$a - -$b`, `1 . 2`, `new \Foo`
func needsSpace(last, next byte) bool {
	switch {
	case isWordByte(last) && isWordByte(next):
		return true
	case isOperatorByte(last) && isOperatorByte(next):
		return true
	case isDigit(last) && next == '.', last == '.' && isDigit(next):
		return true
	}
	return false
}

// token writes a piece of code, indenting it if it starts a line
func (w *writer) token(text string) {
	if text == "" {
		return
	}
	if w.lineStart && !w.compact {
		w.WriteString(strings.Repeat(indentation, w.indent))
	} else if w.Len() > 0 && needsSpace(w.last, text[0]) {
		w.WriteByte(' ')
	}
	w.WriteString(text)
	w.last = text[len(text)-1]
	w.lineStart = false
	w.blank = false
}

// space writes optional whitespace
func (w *writer) space() {
	if !w.compact && !w.lineStart {
		w.WriteByte(' ')
		w.last = ' '
	}
}

// newline ends the current line, if anything was written on it
func (w *writer) newline() {
	if !w.compact && !w.lineStart {
		w.WriteByte('\n')
		w.last = '\n'
		w.lineStart = true
	}
}

// forceNewline ends the line even in compact mode, for tokens that have to be
// followed by a line break, such as line comments and heredocs
func (w *writer) forceNewline() {
	if w.lineStart {
		return
	}
	w.WriteByte('\n')
	w.last = '\n'
	w.lineStart = true
}

// blankLine leaves an empty line
func (w *writer) blankLine() {
	if w.compact || w.blank {
		return
	}
	w.newline()
	w.WriteByte('\n')
	w.last = '\n'
	w.blank = true
}
