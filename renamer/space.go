package renamer

import "strings"

// Whitespace-like characters that render as blank space. Every byte of their
// UTF-8 encoding is 0x80 or above, which PHP accepts anywhere in a label.
// U+00A0, U+200B, U+2060 and U+FEFF are left out, as the parser skips them as
// whitespace
var blankRunes = []rune{
	'\u3164',
	'\u2000', '\u2001', '\u2002', '\u2003', '\u2004', '\u2005',
	'\u2006', '\u2007', '\u2008', '\u2009', '\u200a',
	'\u202f', '\u205f', '\u3000',
}

// Space renames identifiers to names made only out of blank characters
type Space struct {
	mapping
	next int
}

func NewSpace() *Space {
	space := &Space{}
	space.Init()
	return space
}

func (s *Space) Init() {
	s.mapping.Init()
	s.next = 0
}

func (s *Space) Generate(name string) {
	s.generate(name, func(int) string {
		pseudonym := BlankName(s.next)
		s.next++
		return pseudonym
	})
}

// BlankName returns the blank label at the given position, shortest first
func BlankName(index int) string {
	length := 1
	count := len(blankRunes)
	for index >= count {
		index -= count
		count *= len(blankRunes)
		length++
	}

	name := make([]rune, length)
	for i := length - 1; i >= 0; i-- {
		name[i] = blankRunes[index%len(blankRunes)]
		index /= len(blankRunes)
	}

	var builder strings.Builder
	for _, r := range name {
		builder.WriteRune(r)
	}
	return builder.String()
}
