package renamer

import "strconv"

// Serial renames identifiers with a counter: `_0`, `_1`, `_2`, ...
type Serial struct {
	mapping
	next int
}

func NewSerial() *Serial {
	serial := &Serial{}
	serial.Init()
	return serial
}

func (s *Serial) Init() {
	s.mapping.Init()
	s.next = 0
}

func (s *Serial) Generate(name string) {
	s.generate(name, func(int) string {
		pseudonym := "_" + strconv.Itoa(s.next)
		s.next++
		return pseudonym
	})
}
