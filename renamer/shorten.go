package renamer

const (
	labelStart = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_"
	labelChars = labelStart + "0123456789"
)

// Shorten renames identifiers to the shortest names available: `a` to `z`,
// then `A` to `Z` and `_`, then every two character name, and so on
type Shorten struct {
	mapping
	next int
}

func NewShorten() *Shorten {
	shorten := &Shorten{}
	shorten.Init()
	return shorten
}

func (s *Shorten) Init() {
	s.mapping.Init()
	s.next = 0
}

func (s *Shorten) Generate(name string) {
	s.generate(name, func(int) string {
		pseudonym := ShortName(s.next)
		s.next++
		return pseudonym
	})
}

// ShortName returns the label at the given position in the sequence of all
// labels, ordered by length
func ShortName(index int) string {
	length := 1
	count := len(labelStart)
	for index >= count {
		index -= count
		count *= len(labelChars)
		length++
	}

	name := make([]byte, length)
	for i := length - 1; i > 0; i-- {
		name[i] = labelChars[index%len(labelChars)]
		index /= len(labelChars)
	}
	name[0] = labelStart[index]
	return string(name)
}
