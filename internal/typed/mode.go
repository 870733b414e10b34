package typed

import "fmt"

// Mode selects how raw values are interpreted: one value, an ordered list,
// or an inclusive from/to pair.
type Mode int

const (
	Scalar Mode = iota
	List
	Range
)

func (m Mode) String() string {
	switch m {
	case Scalar:
		return "scalar"
	case List:
		return "list"
	case Range:
		return "range"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}
