package heap

// Color is the tri-color tag of an object.
//
// Two white shades exist so that objects allocated after the mark/sweep flip
// can be told apart from objects left unvisited by the finished mark phase.
type Color uint8

const (
	// White0 is one of the two white shades.
	White0 Color = iota
	// White1 is the other white shade.
	White1
	// Gray objects are discovered but their references are not yet traced.
	Gray
	// Black objects are discovered and fully traced.
	Black
)

// IsWhite reports whether c is either white shade.
func (c Color) IsWhite() bool {
	return c == White0 || c == White1
}

// Other returns the opposite white shade. It is only meaningful for whites.
func (c Color) Other() Color {
	if c == White0 {
		return White1
	}
	return White0
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White0:
		return "white0"
	case White1:
		return "white1"
	case Gray:
		return "gray"
	case Black:
		return "black"
	default:
		return "unknown"
	}
}
