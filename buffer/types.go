package buffer

// Source tags every mutation with its origin.
type Source uint8

const (
	// SourceUser marks mutations caused by direct interaction with the editor.
	SourceUser Source = iota
	// SourceSilent marks host-driven mutations that must not be observed as
	// edits.
	SourceSilent
)

func (s Source) String() string {
	switch s {
	case SourceUser:
		return "user"
	case SourceSilent:
		return "silent"
	default:
		return "unknown"
	}
}

// Range is a selection in document offsets. A zero Length is a caret.
type Range struct {
	Index  int `json:"index"`
	Length int `json:"length"`
}

func (r Range) End() int { return r.Index + r.Length }

func (r Range) IsEmpty() bool { return r.Length == 0 }

// Pos points into the document by (row, col) in runes. Row and Col are 0-based.
type Pos struct {
	Row int
	Col int
}

func ComparePos(a, b Pos) int {
	if a.Row < b.Row {
		return -1
	}
	if a.Row > b.Row {
		return 1
	}
	if a.Col < b.Col {
		return -1
	}
	if a.Col > b.Col {
		return 1
	}
	return 0
}

func clampInt(v, min, max int) int {
	if max < min {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
