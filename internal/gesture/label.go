// Package gesture classifies static hand poses and stabilizes the per-frame
// labels over time.
package gesture

import "fmt"

// Label is one gesture from the fixed static-pose vocabulary.
// The declaration order is significant: it sizes the vote table.
type Label int

const (
	// None means no rule matched.
	None Label = iota
	Fist
	Peace
	ThumbsUp
	OpenPalm
	Pointing
	LShape
	OKSign

	numLabels
)

var labelNames = [numLabels]string{
	None:     "none",
	Fist:     "fist",
	Peace:    "peace",
	ThumbsUp: "thumbs_up",
	OpenPalm: "open_palm",
	Pointing: "pointing",
	LShape:   "L_shape",
	OKSign:   "ok_sign",
}

// Labels returns every label in enumeration order, None first.
func Labels() []Label {
	out := make([]Label, numLabels)
	for i := range out {
		out[i] = Label(i)
	}
	return out
}

// String returns the snake_case name of the label.
func (l Label) String() string {
	if l < 0 || l >= numLabels {
		return fmt.Sprintf("Label(%d)", int(l))
	}
	return labelNames[l]
}

// Valid reports whether l is part of the vocabulary.
func (l Label) Valid() bool {
	return l >= 0 && l < numLabels
}

// ParseLabel returns the label with the given name.
func ParseLabel(name string) (Label, error) {
	for i, n := range labelNames {
		if n == name {
			return Label(i), nil
		}
	}
	return None, fmt.Errorf("unknown gesture %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (l Label) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid gesture label %d", int(l))
	}
	return []byte(labelNames[l]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
