package valueobjects

import (
	"encoding/json"
	"strings"

	pkgerrors "treeforge/pkg/errors"
)

// Color is one entry of the fixed node palette
type Color int

const (
	Red Color = iota
	Green
	Blue

	// NumColors is the palette size
	NumColors = 3
)

var colorNames = [NumColors]string{"red", "green", "blue"}

// Palette returns every color in palette order
func Palette() []Color {
	return []Color{Red, Green, Blue}
}

// ParseColor parses a color name, case-insensitively
func ParseColor(s string) (Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range colorNames {
		if n == name {
			return Color(i), nil
		}
	}
	return 0, pkgerrors.NewValidationError("unknown color: " + s).
		WithDetail("palette", colorNames[:])
}

// IsValid reports whether c belongs to the palette
func (c Color) IsValid() bool {
	return c >= 0 && int(c) < NumColors
}

// String returns the color name used in canonical signatures
func (c Color) String() string {
	if !c.IsValid() {
		return "invalid"
	}
	return colorNames[c]
}

// MarshalJSON encodes the color as its name
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a color name
func (c *Color) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return pkgerrors.NewValidationError("color must be a string")
	}
	parsed, err := ParseColor(name)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ColorCount counts nodes per palette color
type ColorCount [NumColors]int

// Add increments the count of c
func (cc *ColorCount) Add(c Color) {
	cc[c]++
}

// Merge adds every count of other
func (cc *ColorCount) Merge(other ColorCount) {
	for i := range cc {
		cc[i] += other[i]
	}
}

// Total returns the sum over all colors
func (cc ColorCount) Total() int {
	total := 0
	for _, n := range cc {
		total += n
	}
	return total
}

// Covers reports whether cc has at least as many nodes of every color as need
func (cc ColorCount) Covers(need ColorCount) bool {
	for i := range cc {
		if cc[i] < need[i] {
			return false
		}
	}
	return true
}

// Map returns the counts keyed by color name
func (cc ColorCount) Map() map[string]int {
	m := make(map[string]int, NumColors)
	for i, n := range cc {
		m[colorNames[i]] = n
	}
	return m
}

// MarshalJSON encodes the counts as {"red":n,"green":n,"blue":n}
func (cc ColorCount) MarshalJSON() ([]byte, error) {
	return json.Marshal(cc.Map())
}
