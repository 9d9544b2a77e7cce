package style

import (
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"
)

// Pixels per unit at the CSS reference resolution of 96 dpi.
var unitScale = map[string]float64{
	"":   1,
	"px": 1,
	"in": 96,
	"pt": 96.0 / 72.0,
	"pc": 16,
	"mm": 96.0 / 25.4,
	"cm": 96.0 / 2.54,
	"q":  96.0 / 101.6,
}

// ToPixels converts a length such as "1px", "0.5mm" or "2" to CSS pixels.
func ToPixels(length string) (float64, error) {
	s := strings.TrimSpace(length)
	v, n := strconv.ParseFloat([]byte(s))
	if n == 0 {
		return 0, fmt.Errorf("invalid length %q", length)
	}

	unit := strings.ToLower(strings.TrimSpace(s[n:]))
	scale, ok := unitScale[unit]
	if !ok {
		return 0, fmt.Errorf("unsupported unit %q in length %q", unit, length)
	}
	return v * scale, nil
}

// ToUserUnits converts a length to document user units, where scale is the
// number of user units per CSS pixel.
func ToUserUnits(length string, scale float64) (float64, error) {
	px, err := ToPixels(length)
	if err != nil {
		return 0, err
	}
	if scale <= 0 {
		scale = 1
	}
	return px * scale, nil
}

// FormatNumber renders a float without trailing zeros.
func FormatNumber(v float64) string {
	s := fmt.Sprintf("%.6f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
