package format

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// adjustFactor maps a 6 degree spread onto the full 0..255 channel range.
const adjustFactor = 42.5

// RGB is a display backlight colour.
type RGB struct {
	R, G, B uint8
}

var (
	// Off is the blanked backlight.
	Off = RGB{0, 0, 0}
	// Good is shown when the temperature is exactly on target.
	Good = RGB{0, 255, 0}
)

// Hex returns the colour as "#rrggbb".
func (c RGB) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

func (c RGB) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.R, c.G, c.B)
}

// ColorAdjustment scales a temperature variance to a channel offset in
// [0,255]. It is symmetric in the sign of variance.
func ColorAdjustment(variance float64) int {
	adj := math.Round(math.Abs(variance) * adjustFactor)
	if adj > 255 {
		return 255
	}
	return int(adj)
}

// BackgroundColor is pure green when tempC equals targetC exactly, sliding
// towards blue when colder and towards red when hotter.
func BackgroundColor(tempC, targetC float64) RGB {
	if tempC == targetC {
		return Good
	}
	variance := tempC - targetC
	adj := uint8(ColorAdjustment(variance))
	if variance < 0 {
		return RGB{R: 0, G: 255 - adj, B: adj}
	}
	return RGB{R: adj, G: 255 - adj, B: 0}
}
