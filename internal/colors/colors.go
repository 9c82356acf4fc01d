// Package colors assigns stable ANSI colors to numeric identifiers and
// severity names.
package colors

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

const (
	// MinBrightness is the floor applied to each channel.
	MinBrightness = 100
	// GreySpread is the max-min channel spread under which a color counts as grey.
	GreySpread = 100
	// RedDominance is how far red may exceed the other channels.
	RedDominance = 100

	Reset = "\033[0m"
)

// RGB is a truecolor triple with channels in [0,255].
type RGB struct {
	R, G, B int
}

// Escape renders the foreground truecolor sequence for c.
func (c RGB) Escape() string {
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", c.R, c.G, c.B)
}

// Hashed derives the raw, uncorrected color for id.
func Hashed(id int64) RGB {
	sum := xxhash.Sum64String(strconv.FormatInt(id, 10))
	return RGB{
		R: int(byte(sum >> 16)),
		G: int(byte(sum >> 8)),
		B: int(byte(sum)),
	}
}

// ForRGB applies the brightness, grey and red corrections in that order.
func ForRGB(c RGB) RGB {
	c = RGB{
		R: EnsureMinBrightness(c.R, MinBrightness),
		G: EnsureMinBrightness(c.G, MinBrightness),
		B: EnsureMinBrightness(c.B, MinBrightness),
	}
	c = EnsureNotGrey(c, GreySpread)
	return EnsureNotRed(c, RedDominance)
}

// ForID returns the corrected escape sequence for id. The result depends
// only on id.
func ForID(id int64) string {
	return ForRGB(Hashed(id)).Escape()
}

// EnsureMinBrightness raises a channel below threshold to threshold.
func EnsureMinBrightness(value, threshold int) int {
	if value < threshold {
		return threshold
	}
	return value
}

// EnsureNotGrey saturates the dominant channel to 255 when the channel spread
// is below threshold. Ties resolve in R, G, B order.
func EnsureNotGrey(c RGB, threshold int) RGB {
	hi := max(c.R, c.G, c.B)
	lo := min(c.R, c.G, c.B)
	if hi-lo >= threshold {
		return c
	}
	switch hi {
	case c.R:
		c.R = 255
	case c.G:
		c.G = 255
	default:
		c.B = 255
	}
	return c
}

// EnsureNotRed pulls red down and pushes the stronger of green and blue to
// full when red dominates by more than threshold and is near the top.
func EnsureNotRed(c RGB, threshold int) RGB {
	other := max(c.G, c.B)
	if c.R-other <= threshold || c.R <= 255-threshold {
		return c
	}
	c.R = 255 - threshold
	if c.G >= c.B {
		c.G = 255
	} else {
		c.B = 255
	}
	return c
}
