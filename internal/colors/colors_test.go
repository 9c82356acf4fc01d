package colors_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"skellylogs/internal/colors"
	"skellylogs/internal/severity"
)

func TestEnsureMinBrightness(t *testing.T) {
	assert.Equal(t, 100, colors.EnsureMinBrightness(50, 100))
	assert.Equal(t, 200, colors.EnsureMinBrightness(200, 100))
	assert.Equal(t, 100, colors.EnsureMinBrightness(100, 100))
}

func TestEnsureNotGrey(t *testing.T) {
	got := colors.EnsureNotGrey(colors.RGB{R: 120, G: 120, B: 120}, 100)
	assert.Equal(t, 255, max(got.R, got.G, got.B))

	saturated := colors.RGB{R: 255, G: 50, B: 50}
	assert.Equal(t, saturated, colors.EnsureNotGrey(saturated, 100))
}

func TestEnsureNotGreyAlwaysSaturatesLowSpread(t *testing.T) {
	for r := 0; r < 256; r += 17 {
		for g := 0; g < 256; g += 23 {
			for b := 0; b < 256; b += 31 {
				in := colors.RGB{R: r, G: g, B: b}
				if max(r, g, b)-min(r, g, b) >= 100 {
					continue
				}
				out := colors.EnsureNotGrey(in, 100)
				assert.Equal(t, 255, max(out.R, out.G, out.B), "%+v", in)
			}
		}
	}
}

func TestEnsureNotRed(t *testing.T) {
	got := colors.EnsureNotRed(colors.RGB{R: 255, G: 50, B: 50}, 100)
	assert.Less(t, got.R, 255)
	assert.Equal(t, 255, max(got.G, got.B))

	balanced := colors.RGB{R: 100, G: 150, B: 200}
	assert.Equal(t, balanced, colors.EnsureNotRed(balanced, 100))
}

func TestForIDFormat(t *testing.T) {
	code := colors.ForID(12345)
	assert.True(t, strings.HasPrefix(code, "\033[38;2;"))
	assert.True(t, strings.HasSuffix(code, "m"))
}

func TestForIDDeterministic(t *testing.T) {
	assert.Equal(t, colors.ForID(42), colors.ForID(42))
	assert.Equal(t, colors.Hashed(-7), colors.Hashed(-7))
}

func TestForIDDistinct(t *testing.T) {
	seen := make(map[string]struct{})
	for i := int64(0); i < 1000; i++ {
		seen[colors.ForID(i)] = struct{}{}
	}
	assert.GreaterOrEqual(t, len(seen), 10)
}

func TestForIDBrightEnough(t *testing.T) {
	for i := int64(0); i < 500; i++ {
		c := colors.ForRGB(colors.Hashed(i))
		assert.GreaterOrEqual(t, min(c.R, c.G, c.B), colors.MinBrightness)
	}
}

func TestForLevel(t *testing.T) {
	assert.Equal(t, colors.ForLevel(severity.Info), colors.ForLevel(severity.Level(21)))
	assert.NotEmpty(t, colors.ForLevel(severity.All))
	assert.Equal(t, "x", colors.Wrap("", "x"))
	assert.Equal(t, "\033[33mwarn\033[0m", colors.Wrap(colors.ForLevel(severity.Warning), "warn"))
}
