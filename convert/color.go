package convert

import "fmt"

// Color is a packed 32-bit color laid out as 0xTTBBGGRR: red in the low byte,
// then green, blue, and transparency in the high byte. Transparency 0 is opaque.
type Color uint32

// Unset is the color value used for "no color assigned".
const Unset Color = 0xFFFFFFFF

// NewColor packs an opaque color.
func NewColor(r, g, b uint8) Color {
	return RGBA(r, g, b, 255)
}

// RGBA packs a color from channels with a (0 transparent, 255 opaque).
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(255-a)<<24)
}

// Red returns the red channel.
func (c Color) Red() uint8 { return uint8(c) }

// Green returns the green channel.
func (c Color) Green() uint8 { return uint8(c >> 8) }

// Blue returns the blue channel.
func (c Color) Blue() uint8 { return uint8(c >> 16) }

// Transparency returns the stored transparency byte.
func (c Color) Transparency() uint8 { return uint8(c >> 24) }

// Alpha returns the opacity, the complement of the stored transparency.
func (c Color) Alpha() uint8 { return 255 - c.Transparency() }

// String formats the color as #RRGGBBAA.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.Red(), c.Green(), c.Blue(), c.Alpha())
}

// ColorToTuple returns the (r, g, b, a) tuple hosts expect.
func ColorToTuple(c Color) [4]uint8 {
	return [4]uint8{c.Red(), c.Green(), c.Blue(), c.Alpha()}
}

// ColorFromTuple accepts (r, g, b) or (r, g, b, a) with channels in 0..255.
func ColorFromTuple(values []int) (Color, error) {
	if len(values) != 3 && len(values) != 4 {
		return 0, fmt.Errorf("color tuple needs 3 or 4 values, got %d", len(values))
	}
	for i, v := range values {
		if v < 0 || v > 255 {
			return 0, fmt.Errorf("color channel %d out of range: %d", i, v)
		}
	}

	alpha := 255
	if len(values) == 4 {
		alpha = values[3]
	}

	return RGBA(uint8(values[0]), uint8(values[1]), uint8(values[2]), uint8(alpha)), nil //nolint:gosec
}

// ARGBBytes returns the color as {alpha, red, green, blue}, the channel order of
// the compressed mesh codec.
func (c Color) ARGBBytes() [4]byte {
	return [4]byte{c.Alpha(), c.Red(), c.Green(), c.Blue()}
}

// ColorFromARGBBytes reverses ARGBBytes.
func ColorFromARGBBytes(b [4]byte) Color {
	return RGBA(b[1], b[2], b[3], b[0])
}
