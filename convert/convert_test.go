package convert

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestUUIDStringRoundTrip(t *testing.T) {
	id := uuid.MustParse("5e38d2c6-6a44-4b6b-8c09-17a1e8b0f2d3")

	s := UUIDToString(id)
	require.Equal(t, "5e38d2c6-6a44-4b6b-8c09-17a1e8b0f2d3", s)

	for _, in := range []string{s, "{" + s + "}", "  " + s + " ", "5E38D2C6-6A44-4B6B-8C09-17A1E8B0F2D3"} {
		got, err := UUIDFromString(in)
		require.NoError(t, err, in)
		require.Equal(t, id, got)
	}

	_, err := UUIDFromString("not-a-uuid")
	require.Error(t, err)
}

func TestUUIDBytesLayout(t *testing.T) {
	id := uuid.MustParse("00112233-4455-6677-8899-aabbccddeeff")
	b := UUIDToBytes(id)
	require.Equal(t, byte(0x33), b[0])
	require.Equal(t, byte(0x55), b[4])
	require.Equal(t, byte(0x77), b[6])
	require.Equal(t, byte(0x88), b[8])

	back, err := UUIDFromBytes(b[:])
	require.NoError(t, err)
	require.Equal(t, id, back)

	_, err = UUIDFromBytes(b[:15])
	require.Error(t, err)
}

func TestColorPacking(t *testing.T) {
	c := RGBA(0x11, 0x22, 0x33, 0xff)
	require.Equal(t, Color(0x00332211), c)
	require.Equal(t, uint8(0), c.Transparency())
	require.Equal(t, uint8(0xff), c.Alpha())
	require.Equal(t, "#112233ff", c.String())

	half := RGBA(10, 20, 30, 0x40)
	require.Equal(t, uint8(0xbf), half.Transparency())
	require.Equal(t, [4]uint8{10, 20, 30, 0x40}, ColorToTuple(half))
}

func TestColorFromTuple(t *testing.T) {
	c, err := ColorFromTuple([]int{255, 128, 0})
	require.NoError(t, err)
	require.Equal(t, NewColor(255, 128, 0), c)

	c, err = ColorFromTuple([]int{1, 2, 3, 4})
	require.NoError(t, err)
	require.Equal(t, [4]uint8{1, 2, 3, 4}, ColorToTuple(c))

	_, err = ColorFromTuple([]int{1, 2})
	require.Error(t, err)
	_, err = ColorFromTuple([]int{1, 2, 256})
	require.Error(t, err)
}

func TestColorARGBBytes(t *testing.T) {
	c := RGBA(0x10, 0x20, 0x30, 0xc0)
	b := c.ARGBBytes()
	require.Equal(t, [4]byte{0xc0, 0x10, 0x20, 0x30}, b)
	require.Equal(t, c, ColorFromARGBBytes(b))
}

func TestBase64(t *testing.T) {
	data := []byte{0x00, 0xff, 0x10, 0x80, 'o', 'n', 'x'}
	s := EncodeBase64(data)

	got, err := DecodeBase64(s)
	require.NoError(t, err)
	require.Equal(t, data, got)

	wrapped := s[:4] + "\r\n" + s[4:] + "\n"
	got, err = DecodeBase64(wrapped)
	require.NoError(t, err)
	require.Equal(t, data, got)

	_, err = DecodeBase64("@@@")
	require.Error(t, err)
}
