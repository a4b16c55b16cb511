package geometry

import (
	"fmt"
	"math"

	"github.com/arloliu/onx/archive"
	"github.com/arloliu/onx/convert"
	"github.com/arloliu/onx/endian"
	"github.com/arloliu/onx/errs"
	"github.com/arloliu/onx/internal/pool"
)

var engine = endian.GetLittleEndianEngine()

func writePoint3d(w *archive.Writer, p Point3d) error {
	for _, v := range [3]float64{p.X, p.Y, p.Z} {
		if err := w.WriteFloat64(v); err != nil {
			return err
		}
	}

	return nil
}

func readPoint3d(r *archive.Reader) (Point3d, error) {
	var v [3]float64
	for i := range v {
		f, err := r.ReadFloat64()
		if err != nil {
			return Point3d{}, err
		}
		v[i] = f
	}

	return Point3d{v[0], v[1], v[2]}, nil
}

func writeCount(w *archive.Writer, n int) error {
	if n > math.MaxInt32 {
		return fmt.Errorf("array of %d elements exceeds int32 count", n)
	}

	return w.WriteInt32(int32(n)) //nolint:gosec
}

func readCount(r *archive.Reader) (int, error) {
	n, err := r.ReadInt32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative element count %d", errs.ErrCorruptArchive, n)
	}

	return int(n), nil
}

// writePacked encodes n fixed-size elements with put into a pooled buffer and
// stores it as one compressed buffer.
func writePacked(w *archive.Writer, n, size int, put func(dst []byte, i int)) error {
	buf := pool.GetArchiveBuffer()
	defer pool.PutArchiveBuffer(buf)

	buf.ExtendOrGrow(n * size)
	for i := range n {
		put(buf.B[i*size:(i+1)*size], i)
	}

	_, err := w.WriteCompressedBuffer(buf.B)

	return err
}

// readPacked reads a compressed buffer holding exactly n elements of size bytes
// and decodes each with get. The result is allocated only after the buffer
// length has been checked against n.
func readPacked[T any](r *archive.Reader, n, size int, get func(src []byte) T) ([]T, error) {
	raw, err := r.ReadCompressedBufferAll()
	if err != nil {
		return nil, err
	}
	if len(raw) != n*size {
		return nil, fmt.Errorf("%w: %w: array of %d bytes, want %d elements of %d",
			errs.ErrCorruptArchive, errs.ErrBufferSizeMismatch, len(raw), n, size)
	}
	if n == 0 {
		return nil, nil
	}

	out := make([]T, n)
	for i := range out {
		out[i] = get(raw[i*size : (i+1)*size])
	}

	return out, nil
}

func putFloat32s(dst []byte, vals ...float32) {
	for i, v := range vals {
		engine.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}

func getFloat32(src []byte, i int) float32 {
	return math.Float32frombits(engine.Uint32(src[i*4:]))
}

func putFloat64s(dst []byte, vals ...float64) {
	for i, v := range vals {
		engine.PutUint64(dst[i*8:], math.Float64bits(v))
	}
}

func getFloat64(src []byte, i int) float64 {
	return math.Float64frombits(engine.Uint64(src[i*8:]))
}

func writePoints3d(w *archive.Writer, pts []Point3d) error {
	return writePacked(w, len(pts), 24, func(dst []byte, i int) {
		putFloat64s(dst, pts[i].X, pts[i].Y, pts[i].Z)
	})
}

func readPoints3d(r *archive.Reader, n int) ([]Point3d, error) {
	return readPacked(r, n, 24, func(src []byte) Point3d {
		return Point3d{getFloat64(src, 0), getFloat64(src, 1), getFloat64(src, 2)}
	})
}

func writeVectors3d(w *archive.Writer, vs []Vector3d) error {
	return writePacked(w, len(vs), 24, func(dst []byte, i int) {
		putFloat64s(dst, vs[i].X, vs[i].Y, vs[i].Z)
	})
}

func readVectors3d(r *archive.Reader, n int) ([]Vector3d, error) {
	return readPacked(r, n, 24, func(src []byte) Vector3d {
		return Vector3d{getFloat64(src, 0), getFloat64(src, 1), getFloat64(src, 2)}
	})
}

func writeColors(w *archive.Writer, colors []convert.Color) error {
	return writePacked(w, len(colors), 4, func(dst []byte, i int) {
		engine.PutUint32(dst, uint32(colors[i]))
	})
}

func readColors(r *archive.Reader, n int) ([]convert.Color, error) {
	return readPacked(r, n, 4, func(src []byte) convert.Color {
		return convert.Color(engine.Uint32(src))
	})
}

// optionalLen returns n when an optional per-vertex array is present and 0
// otherwise. Arrays of any other length are dropped on write.
func optionalLen(have, n int) int {
	if have == n {
		return n
	}

	return 0
}
