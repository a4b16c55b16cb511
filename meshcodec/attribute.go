package meshcodec

import (
	"fmt"

	"github.com/arloliu/onx/errs"
)

// AttributeType identifies what an attribute's values describe.
type AttributeType uint8

const (
	AttributePosition AttributeType = iota
	AttributeNormal
	AttributeTexCoord
	AttributeColor
)

func (a AttributeType) String() string {
	switch a {
	case AttributePosition:
		return "position"
	case AttributeNormal:
		return "normal"
	case AttributeTexCoord:
		return "texcoord"
	case AttributeColor:
		return "color"
	default:
		return fmt.Sprintf("AttributeType(%d)", uint8(a))
	}
}

// DataType is the binary type of one attribute component.
type DataType uint8

const (
	DataFloat32 DataType = iota + 1
	DataFloat64
	DataUint8
)

// Size returns the component size in bytes, or 0 for an unknown type.
func (d DataType) Size() int {
	switch d {
	case DataFloat32:
		return 4
	case DataFloat64:
		return 8
	case DataUint8:
		return 1
	default:
		return 0
	}
}

// descriptorSize is the encoded size of a Descriptor.
const descriptorSize = 9

// Descriptor is the binary layout of one attribute.
type Descriptor struct {
	Type       AttributeType
	DataType   DataType
	Components uint8
	Stride     uint8 // bytes per value, Components × DataType.Size()
	ValueCount uint32
	// IdentityMap means point i uses value i and no point map is stored.
	IdentityMap bool
}

func (d Descriptor) validate(pointCount uint32) error {
	size := d.DataType.Size()
	if size == 0 {
		return codecError("%s: unknown data type %d", d.Type, d.DataType)
	}
	if d.Components == 0 || int(d.Stride) != int(d.Components)*size {
		return codecError("%s: stride %d does not match %d × %d bytes", d.Type, d.Stride, d.Components, size)
	}
	if d.IdentityMap && d.ValueCount < pointCount {
		return codecError("%s: identity map over %d values for %d points", d.Type, d.ValueCount, pointCount)
	}

	return nil
}

// is reports whether the attribute has the expected layout for its type.
func (d Descriptor) is(dt DataType, components uint8) bool {
	return d.DataType == dt && d.Components == components
}

// attribute is a decoded attribute: raw values plus the point → value map.
type attribute struct {
	Descriptor
	values   []byte
	pointMap []uint32 // nil for an identity map
}

// valueIndex returns the value used by point p.
func (a *attribute) valueIndex(p uint32) uint32 {
	if a.pointMap == nil {
		return p
	}

	return a.pointMap[p]
}

// value returns the bytes of value i.
func (a *attribute) value(i uint32) []byte {
	stride := uint32(a.Stride)
	return a.values[i*stride : (i+1)*stride]
}

func codecError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errs.ErrCodecFailure, fmt.Sprintf(format, args...))
}
