package pool

import "sync"

// uint32SlicePool holds the mesh codec's scratch corner arrays.
var uint32SlicePool = sync.Pool{
	New: func() any { return &[]uint32{} },
}

// GetUint32Slice retrieves a uint32 slice of length size from the pool.
//
// The caller must call the returned cleanup function once the slice is no longer
// referenced, typically with defer.
//
//	pointMap, cleanup := pool.GetUint32Slice(pointCount)
//	defer cleanup()
func GetUint32Slice(size int) ([]uint32, func()) {
	ptr, _ := uint32SlicePool.Get().(*[]uint32)
	slice := (*ptr)[:0]
	if cap(slice) < size {
		slice = make([]uint32, size)
	} else {
		slice = slice[:size]
	}

	return slice, func() {
		*ptr = slice[:0]
		uint32SlicePool.Put(ptr)
	}
}
