// Package meshcodec compresses meshes and point clouds into self-contained
// blobs and back.
//
// # Blob layout
//
//	0..3   magic "ONXC"
//	4      format version
//	5      geometry type (format.GeometryMesh or format.GeometryPointCloud)
//	6      compression type
//	7      encoder speed, 0 (smallest) to 10 (fastest)
//	8..    compressed body
//
// The body is little endian:
//
//	u32 point count, u32 face count, u8 attribute count
//	per attribute:
//	  u8 type, u8 data type, u8 components, u8 stride,
//	  u32 value count, u8 identity flag,
//	  values (value count × stride bytes),
//	  point map (point count × u32) unless the identity flag is set
//	faces: face count × 3 u32 point ids
//
// Meshes store one point per triangle corner, with quads split into the
// triangles [0,1,2] and [2,3,0]. Decode routes every point back through the
// position map, so vertex order and duplicate positions come back unchanged.
package meshcodec
