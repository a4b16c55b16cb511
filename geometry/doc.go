// Package geometry defines the geometry kinds a model document can hold.
//
// The set of kinds is closed. Each kind has a Kind tag, and New is the only
// place that maps a tag to a concrete type:
//
//	g, err := geometry.New(geometry.KindMesh)
//	if err != nil {
//	    return err
//	}
//	if err := g.Read(r); err != nil {
//	    return err
//	}
//
// Kinds computed by the geometry kernel itself (breps, SubD, surfaces) are
// carried as Opaque: their payload is kept verbatim together with the bounding
// box stored next to it, so documents round-trip without the kernel.
//
// Every kind reads and writes its own payload inside an archive geometry chunk.
// Large arrays are stored as compressed buffers.
package geometry
