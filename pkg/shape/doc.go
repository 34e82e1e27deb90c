// Package shape provides the drawable primitives of a document.
//
// A [Shape] pairs an identity with a [Geometry] payload, a [style.Style] and
// a [Transform]. Geometry is a closed set of per-kind structs ([Rectangle],
// [Circle], [Ellipse], [Line], [Polyline], [Polygon], [Path], [Group]); the
// payload type determines the shape's [Kind].
//
// # Validation
//
// A shape is never observable with invalid geometry. [New] validates the
// payload and [Shape.SetGeometry] re-validates the whole shape before
// committing, so a rejected update leaves the previous geometry in place:
//
//	s, _ := shape.New(shape.Rectangle{Width: 100, Height: 50})
//	err := s.SetGeometry(shape.Rectangle{Width: -1, Height: 50})
//	// errors.Is(err, errors.ErrCodeInvalidGeometry) == true
//	// s.Geometry() is still the 100x50 rectangle
//
// Open key-value payloads, as found in serialized documents, are decoded with
// [FromMap], which applies the same rules.
//
// # Bounds
//
// [Shape.Bounds] returns an axis-aligned box in local geometry space shifted
// by the transform's translation. Rotation, scale and skew are ignored. Paths
// and groups report no bounds.
package shape
