package layer

import (
	"bytes"
	"encoding/json"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/shape"
)

// ShapeRef is an entry of a layer: either a shape owned by the layer or a
// reference to a shape by ID. The zero value refers to nothing.
type ShapeRef struct {
	shape *shape.Shape
	id    string
}

// Owned returns a ref that owns s.
func Owned(s *shape.Shape) ShapeRef {
	if s == nil {
		return ShapeRef{}
	}
	return ShapeRef{shape: s}
}

// Ref returns a ref pointing at the shape with the given ID.
func Ref(id string) ShapeRef {
	return ShapeRef{id: id}
}

// ID returns the shape ID for either arm.
func (r ShapeRef) ID() string {
	if r.shape != nil {
		return r.shape.ID()
	}
	return r.id
}

// Shape returns the owned shape. The second result is false for references.
func (r ShapeRef) Shape() (*shape.Shape, bool) {
	return r.shape, r.shape != nil
}

// IsReference reports whether r is a bare ID.
func (r ShapeRef) IsReference() bool { return r.shape == nil && r.id != "" }

// IsZero reports whether r refers to nothing.
func (r ShapeRef) IsZero() bool { return r.shape == nil && r.id == "" }

func (r ShapeRef) clone() ShapeRef {
	if r.shape != nil {
		return ShapeRef{shape: r.shape.Clone()}
	}
	return r
}

// MarshalJSON encodes an owned shape as its object form and a reference as
// a bare string.
func (r ShapeRef) MarshalJSON() ([]byte, error) {
	if r.shape != nil {
		return json.Marshal(r.shape)
	}
	if r.id == "" {
		return nil, derrors.New(derrors.ErrCodeInvalidInput, "cannot encode empty shape reference")
	}
	return json.Marshal(r.id)
}

func (r *ShapeRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return derrors.Wrap(derrors.ErrCodeInvalidFormat, err, "decode shape reference")
		}
		if err := derrors.ValidateID(id); err != nil {
			return err
		}
		*r = Ref(id)
		return nil
	}
	var s shape.Shape
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = Owned(&s)
	return nil
}
