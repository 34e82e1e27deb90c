package shape

import (
	"encoding/json"
	"math"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
)

// Transform positions a shape. Angles are in degrees.
type Transform struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	ScaleX   float64 `json:"scale_x"`
	ScaleY   float64 `json:"scale_y"`
	SkewX    float64 `json:"skew_x"`
	SkewY    float64 `json:"skew_y"`
}

// Identity returns the transform that leaves geometry unchanged.
func Identity() Transform {
	return Transform{ScaleX: 1, ScaleY: 1}
}

// Translate returns the identity transform moved to (x, y).
func Translate(x, y float64) Transform {
	t := Identity()
	t.X, t.Y = x, y
	return t
}

// IsIdentity reports whether t is the identity transform.
func (t Transform) IsIdentity() bool {
	return t == Identity()
}

// Validate checks that all fields are finite and both scale factors are
// strictly positive.
func (t Transform) Validate() error {
	for _, v := range []float64{t.X, t.Y, t.Rotation, t.SkewX, t.SkewY} {
		if !finite(v) {
			return derrors.New(derrors.ErrCodeInvalidTransform, "transform values must be finite")
		}
	}
	if !(t.ScaleX > 0) || math.IsInf(t.ScaleX, 1) {
		return derrors.New(derrors.ErrCodeInvalidTransform, "scale_x must be positive, got %g", t.ScaleX)
	}
	if !(t.ScaleY > 0) || math.IsInf(t.ScaleY, 1) {
		return derrors.New(derrors.ErrCodeInvalidTransform, "scale_y must be positive, got %g", t.ScaleY)
	}
	return nil
}

// UnmarshalJSON decodes a transform. Absent scale factors default to 1 and
// the result is validated.
func (t *Transform) UnmarshalJSON(data []byte) error {
	type alias Transform
	out := alias(Identity())
	if err := json.Unmarshal(data, &out); err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidTransform, err, "decode transform")
	}
	if err := Transform(out).Validate(); err != nil {
		return err
	}
	*t = Transform(out)
	return nil
}
