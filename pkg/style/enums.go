package style

import (
	"encoding/json"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
)

// BlendMode controls how a shape, layer or group composites onto what is
// painted beneath it. Values match the CSS mix-blend-mode keywords.
type BlendMode string

const (
	BlendNormal     BlendMode = "normal"
	BlendMultiply   BlendMode = "multiply"
	BlendScreen     BlendMode = "screen"
	BlendOverlay    BlendMode = "overlay"
	BlendDarken     BlendMode = "darken"
	BlendLighten    BlendMode = "lighten"
	BlendColorDodge BlendMode = "color-dodge"
	BlendColorBurn  BlendMode = "color-burn"
	BlendHardLight  BlendMode = "hard-light"
	BlendSoftLight  BlendMode = "soft-light"
	BlendDifference BlendMode = "difference"
	BlendExclusion  BlendMode = "exclusion"
)

// BlendModes lists every supported blend mode in declaration order.
var BlendModes = []BlendMode{
	BlendNormal, BlendMultiply, BlendScreen, BlendOverlay,
	BlendDarken, BlendLighten, BlendColorDodge, BlendColorBurn,
	BlendHardLight, BlendSoftLight, BlendDifference, BlendExclusion,
}

// Valid reports whether m is a known blend mode.
func (m BlendMode) Valid() bool {
	for _, b := range BlendModes {
		if m == b {
			return true
		}
	}
	return false
}

// ParseBlendMode converts a string literal to a BlendMode.
func ParseBlendMode(s string) (BlendMode, error) {
	m := BlendMode(s)
	if !m.Valid() {
		return "", derrors.Style("unknown blend mode %q", s)
	}
	return m, nil
}

func (m *BlendMode) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, m, ParseBlendMode)
}

// LineCap is the shape drawn at the open ends of a stroked path.
type LineCap string

const (
	CapButt   LineCap = "butt"
	CapRound  LineCap = "round"
	CapSquare LineCap = "square"
)

// ParseLineCap converts a string literal to a LineCap.
func ParseLineCap(s string) (LineCap, error) {
	switch c := LineCap(s); c {
	case CapButt, CapRound, CapSquare:
		return c, nil
	}
	return "", derrors.Style("unknown line cap %q", s)
}

func (c *LineCap) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, c, ParseLineCap)
}

// LineJoin is the shape drawn where two stroked segments meet.
type LineJoin string

const (
	JoinMiter LineJoin = "miter"
	JoinRound LineJoin = "round"
	JoinBevel LineJoin = "bevel"
)

// ParseLineJoin converts a string literal to a LineJoin.
func ParseLineJoin(s string) (LineJoin, error) {
	switch j := LineJoin(s); j {
	case JoinMiter, JoinRound, JoinBevel:
		return j, nil
	}
	return "", derrors.Style("unknown line join %q", s)
}

func (j *LineJoin) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, j, ParseLineJoin)
}

// FillType tags the active payload of a [Fill].
type FillType string

const (
	FillSolid          FillType = "solid"
	FillLinearGradient FillType = "linear-gradient"
	FillRadialGradient FillType = "radial-gradient"
	FillPattern        FillType = "pattern"
)

// ParseFillType converts a string literal to a FillType.
func ParseFillType(s string) (FillType, error) {
	switch t := FillType(s); t {
	case FillSolid, FillLinearGradient, FillRadialGradient, FillPattern:
		return t, nil
	}
	return "", derrors.Style("unknown fill type %q", s)
}

func (t *FillType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, t, ParseFillType)
}

func unmarshalEnum[T ~string](data []byte, dst *T, parse func(string) (T, error)) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidStyle, err, "enum must be a string")
	}
	v, err := parse(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// checkUnit validates a value that must lie in [0, 1].
func checkUnit(field string, v float64) error {
	if !(v >= 0 && v <= 1) {
		return derrors.Style("%s must be between 0 and 1, got %g", field, v)
	}
	return nil
}
