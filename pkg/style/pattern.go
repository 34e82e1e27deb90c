package style

import (
	"encoding/json"
	"math"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/ident"
)

// Pattern is a tiled image fill. ImageData is either a URL (http, https or
// data) or a bare base64 payload.
type Pattern struct {
	ID        string  `json:"id"`
	ImageData string  `json:"image_data"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	RepeatX   bool    `json:"repeat_x"`
	RepeatY   bool    `json:"repeat_y"`
}

// NewPattern returns a validated pattern that repeats on both axes.
func NewPattern(imageData string, width, height float64) (*Pattern, error) {
	p := &Pattern{
		ID:        ident.New(),
		ImageData: imageData,
		Width:     width,
		Height:    height,
		RepeatX:   true,
		RepeatY:   true,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the image reference and tile dimensions.
func (p *Pattern) Validate() error {
	if err := derrors.ValidateImageData(p.ImageData); err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidStyle, err, "pattern image")
	}
	if !(p.Width > 0) || math.IsInf(p.Width, 1) {
		return derrors.Style("pattern width must be positive, got %g", p.Width)
	}
	if !(p.Height > 0) || math.IsInf(p.Height, 1) {
		return derrors.Style("pattern height must be positive, got %g", p.Height)
	}
	return nil
}

// Clone returns a copy of p.
func (p *Pattern) Clone() *Pattern {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// UnmarshalJSON decodes and validates a pattern. Absent repeat flags default
// to true.
func (p *Pattern) UnmarshalJSON(data []byte) error {
	type alias struct {
		ID        string  `json:"id"`
		ImageData string  `json:"image_data"`
		Width     float64 `json:"width"`
		Height    float64 `json:"height"`
		RepeatX   *bool   `json:"repeat_x"`
		RepeatY   *bool   `json:"repeat_y"`
	}
	var in alias
	if err := json.Unmarshal(data, &in); err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidStyle, err, "decode pattern")
	}
	out := Pattern{
		ID:        ident.OrNew(in.ID),
		ImageData: in.ImageData,
		Width:     in.Width,
		Height:    in.Height,
		RepeatX:   valueOr(in.RepeatX, true),
		RepeatY:   valueOr(in.RepeatY, true),
	}
	if err := out.Validate(); err != nil {
		return err
	}
	*p = out
	return nil
}
