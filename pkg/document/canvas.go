package document

import (
	"encoding/json"
	"fmt"
	"math"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
)

// Units is a canvas measurement unit.
type Units string

const (
	Pixels      Units = "px"
	Millimeters Units = "mm"
	Inches      Units = "in"
	Points      Units = "pt"
	Centimeters Units = "cm"
)

// DefaultDPI is the resolution used when none is configured.
const DefaultDPI = 96.0

// ParseUnits parses a unit literal.
func ParseUnits(s string) (Units, error) {
	switch u := Units(s); u {
	case Pixels, Millimeters, Inches, Points, Centimeters:
		return u, nil
	}
	return "", derrors.New(derrors.ErrCodeInvalidCanvas, "unknown unit %q (want px, mm, in, pt or cm)", s)
}

// PerInch returns how many units make up one inch, or false for pixels and
// unknown units.
func (u Units) PerInch() (float64, bool) {
	switch u {
	case Inches:
		return 1, true
	case Millimeters:
		return 25.4, true
	case Centimeters:
		return 2.54, true
	case Points:
		return 72, true
	}
	return 0, false
}

// CanvasSize is the drawable area of a document.
type CanvasSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Units  Units   `json:"units"`
}

// NewCanvasSize returns a validated canvas size.
func NewCanvasSize(width, height float64, units Units) (CanvasSize, error) {
	c := CanvasSize{Width: width, Height: height, Units: units}
	if err := c.Validate(); err != nil {
		return CanvasSize{}, err
	}
	return c, nil
}

// Validate checks that both dimensions are positive and finite and that the
// unit is known.
func (c CanvasSize) Validate() error {
	if !(c.Width > 0) || !(c.Height > 0) || math.IsInf(c.Width, 0) || math.IsInf(c.Height, 0) {
		return derrors.New(derrors.ErrCodeInvalidCanvas, "canvas size must be positive, got %gx%g", c.Width, c.Height)
	}
	if _, err := ParseUnits(string(c.Units)); err != nil {
		return err
	}
	return nil
}

// ToPixels converts the size to pixels at the given resolution. Pixel and
// unrecognized units pass through unchanged.
func (c CanvasSize) ToPixels(dpi float64) (width, height float64) {
	perInch, ok := c.Units.PerInch()
	if !ok {
		return c.Width, c.Height
	}
	return c.Width / perInch * dpi, c.Height / perInch * dpi
}

// AspectRatio returns width divided by height.
func (c CanvasSize) AspectRatio() float64 { return c.Width / c.Height }

func (c CanvasSize) String() string {
	return fmt.Sprintf("%gx%g %s", c.Width, c.Height, c.Units)
}

// UnmarshalJSON defaults units to pixels and validates.
func (c *CanvasSize) UnmarshalJSON(data []byte) error {
	type plain CanvasSize
	v := plain{Units: Pixels}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if err := CanvasSize(v).Validate(); err != nil {
		return err
	}
	*c = CanvasSize(v)
	return nil
}
