package style

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
)

// ColorModel tags the representation a [Color] was constructed with.
type ColorModel string

const (
	ModelRGB  ColorModel = "rgb"
	ModelRGBA ColorModel = "rgba"
	ModelHSL  ColorModel = "hsl"
	ModelHex  ColorModel = "hex"
)

// Color is a validated color in one of four models. The zero value is the
// absent color and reports IsZero; every other value satisfies the range
// rules of its model. Colors are comparable with ==.
type Color struct {
	model   ColorModel
	r, g, b uint8
	a       float64
	h, s, l float64
	hex     string
}

// RGB returns an opaque RGB color. It cannot fail because uint8 already
// bounds every channel.
func RGB(r, g, b uint8) Color {
	return Color{model: ModelRGB, r: r, g: g, b: b, a: 1}
}

// NewRGB validates channels in [0, 255] and returns an RGB color.
func NewRGB(r, g, b int) (Color, error) {
	if err := checkChannels(r, g, b); err != nil {
		return Color{}, err
	}
	return RGB(uint8(r), uint8(g), uint8(b)), nil
}

// NewRGBA validates channels in [0, 255] and alpha in [0, 1].
func NewRGBA(r, g, b int, a float64) (Color, error) {
	if err := checkChannels(r, g, b); err != nil {
		return Color{}, err
	}
	if err := checkUnit("alpha", a); err != nil {
		return Color{}, err
	}
	return Color{model: ModelRGBA, r: uint8(r), g: uint8(g), b: uint8(b), a: a}, nil
}

// NewHSL validates hue in [0, 360] and saturation/lightness in [0, 100].
func NewHSL(h, s, l float64) (Color, error) {
	if !(h >= 0 && h <= 360) {
		return Color{}, derrors.Style("hue must be between 0 and 360, got %g", h)
	}
	if !(s >= 0 && s <= 100) {
		return Color{}, derrors.Style("saturation must be between 0 and 100, got %g", s)
	}
	if !(l >= 0 && l <= 100) {
		return Color{}, derrors.Style("lightness must be between 0 and 100, got %g", l)
	}
	rgb := colorful.Hsl(h, s/100, l/100).Clamped()
	r, g, b := rgb.RGB255()
	return Color{model: ModelHSL, h: h, s: s, l: l, r: r, g: g, b: b, a: 1}, nil
}

// ParseHex parses "#RRGGBB", "#RRGGBBAA" or the same without the leading
// '#'. The stored form is uppercase with a leading '#'.
func ParseHex(s string) (Color, error) {
	digits := strings.TrimPrefix(s, "#")
	if len(digits) != 6 && len(digits) != 8 {
		return Color{}, derrors.Style("hex color must be 6 or 8 characters long, got %q", s)
	}
	for _, c := range digits {
		if !isHexDigit(c) {
			return Color{}, derrors.Style("hex color %q contains invalid characters", s)
		}
	}
	digits = strings.ToUpper(digits)

	c := Color{model: ModelHex, hex: "#" + digits, a: 1}
	c.r = hexByte(digits[0:2])
	c.g = hexByte(digits[2:4])
	c.b = hexByte(digits[4:6])
	if len(digits) == 8 {
		c.a = float64(hexByte(digits[6:8])) / 255
	}
	return c, nil
}

// ParseColor accepts any hex form understood by [ParseHex] or an SVG named
// color ("red", "steelblue", ...). Named colors resolve to a 6-digit Hex
// color.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if c, err := ParseHex(s); err == nil {
		return c, nil
	} else if strings.HasPrefix(s, "#") {
		return Color{}, err
	}
	named, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return Color{}, derrors.Style("unknown color %q", s)
	}
	return ParseHex(fmt.Sprintf("%02X%02X%02X", named.R, named.G, named.B))
}

// Model returns the representation the color was constructed with.
func (c Color) Model() ColorModel { return c.model }

// IsZero reports whether c is the absent color.
func (c Color) IsZero() bool { return c.model == "" }

// Components returns the color as 8-bit channels plus alpha in [0, 1].
// HSL colors are converted; colors without alpha report 1.
func (c Color) Components() (r, g, b uint8, a float64) {
	return c.r, c.g, c.b, c.a
}

// Alpha returns the alpha component; 1 for models without alpha.
func (c Color) Alpha() float64 { return c.a }

// HSL returns the hue, saturation and lightness of an HSL color. For other
// models it converts from RGB.
func (c Color) HSL() (h, s, l float64) {
	if c.model == ModelHSL {
		return c.h, c.s, c.l
	}
	cf := colorful.Color{R: float64(c.r) / 255, G: float64(c.g) / 255, B: float64(c.b) / 255}
	h, s, l = cf.Hsl()
	return h, s * 100, l * 100
}

// ToRGB converts to the RGB model, dropping alpha.
func (c Color) ToRGB() Color {
	if c.IsZero() {
		return c
	}
	return RGB(c.r, c.g, c.b)
}

// ToRGBA converts to the RGBA model. Colors without alpha become opaque.
func (c Color) ToRGBA() Color {
	if c.IsZero() {
		return c
	}
	return Color{model: ModelRGBA, r: c.r, g: c.g, b: c.b, a: c.a}
}

// ToHex converts to the Hex model using the canonical form from [Color.Hex].
func (c Color) ToHex() Color {
	if c.IsZero() || c.model == ModelHex {
		return c
	}
	h, _ := ParseHex(c.Hex())
	return h
}

// Hex returns the canonical uppercase hex form. RGBA colors always produce 8
// digits with alpha rounded to the nearest byte; RGB and HSL produce 6.
func (c Color) Hex() string {
	switch c.model {
	case ModelHex:
		return c.hex
	case ModelRGBA:
		return fmt.Sprintf("#%02X%02X%02X%02X", c.r, c.g, c.b, uint8(math.Round(c.a*255)))
	case ModelRGB, ModelHSL:
		return fmt.Sprintf("#%02X%02X%02X", c.r, c.g, c.b)
	}
	return ""
}

// CSS returns a CSS color string in the color's own model.
func (c Color) CSS() string {
	switch c.model {
	case ModelRGB:
		return fmt.Sprintf("rgb(%d,%d,%d)", c.r, c.g, c.b)
	case ModelRGBA:
		return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.r, c.g, c.b, formatFloat(c.a))
	case ModelHSL:
		return fmt.Sprintf("hsl(%s, %s%%, %s%%)", formatFloat(c.h), formatFloat(c.s), formatFloat(c.l))
	case ModelHex:
		return c.hex
	}
	return "none"
}

// String implements fmt.Stringer.
func (c Color) String() string { return c.CSS() }

func checkChannels(r, g, b int) error {
	for _, ch := range []struct {
		name string
		v    int
	}{{"red", r}, {"green", g}, {"blue", b}} {
		if ch.v < 0 || ch.v > 255 {
			return derrors.Style("%s component must be between 0 and 255, got %d", ch.name, ch.v)
		}
	}
	return nil
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexByte(s string) uint8 {
	v, _ := strconv.ParseUint(s, 16, 8)
	return uint8(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// colorJSON is the wire form of a Color. Pointers distinguish a missing
// channel from a zero one.
type colorJSON struct {
	Model ColorModel `json:"model"`
	R     *int       `json:"r,omitempty"`
	G     *int       `json:"g,omitempty"`
	B     *int       `json:"b,omitempty"`
	A     *float64   `json:"a,omitempty"`
	H     *float64   `json:"h,omitempty"`
	S     *float64   `json:"s,omitempty"`
	L     *float64   `json:"l,omitempty"`
	Value *string    `json:"value,omitempty"`
}

// MarshalJSON encodes the color as {"model": ..., <components>}.
func (c Color) MarshalJSON() ([]byte, error) {
	if c.IsZero() {
		return []byte("null"), nil
	}
	out := colorJSON{Model: c.model}
	switch c.model {
	case ModelRGB, ModelRGBA:
		r, g, b := int(c.r), int(c.g), int(c.b)
		out.R, out.G, out.B = &r, &g, &b
		if c.model == ModelRGBA {
			a := c.a
			out.A = &a
		}
	case ModelHSL:
		h, s, l := c.h, c.s, c.l
		out.H, out.S, out.L = &h, &s, &l
	case ModelHex:
		v := c.hex
		out.Value = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes either the object form written by MarshalJSON or a
// bare string accepted by [ParseColor]. The result is validated.
func (c *Color) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Color{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParseColor(s)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	var in colorJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidStyle, err, "decode color")
	}

	var (
		parsed Color
		err    error
	)
	switch in.Model {
	case ModelRGB:
		if in.R == nil || in.G == nil || in.B == nil {
			return derrors.Style("rgb color requires r, g and b")
		}
		parsed, err = NewRGB(*in.R, *in.G, *in.B)
	case ModelRGBA:
		if in.R == nil || in.G == nil || in.B == nil || in.A == nil {
			return derrors.Style("rgba color requires r, g, b and a")
		}
		parsed, err = NewRGBA(*in.R, *in.G, *in.B, *in.A)
	case ModelHSL:
		if in.H == nil || in.S == nil || in.L == nil {
			return derrors.Style("hsl color requires h, s and l")
		}
		parsed, err = NewHSL(*in.H, *in.S, *in.L)
	case ModelHex:
		if in.Value == nil {
			return derrors.Style("hex color requires value")
		}
		parsed, err = ParseHex(*in.Value)
	default:
		return derrors.Style("unknown color model %q", in.Model)
	}
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
