// Package style defines the paint model of a drawing: colors, gradients,
// patterns, fills, strokes and effects.
//
// # Construction Contract
//
// Every value in this package is either fully valid or does not exist.
// Constructors ([NewRGB], [ParseHex], [NewLinearGradient], [NewFill],
// [NewStroke], [NewEffects], ...) validate their input and return an error
// carrying [errors.ErrCodeInvalidStyle] when a rule is violated. Types whose
// invariants span several fields keep those fields unexported and expose
// setters that validate before mutating, so a failed update leaves the value
// unchanged.
//
// # Colors
//
// [Color] is a tagged value over four models: RGB, RGBA, HSL and Hex. Hex
// colors are canonicalized to uppercase "#RRGGBB" or "#RRGGBBAA":
//
//	c, _ := style.ParseHex("ff8800")
//	c.Hex()           // "#FF8800"
//	c.ToRGBA().Hex()  // "#FF8800FF"
//
// [ParseColor] additionally accepts SVG named colors such as "steelblue".
//
// # Fills
//
// A [Fill] holds exactly one payload matching its [FillType]. Switching the
// type through [Fill.SetLinearGradient] and friends clears the others:
//
//	red, _ := style.ParseHex("#FF0000")
//	f, _ := style.SolidFill(red)
//	_ = f.SetLinearGradient(g) // f.Color() now reports false
//
// # Serialization
//
// All types implement json.Marshaler and json.Unmarshaler. Enumerations are
// encoded as their stable string literals ("color-dodge", "round", ...), and
// decoding re-runs the same validation as the constructors.
//
// [errors.ErrCodeInvalidStyle]: github.com/matzehuels/drawkit/pkg/errors.ErrCodeInvalidStyle
package style
