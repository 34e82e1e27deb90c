package document

import (
	"fmt"
	"strings"
)

// MaxPixels is the canvas area above which [Document.Validate] warns.
const MaxPixels = 100_000_000

// Report is the result of [Document.Validate]. Errors are integrity
// problems; warnings are conditions worth surfacing to a user.
type Report struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// OK reports whether the report holds no errors.
func (r Report) OK() bool { return len(r.Errors) == 0 }

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks document integrity. It never fails; problems are
// collected in the returned report.
func (d *Document) Validate() Report {
	r := Report{Errors: []string{}, Warnings: []string{}}

	if !(d.Canvas.Width > 0) || !(d.Canvas.Height > 0) {
		r.errorf("Canvas size must be positive")
	} else if err := d.Canvas.Validate(); err != nil {
		r.errorf("%v", err)
	}
	for _, err := range []error{d.Background.Validate(), d.View.Validate(), d.Export.Validate()} {
		if err != nil {
			r.errorf("%v", err)
		}
	}

	w, h := d.Canvas.ToPixels(DefaultDPI)
	if w*h > MaxPixels {
		r.warnf("Very large canvas may impact performance")
	}

	if d.TotalShapeCount() == 0 {
		r.warnf("Document contains no shapes")
	}

	var empty []string
	for _, l := range d.layers.Layers() {
		if l.IsEmpty() {
			empty = append(empty, l.Name)
		}
	}
	if len(empty) > 0 {
		r.warnf("Empty layers found: %s", strings.Join(empty, ", "))
	}

	if dangling := d.DanglingReferences(); len(dangling) > 0 {
		r.warnf("Shape references missing from library: %s", strings.Join(dangling, ", "))
	}
	return r
}
