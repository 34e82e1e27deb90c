package document

import (
	"encoding/json"
	"maps"
	"slices"
	"time"

	"github.com/matzehuels/drawkit/pkg/buildinfo"
	derrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/style"
)

// now is the clock used for metadata timestamps.
var now = time.Now

// Background describes what is drawn behind the layers.
type Background struct {
	Color        *style.Color `json:"color,omitempty"`
	Transparent  bool         `json:"transparent"`
	ImageURL     string       `json:"image_url,omitempty"`
	ImageOpacity float64      `json:"image_opacity"`
}

// DefaultBackground returns a transparent background.
func DefaultBackground() Background {
	return Background{Transparent: true, ImageOpacity: 1}
}

// SolidBackground returns an opaque background of color c.
func SolidBackground(c style.Color) Background {
	b := DefaultBackground()
	b.Transparent = false
	b.Color = &c
	return b
}

// Fill returns the color to paint, or false for a transparent background.
// An opaque background without a color paints white.
func (b Background) Fill() (style.Color, bool) {
	if b.Transparent {
		return style.Color{}, false
	}
	if b.Color == nil {
		return style.RGB(255, 255, 255), true
	}
	return *b.Color, true
}

func (b Background) Validate() error {
	if b.ImageOpacity < 0 || b.ImageOpacity > 1 {
		return derrors.New(derrors.ErrCodeInvalidDocument, "background image opacity must be in [0,1], got %g", b.ImageOpacity)
	}
	if b.ImageURL != "" {
		if err := derrors.ValidateURL(b.ImageURL); err != nil {
			return derrors.Wrap(derrors.ErrCodeInvalidDocument, err, "background image")
		}
	}
	return nil
}

func (b *Background) UnmarshalJSON(data []byte) error {
	type plain Background
	v := plain(DefaultBackground())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	bg := Background(v)
	if !bg.Transparent && bg.Color == nil {
		white := style.RGB(255, 255, 255)
		bg.Color = &white
	}
	if err := bg.Validate(); err != nil {
		return err
	}
	*b = bg
	return nil
}

// Metadata is descriptive information about a document.
type Metadata struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Author      string         `json:"author,omitempty"`
	Keywords    []string       `json:"keywords,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	ModifiedAt  time.Time      `json:"modified_at"`
	Version     string         `json:"version"`
	AppVersion  string         `json:"app_version"`
	Custom      map[string]any `json:"custom_properties,omitempty"`
}

// DefaultTitle is the title of documents that were not given one.
const DefaultTitle = "Untitled Document"

// NewMetadata returns metadata stamped with the current time.
func NewMetadata(title string) Metadata {
	t := now()
	return Metadata{
		Title:      title,
		CreatedAt:  t,
		ModifiedAt: t,
		Version:    "1.0",
		AppVersion: buildinfo.Version,
		Custom:     map[string]any{},
	}
}

// Touch sets the modification time to now.
func (m *Metadata) Touch() { m.ModifiedAt = now() }

// Clone returns a copy with its own keyword slice and custom map.
func (m Metadata) Clone() Metadata {
	m.Keywords = slices.Clone(m.Keywords)
	m.Custom = maps.Clone(m.Custom)
	return m
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	type plain Metadata
	v := plain(NewMetadata(DefaultTitle))
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Custom == nil {
		v.Custom = map[string]any{}
	}
	*m = Metadata(v)
	return nil
}

// ViewSettings is the editor viewport state saved with a document.
type ViewSettings struct {
	Zoom         float64     `json:"zoom_level"`
	PanX         float64     `json:"pan_x"`
	PanY         float64     `json:"pan_y"`
	ShowGrid     bool        `json:"show_grid"`
	ShowRulers   bool        `json:"show_rulers"`
	ShowGuides   bool        `json:"show_guides"`
	SnapToGrid   bool        `json:"snap_to_grid"`
	SnapToGuides bool        `json:"snap_to_guides"`
	GridSize     float64     `json:"grid_size"`
	GridColor    style.Color `json:"grid_color"`
}

func DefaultViewSettings() ViewSettings {
	return ViewSettings{
		Zoom:         1,
		ShowRulers:   true,
		ShowGuides:   true,
		SnapToGuides: true,
		GridSize:     10,
		GridColor:    style.RGB(200, 200, 200),
	}
}

func (v ViewSettings) Validate() error {
	if !(v.Zoom > 0) {
		return derrors.New(derrors.ErrCodeInvalidDocument, "zoom level must be positive, got %g", v.Zoom)
	}
	if !(v.GridSize > 0) {
		return derrors.New(derrors.ErrCodeInvalidDocument, "grid size must be positive, got %g", v.GridSize)
	}
	return nil
}

func (v *ViewSettings) UnmarshalJSON(data []byte) error {
	type plain ViewSettings
	p := plain(DefaultViewSettings())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if err := ViewSettings(p).Validate(); err != nil {
		return err
	}
	*v = ViewSettings(p)
	return nil
}

// ExportSettings are the defaults used when exporting a document.
type ExportSettings struct {
	Format                string  `json:"default_format"`
	DPI                   float64 `json:"dpi"`
	Quality               float64 `json:"quality"`
	IncludeMetadata       bool    `json:"include_metadata"`
	TransparentBackground bool    `json:"transparent_background"`
}

func DefaultExportSettings() ExportSettings {
	return ExportSettings{
		Format:                "svg",
		DPI:                   DefaultDPI,
		Quality:               0.9,
		IncludeMetadata:       true,
		TransparentBackground: true,
	}
}

func (e ExportSettings) Validate() error {
	if !(e.DPI > 0) {
		return derrors.New(derrors.ErrCodeInvalidDocument, "export dpi must be positive, got %g", e.DPI)
	}
	if e.Quality < 0 || e.Quality > 1 {
		return derrors.New(derrors.ErrCodeInvalidDocument, "export quality must be in [0,1], got %g", e.Quality)
	}
	return nil
}

func (e *ExportSettings) UnmarshalJSON(data []byte) error {
	type plain ExportSettings
	p := plain(DefaultExportSettings())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if err := ExportSettings(p).Validate(); err != nil {
		return err
	}
	*e = ExportSettings(p)
	return nil
}
