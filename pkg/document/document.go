// Package document provides the top-level drawing document.
//
// A [Document] owns the canvas definition, the background, descriptive
// metadata, view and export settings, the layer hierarchy and a shape
// library. Layers hold shapes either inline or as references into the
// library; the document is the single owner of library shapes, and deleting
// layers never deletes them. Use [Document.OrphanedShapes] and
// [Document.PruneLibrary] to find and drop shapes nothing references.
//
// # Creating Documents
//
//	doc, err := document.New(document.WithTitle("Poster"))
//	doc, err := document.FromPreset("print_a4", document.WithAuthor("jo"))
//
// Like the rest of the model, a document is not safe for concurrent
// mutation.
package document

import (
	"math"
	"sort"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/ident"
	"github.com/matzehuels/drawkit/pkg/layer"
	"github.com/matzehuels/drawkit/pkg/shape"
	"github.com/matzehuels/drawkit/pkg/store"
)

// Defaults for [New].
const (
	DefaultNewTitle = "New Document"
	DefaultWidth    = 800.0
	DefaultHeight   = 600.0
	FirstLayerName  = "Layer 1"
)

// Document is a drawing document.
type Document struct {
	id string

	Canvas     CanvasSize
	Background Background
	Metadata   Metadata
	View       ViewSettings
	Export     ExportSettings

	layers  *layer.Manager
	library *store.Library
}

// Option configures a document created by [New].
type Option func(*Document)

func WithTitle(title string) Option { return func(d *Document) { d.Metadata.Title = title } }

func WithAuthor(author string) Option { return func(d *Document) { d.Metadata.Author = author } }

func WithCanvas(c CanvasSize) Option { return func(d *Document) { d.Canvas = c } }

func WithBackground(b Background) Option { return func(d *Document) { d.Background = b } }

// New creates a document with one empty layer named "Layer 1".
func New(opts ...Option) (*Document, error) {
	d := empty()
	d.Metadata.Title = DefaultNewTitle
	for _, opt := range opts {
		opt(d)
	}
	if err := d.Canvas.Validate(); err != nil {
		return nil, err
	}
	if err := d.Background.Validate(); err != nil {
		return nil, err
	}
	if _, err := d.layers.CreateLayer(FirstLayerName, nil); err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInternal, err, "create default layer")
	}
	return d, nil
}

func empty() *Document {
	return &Document{
		id:         ident.New(),
		Canvas:     CanvasSize{Width: DefaultWidth, Height: DefaultHeight, Units: Pixels},
		Background: DefaultBackground(),
		Metadata:   NewMetadata(DefaultTitle),
		View:       DefaultViewSettings(),
		Export:     DefaultExportSettings(),
		layers:     layer.NewManager(),
		library:    store.NewLibrary(),
	}
}

func (d *Document) ID() string { return d.id }

// Layers returns the layer hierarchy.
func (d *Document) Layers() *layer.Manager { return d.layers }

// Library returns the shapes that layers may reference by ID.
func (d *Document) Library() *store.Library { return d.library }

// SetCanvasSize replaces the canvas size. An invalid size leaves the canvas
// unchanged.
func (d *Document) SetCanvasSize(width, height float64, units Units) error {
	c, err := NewCanvasSize(width, height, units)
	if err != nil {
		return err
	}
	d.Canvas = c
	d.Metadata.Touch()
	return nil
}

// UpdateMetadata applies fn to the metadata and refreshes the modification
// time.
func (d *Document) UpdateMetadata(fn func(*Metadata)) {
	fn(&d.Metadata)
	d.Metadata.Touch()
}

// CreateLayer creates a layer under parent (the root when nil).
func (d *Document) CreateLayer(name string, parent *layer.Group) (*layer.Layer, error) {
	l, err := d.layers.CreateLayer(name, parent)
	if err != nil {
		return nil, err
	}
	d.Metadata.Touch()
	return l, nil
}

// CreateGroup creates a group under parent (the root when nil).
func (d *Document) CreateGroup(name string, parent *layer.Group) (*layer.Group, error) {
	g, err := d.layers.CreateGroup(name, parent)
	if err != nil {
		return nil, err
	}
	d.Metadata.Touch()
	return g, nil
}

// AddShape adds s inline to the layer with the given ID.
func (d *Document) AddShape(layerID string, s *shape.Shape) error {
	return d.addRef(layerID, layer.Owned(s))
}

// AddReference stores s in the library (replacing any shape with the same
// ID) and adds a reference to it on the layer with the given ID.
func (d *Document) AddReference(layerID string, s *shape.Shape) error {
	if s == nil {
		return derrors.New(derrors.ErrCodeInvalidInput, "shape cannot be nil")
	}
	l := d.layers.FindLayer(layerID)
	if l == nil {
		return derrors.New(derrors.ErrCodeNotFound, "layer %q not found", layerID)
	}
	if _, dup := l.Shape(s.ID()); dup {
		return derrors.New(derrors.ErrCodeInvalidInput, "layer %q already holds shape %q", layerID, s.ID())
	}
	d.library.Put(s)
	return d.addRef(layerID, layer.Ref(s.ID()))
}

func (d *Document) addRef(layerID string, ref layer.ShapeRef) error {
	l := d.layers.FindLayer(layerID)
	if l == nil {
		return derrors.New(derrors.ErrCodeNotFound, "layer %q not found", layerID)
	}
	if !l.AddShape(ref) {
		return derrors.New(derrors.ErrCodeInvalidInput, "layer %q already holds shape %q or shape is empty", layerID, ref.ID())
	}
	d.Metadata.Touch()
	return nil
}

// Resolve returns the shape behind ref: the inline shape, or the library
// entry for a reference.
func (d *Document) Resolve(ref layer.ShapeRef) (*shape.Shape, bool) {
	if s, ok := ref.Shape(); ok {
		return s, true
	}
	if ref.IsReference() {
		return d.library.Get(ref.ID())
	}
	return nil, false
}

// TotalShapeCount returns the number of shape entries across all layers.
func (d *Document) TotalShapeCount() int {
	n := 0
	for _, l := range d.layers.Layers() {
		n += l.ShapeCount()
	}
	return n
}

// CanvasBounds returns the canvas rectangle in canvas units.
func (d *Document) CanvasBounds() shape.Bounds {
	return shape.Bounds{MaxX: d.Canvas.Width, MaxY: d.Canvas.Height}
}

// CanvasCenter returns the center of the canvas in canvas units.
func (d *Document) CanvasCenter() (x, y float64) {
	return d.Canvas.Width / 2, d.Canvas.Height / 2
}

// CleanupEmptyLayers deletes every layer without shapes and returns how many
// were removed.
func (d *Document) CleanupEmptyLayers() int {
	removed := 0
	for _, l := range d.layers.Layers() {
		if l.IsEmpty() && d.layers.DeleteLayer(l.ID()) {
			removed++
		}
	}
	if removed > 0 {
		d.Metadata.Touch()
	}
	return removed
}

// Duplicate returns a deep copy with a fresh ID and reset timestamps. An
// empty title yields "<title> (Copy)".
func (d *Document) Duplicate(title string) *Document {
	c := &Document{
		id:         ident.New(),
		Canvas:     d.Canvas,
		Background: d.Background,
		Metadata:   d.Metadata.Clone(),
		View:       d.View,
		Export:     d.Export,
		layers:     d.layers.Clone(),
		library:    d.library.Clone(),
	}
	if d.Background.Color != nil {
		col := *d.Background.Color
		c.Background.Color = &col
	}
	if title == "" {
		title = d.Metadata.Title + " (Copy)"
	}
	c.Metadata.Title = title
	t := now()
	c.Metadata.CreatedAt, c.Metadata.ModifiedAt = t, t
	return c
}

// referencedIDs returns every shape ID referenced by a layer entry or by the
// children of a group geometry.
func (d *Document) referencedIDs() map[string]bool {
	ids := map[string]bool{}
	addGroup := func(s *shape.Shape) {
		if g, ok := s.Geometry().(shape.Group); ok {
			for _, id := range g.Children {
				ids[id] = true
			}
		}
	}
	for _, l := range d.layers.Layers() {
		for _, ref := range l.Shapes() {
			if ref.IsReference() {
				ids[ref.ID()] = true
			} else if s, ok := ref.Shape(); ok {
				addGroup(s)
			}
		}
	}
	for _, s := range d.library.Shapes() {
		addGroup(s)
	}
	return ids
}

// OrphanedShapes returns the IDs of library shapes that nothing references,
// in library order.
func (d *Document) OrphanedShapes() []string {
	refs := d.referencedIDs()
	var out []string
	for _, id := range d.library.IDs() {
		if !refs[id] {
			out = append(out, id)
		}
	}
	return out
}

// PruneLibrary removes orphaned library shapes and returns how many were
// removed. Removing a group shape can orphan its children, so pruning
// repeats until nothing changes.
func (d *Document) PruneLibrary() int {
	removed := 0
	for {
		orphans := d.OrphanedShapes()
		if len(orphans) == 0 {
			break
		}
		for _, id := range orphans {
			d.library.Remove(id)
		}
		removed += len(orphans)
	}
	if removed > 0 {
		d.Metadata.Touch()
	}
	return removed
}

// DanglingReferences returns the sorted IDs referenced by layers but absent
// from the library.
func (d *Document) DanglingReferences() []string {
	seen := map[string]bool{}
	for _, l := range d.layers.Layers() {
		for _, ref := range l.Shapes() {
			if ref.IsReference() && !d.library.Has(ref.ID()) {
				seen[ref.ID()] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Info summarizes a document.
type Info struct {
	ID                    string  `json:"id"`
	Title                 string  `json:"title"`
	CanvasSize            string  `json:"canvas_size"`
	AspectRatio           float64 `json:"canvas_aspect_ratio"`
	TotalLayers           int     `json:"total_layers"`
	TotalShapes           int     `json:"total_shapes"`
	VisibleLayers         int     `json:"visible_layers"`
	LibraryShapes         int     `json:"library_shapes"`
	BackgroundTransparent bool    `json:"background_transparent"`
	CreatedAt             string  `json:"created_at"`
	ModifiedAt            string  `json:"modified_at"`
	Version               string  `json:"version"`
	AppVersion            string  `json:"app_version"`
}

const timeLayout = "2006-01-02T15:04:05"

// Info returns summary statistics.
func (d *Document) Info() Info {
	return Info{
		ID:                    d.id,
		Title:                 d.Metadata.Title,
		CanvasSize:            d.Canvas.String(),
		AspectRatio:           math.Round(d.Canvas.AspectRatio()*100) / 100,
		TotalLayers:           d.layers.LayerCount(),
		TotalShapes:           d.TotalShapeCount(),
		VisibleLayers:         len(d.layers.VisibleLayers()),
		LibraryShapes:         d.library.Len(),
		BackgroundTransparent: d.Background.Transparent,
		CreatedAt:             d.Metadata.CreatedAt.Format(timeLayout),
		ModifiedAt:            d.Metadata.ModifiedAt.Format(timeLayout),
		Version:               d.Metadata.Version,
		AppVersion:            d.Metadata.AppVersion,
	}
}
