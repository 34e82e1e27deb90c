package document

import (
	"encoding/json"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/ident"
	"github.com/matzehuels/drawkit/pkg/layer"
	"github.com/matzehuels/drawkit/pkg/store"
)

type documentJSON struct {
	ID           string          `json:"id"`
	Canvas       *CanvasSize     `json:"canvas"`
	Background   *Background     `json:"background,omitempty"`
	LayerManager *layer.Manager  `json:"layer_manager,omitempty"`
	ShapeLibrary *store.Library  `json:"shape_library,omitempty"`
	Metadata     *Metadata       `json:"metadata,omitempty"`
	View         *ViewSettings   `json:"view_settings,omitempty"`
	Export       *ExportSettings `json:"export_settings,omitempty"`
}

func (d *Document) MarshalJSON() ([]byte, error) {
	out := documentJSON{
		ID:           d.id,
		Canvas:       &d.Canvas,
		Background:   &d.Background,
		LayerManager: d.layers,
		Metadata:     &d.Metadata,
		View:         &d.View,
		Export:       &d.Export,
	}
	if d.library.Len() > 0 {
		out.ShapeLibrary = d.library
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a document. The canvas is required; every other
// section falls back to its defaults. Every section is validated.
func (d *Document) UnmarshalJSON(data []byte) error {
	var in documentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Canvas == nil {
		return derrors.New(derrors.ErrCodeInvalidDocument, "document has no canvas")
	}
	if in.ID != "" {
		if err := derrors.ValidateID(in.ID); err != nil {
			return err
		}
	}

	doc := empty()
	doc.id = ident.OrNew(in.ID)
	doc.Canvas = *in.Canvas
	if in.Background != nil {
		doc.Background = *in.Background
	}
	if in.LayerManager != nil {
		doc.layers = in.LayerManager
	}
	if in.ShapeLibrary != nil {
		doc.library = in.ShapeLibrary
	}
	if in.Metadata != nil {
		doc.Metadata = *in.Metadata
	}
	if in.View != nil {
		doc.View = *in.View
	}
	if in.Export != nil {
		doc.Export = *in.Export
	}
	*d = *doc
	return nil
}
