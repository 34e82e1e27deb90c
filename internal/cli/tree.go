package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/drawkit/pkg/document"
	derrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/export/dot"
	"github.com/matzehuels/drawkit/pkg/layer"
)

// rowKind classifies a tree row.
type rowKind int

const (
	rowGroup rowKind = iota
	rowLayer
	rowShape
)

// treeRow is one line of the layer tree.
type treeRow struct {
	kind    rowKind
	depth   int
	id      string
	name    string
	detail  string
	hidden  bool
	locked  bool
	missing bool
	// parents lists the IDs of the enclosing groups, outermost first.
	parents []string
}

// treeRows flattens the document hierarchy in structural order, children
// after their parent.
func treeRows(doc *document.Document, shapes bool) []treeRow {
	var rows []treeRow
	var walk func(g *layer.Group, depth int, parents []string)
	walk = func(g *layer.Group, depth int, parents []string) {
		for _, n := range g.Children() {
			switch n := n.(type) {
			case *layer.Group:
				rows = append(rows, treeRow{
					kind: rowGroup, depth: depth, id: n.ID(), name: n.Name,
					detail: fmt.Sprintf("%d children", n.ChildCount()),
					hidden: !n.Visible, locked: n.Locked, parents: parents,
				})
				walk(n, depth+1, append(parents[:len(parents):len(parents)], n.ID()))
			case *layer.Layer:
				rows = append(rows, treeRow{
					kind: rowLayer, depth: depth, id: n.ID(), name: n.Name,
					detail: fmt.Sprintf("z %d · %d shapes", n.ZIndex, n.ShapeCount()),
					hidden: !n.Visible, locked: n.Locked, parents: parents,
				})
				if shapes {
					for _, ref := range n.Shapes() {
						rows = append(rows, shapeRow(doc, ref, depth+1, parents))
					}
				}
			}
		}
	}
	walk(doc.Layers().Root(), 0, nil)
	return rows
}

func shapeRow(doc *document.Document, ref layer.ShapeRef, depth int, parents []string) treeRow {
	row := treeRow{kind: rowShape, depth: depth, id: ref.ID(), name: ref.ID(), parents: parents}
	s, ok := doc.Resolve(ref)
	if !ok {
		row.missing = true
		row.detail = "missing from library"
		return row
	}
	if s.Name != "" {
		row.name = s.Name
	}
	row.detail = string(s.Kind())
	if ref.IsReference() {
		row.detail += " · library"
	}
	row.hidden = !s.Visible
	return row
}

var rowIcons = map[rowKind]string{rowGroup: "▾", rowLayer: "▤", rowShape: "•"}

// label renders the row without indentation or selection.
func (r treeRow) label() string {
	flags := ""
	if r.hidden {
		flags += " hidden"
	}
	if r.locked {
		flags += " locked"
	}
	text := rowIcons[r.kind] + " " + r.name
	switch {
	case r.missing:
		return StyleError.Render(text) + " " + StyleDim.Render(r.detail)
	case r.kind == rowGroup:
		text = StyleTitle.Render(text)
	case r.kind == rowLayer:
		text = StyleValue.Render(text)
	}
	return text + " " + StyleDim.Render(r.detail+flags)
}

// renderTree renders rows as an indented outline.
func renderTree(title string, rows []treeRow) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(strings.Repeat("  ", r.depth+1))
		b.WriteString(r.label())
		b.WriteString("\n")
	}
	return b.String()
}

// treeCommand creates the "tree" command.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		shapes      bool
		interactive bool
		format      string
		output      string
		detailed    bool
	)
	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Show the layer hierarchy",
		Long: `Show the layer hierarchy of a document.

By default the tree is printed as an outline. --interactive opens a browser
where groups can be collapsed. --format dot prints Graphviz source and
--format svg renders it with Graphviz.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := loadDocument(ctx, args[0])
			if err != nil {
				return err
			}

			switch format {
			case "":
			case "dot", "svg":
				src := dot.ToDOT(doc, dot.Options{Shapes: shapes, Detailed: detailed})
				data := []byte(src)
				if format == "svg" {
					if data, err = dot.RenderSVG(ctx, src); err != nil {
						return err
					}
				}
				if output == "" {
					_, err = stdout.Write(data)
					return err
				}
				if err := writeFile(output, data); err != nil {
					return err
				}
				printFile(output)
				return nil
			default:
				return derrors.New(derrors.ErrCodeInvalidFormat, "invalid tree format %q (must be dot or svg)", format)
			}

			rows := treeRows(doc, shapes)
			if !interactive {
				fmt.Fprint(stdout, renderTree(doc.Metadata.Title, rows))
				return nil
			}
			p := tea.NewProgram(newTreeModel(doc.Metadata.Title, rows), tea.WithContext(ctx), tea.WithOutput(os.Stderr))
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().BoolVarP(&shapes, "shapes", "s", false, "list shapes under each layer")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse the tree interactively")
	cmd.Flags().StringVar(&format, "format", "", "diagram output: dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "diagram output file (default stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "add z-index and shape counts to diagrams")
	cmd.MarkFlagsMutuallyExclusive("interactive", "format")
	return cmd
}
