package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drawkit/pkg/document"
	derrors "github.com/matzehuels/drawkit/pkg/errors"
	pkgio "github.com/matzehuels/drawkit/pkg/io"
	"github.com/matzehuels/drawkit/pkg/layer"
	"github.com/matzehuels/drawkit/pkg/shape"
	"github.com/matzehuels/drawkit/pkg/store"
	"github.com/matzehuels/drawkit/pkg/store/sqlite"
)

// libraryCommand creates the "library" command group.
func (c *CLI) libraryCommand() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the shared shape library",
		Long: `Manage the shared shape library, a SQLite database of reusable shapes.

Shapes imported from one document can be linked into others as library
references.`,
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "library database (default from config)")

	open := func(ctx context.Context) (*sqlite.Store, error) {
		path := dbPath
		if path == "" {
			p, err := c.Config.LibraryPath()
			if err != nil {
				return nil, derrors.Wrap(derrors.ErrCodeInvalidPath, err, "locate library")
			}
			path = p
		}
		loggerFromContext(ctx).Debug("opening library", "path", path)
		return sqlite.Open(ctx, path)
	}

	cmd.AddCommand(c.libraryImportCommand(open))
	cmd.AddCommand(c.libraryListCommand(open))
	cmd.AddCommand(c.libraryUseCommand(open))
	cmd.AddCommand(c.libraryRemoveCommand(open))
	cmd.AddCommand(c.libraryPruneCommand())
	return cmd
}

type openLibrary func(ctx context.Context) (*sqlite.Store, error)

func (c *CLI) libraryImportCommand(open openLibrary) *cobra.Command {
	var owned bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Copy a document's library shapes into the shared library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := loadDocument(ctx, args[0])
			if err != nil {
				return err
			}
			lib := doc.Library().Clone()
			if owned {
				for _, l := range doc.Layers().Layers() {
					for _, ref := range l.Shapes() {
						if s, ok := ref.Shape(); ok {
							lib.Add(s)
						}
					}
				}
			}

			db, err := open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()
			n, err := store.Import(ctx, db, lib)
			if err != nil {
				return err
			}
			total, err := db.Count(ctx)
			if err != nil {
				return err
			}
			printSuccess("Imported %d shapes", n)
			printDetail("library now holds %d shapes", total)
			return nil
		},
	}
	cmd.Flags().BoolVar(&owned, "owned", false, "also import shapes owned by layers")
	return cmd
}

func (c *CLI) libraryListCommand(open openLibrary) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List shapes in the shared library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			var shapes []*shape.Shape
			if kind != "" {
				k, kerr := shape.ParseKind(kind)
				if kerr != nil {
					return kerr
				}
				shapes, err = db.ListKind(ctx, k)
			} else {
				shapes, err = db.List(ctx)
			}
			if err != nil {
				return err
			}
			if len(shapes) == 0 {
				printInfo("Library is empty")
				return nil
			}
			rows := make([][]string, len(shapes))
			for i, s := range shapes {
				rows[i] = []string{s.ID(), s.Name, string(s.Kind()), strconv.FormatBool(s.Visible)}
			}
			printTable([]string{"ID", "Name", "Kind", "Visible"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "only list shapes of this kind")
	return cmd
}

func (c *CLI) libraryUseCommand(open openLibrary) *cobra.Command {
	var layerName string
	cmd := &cobra.Command{
		Use:   "use <file> <shape-id>...",
		Short: "Link library shapes into a document",
		Long: `Link library shapes into a document.

Each shape is copied into the document's own library and referenced from
the target layer (--layer, by ID or name; default the active layer).`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := loadDocument(ctx, args[0])
			if err != nil {
				return err
			}
			target, err := findLayer(doc, layerName)
			if err != nil {
				return err
			}

			db, err := open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()
			for _, id := range args[1:] {
				s, err := db.Get(ctx, id)
				if err != nil {
					return err
				}
				if err := doc.AddReference(target.ID(), s); err != nil {
					return err
				}
			}
			if err := pkgio.ExportFile(doc, args[0]); err != nil {
				return err
			}
			printSuccess("Linked %d shapes into %s", len(args)-1, StyleHighlight.Render(target.Name))
			printFile(args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&layerName, "layer", "l", "", "target layer ID or name")
	return cmd
}

func (c *CLI) libraryRemoveCommand(open openLibrary) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <shape-id>...",
		Short: "Delete shapes from the shared library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()
			for _, id := range args {
				if err := db.Delete(ctx, id); err != nil {
					return err
				}
			}
			printSuccess("Removed %d shapes", len(args))
			return nil
		},
	}
}

func (c *CLI) libraryPruneCommand() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "prune <file>",
		Short: "Remove unreferenced shapes from a document's library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if dryRun {
				orphans := doc.OrphanedShapes()
				for _, id := range orphans {
					printDetail("%s", id)
				}
				printInfo("%d unreferenced shapes", len(orphans))
				return nil
			}
			n := doc.PruneLibrary()
			if n == 0 {
				printInfo("Nothing to prune")
				return nil
			}
			if err := pkgio.ExportFile(doc, args[0]); err != nil {
				return err
			}
			printSuccess("Pruned %d shapes", n)
			printFile(args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "only list unreferenced shapes")
	return cmd
}

// findLayer resolves a layer by ID, then by name. Empty selects the active
// layer.
func findLayer(doc *document.Document, ref string) (*layer.Layer, error) {
	m := doc.Layers()
	if ref == "" {
		if l := m.ActiveLayer(); l != nil {
			return l, nil
		}
		return nil, derrors.New(derrors.ErrCodeNotFound, "document has no layers")
	}
	if l := m.FindLayer(ref); l != nil {
		return l, nil
	}
	for _, l := range m.Layers() {
		if l.Name == ref {
			return l, nil
		}
	}
	return nil, derrors.New(derrors.ErrCodeNotFound, "no layer %q", ref)
}
