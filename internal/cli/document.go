package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drawkit/pkg/document"
	derrors "github.com/matzehuels/drawkit/pkg/errors"
	pkgio "github.com/matzehuels/drawkit/pkg/io"
)

// =============================================================================
// new
// =============================================================================

type newOpts struct {
	preset string
	title  string
	author string
	width  float64
	height float64
	units  string
	force  bool
}

// newCommand creates the "new" command.
func (c *CLI) newCommand() *cobra.Command {
	var opts newOpts
	cmd := &cobra.Command{
		Use:   "new <file>",
		Short: "Create a new document",
		Long: `Create a new document with one empty layer.

The canvas comes from --preset, from explicit --width/--height, or from the
configured default preset. See "drawkit presets" for the preset names.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runNew(cmd.Context(), args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.preset, "preset", "p", "", "canvas preset")
	cmd.Flags().StringVarP(&opts.title, "title", "t", document.DefaultNewTitle, "document title")
	cmd.Flags().StringVar(&opts.author, "author", "", "document author")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "canvas width")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "canvas height")
	cmd.Flags().StringVar(&opts.units, "units", string(document.Pixels), "canvas units: px, mm, in, pt, cm")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "overwrite an existing file")
	cmd.MarkFlagsMutuallyExclusive("preset", "width")
	cmd.MarkFlagsMutuallyExclusive("preset", "height")
	cmd.MarkFlagsRequiredTogether("width", "height")
	return cmd
}

func (c *CLI) runNew(ctx context.Context, path string, opts newOpts) error {
	logger := loggerFromContext(ctx)
	if err := derrors.ValidatePath(path); err != nil {
		return err
	}
	if fileExists(path) && !opts.force {
		return derrors.New(derrors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
	}

	author := opts.author
	if author == "" {
		author = c.Config.Document.Author
	}
	docOpts := []document.Option{document.WithTitle(opts.title), document.WithAuthor(author)}

	var doc *document.Document
	var err error
	switch preset := opts.preset; {
	case opts.width > 0 || opts.height > 0:
		units, uerr := document.ParseUnits(opts.units)
		if uerr != nil {
			return uerr
		}
		canvas, cerr := document.NewCanvasSize(opts.width, opts.height, units)
		if cerr != nil {
			return cerr
		}
		doc, err = document.New(append(docOpts, document.WithCanvas(canvas))...)
	case preset != "" || c.Config.Document.Preset != "":
		if preset == "" {
			preset = c.Config.Document.Preset
		}
		logger.Debug("using preset", "preset", preset)
		doc, err = document.FromPreset(preset, docOpts...)
	default:
		doc, err = document.New(docOpts...)
	}
	if err != nil {
		return err
	}

	if err := pkgio.ExportFile(doc, path); err != nil {
		return err
	}
	printSuccess("Created %s", StyleHighlight.Render(doc.Metadata.Title))
	printDetail("%s · %s", doc.Canvas, document.FirstLayerName)
	printFile(path)
	printNextStep("Inspect it", "drawkit info "+path)
	return nil
}

// =============================================================================
// info
// =============================================================================

// infoCommand creates the "info" command.
func (c *CLI) infoCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Show document statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			info := doc.Info()
			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			printInfoTable(info)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func printInfoTable(info document.Info) {
	fmt.Fprintln(stdout, StyleTitle.Render(info.Title))
	printKeyValue("ID", info.ID)
	printKeyValue("Canvas", info.CanvasSize)
	printKeyValue("Aspect ratio", strconv.FormatFloat(info.AspectRatio, 'f', -1, 64))
	printKeyValue("Layers", fmt.Sprintf("%d (%d visible)", info.TotalLayers, info.VisibleLayers))
	printKeyValue("Shapes", strconv.Itoa(info.TotalShapes))
	printKeyValue("Library shapes", strconv.Itoa(info.LibraryShapes))
	printKeyValue("Background", background(info.BackgroundTransparent))
	printKeyValue("Created", info.CreatedAt)
	printKeyValue("Modified", info.ModifiedAt)
	printKeyValue("Version", info.Version+" (app "+info.AppVersion+")")
}

func background(transparent bool) string {
	if transparent {
		return "transparent"
	}
	return "opaque"
}

// =============================================================================
// validate
// =============================================================================

// validateCommand creates the "validate" command.
func (c *CLI) validateCommand() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a document for problems",
		Long: `Check a document for problems.

Errors make the command fail. Warnings (empty layers, missing library shapes,
very large canvases) fail only with --strict.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			report := doc.Validate()
			printReport(report)
			switch {
			case !report.OK():
				return derrors.New(derrors.ErrCodeInvalidDocument, "%s: %d errors", args[0], len(report.Errors))
			case strict && len(report.Warnings) > 0:
				return derrors.New(derrors.ErrCodeInvalidDocument, "%s: %d warnings", args[0], len(report.Warnings))
			case len(report.Warnings) == 0:
				printSuccess("%s is valid", args[0])
			default:
				printSuccess("%s is valid with %d warnings", args[0], len(report.Warnings))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")
	return cmd
}

// =============================================================================
// Helpers
// =============================================================================

// loadDocument decodes the document at path, choosing the codec by extension.
func loadDocument(ctx context.Context, path string) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := newProgress(loggerFromContext(ctx))
	doc, err := pkgio.ImportFile(path)
	if err != nil {
		return nil, err
	}
	p.done(fmt.Sprintf("Loaded %s", path))
	return doc, nil
}

// fileExists reports whether path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
