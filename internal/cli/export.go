package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
	pkgio "github.com/matzehuels/drawkit/pkg/io"
	"github.com/matzehuels/drawkit/pkg/pipeline"
)

// exportOpts holds the flags of the export command.
type exportOpts struct {
	output      string
	formats     []string
	dpi         float64
	invisible   bool
	transparent bool
	detailed    bool
	force       bool
	noCache     bool
	refresh     bool
}

// exportCommand creates the "export" command.
func (c *CLI) exportCommand() *cobra.Command {
	var formatsStr string
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export a document to SVG, DOT, JSON or CBOR",
		Long: `Export a document.

Formats:
  svg       the drawing itself
  dot       Graphviz source of the layer tree
  tree-svg  the layer tree rendered by Graphviz
  json      canonical JSON encoding
  cbor      compact binary encoding

With one format, --output is the output file. With several, it is the base
path and each format adds its extension. Rendered artifacts are cached by
document content.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr, c.Config.Export.Formats)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if !cmd.Flags().Changed("dpi") {
				opts.dpi = c.Config.Export.DPI
			}
			if !cmd.Flags().Changed("invisible") {
				opts.invisible = c.Config.Export.IncludeInvisible
			}
			if !cmd.Flags().Changed("transparent") {
				opts.transparent = c.Config.Export.Transparent
			}
			return c.runExport(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (one format) or base path (several)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s), comma-separated: svg, dot, tree-svg, json, cbor")
	cmd.Flags().Float64Var(&opts.dpi, "dpi", 0, "override the document's export DPI")
	cmd.Flags().BoolVar(&opts.invisible, "invisible", false, "include hidden layers and shapes")
	cmd.Flags().BoolVar(&opts.transparent, "transparent", false, "omit the background")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "add z-index and shape counts to tree diagrams")
	cmd.Flags().BoolVar(&opts.force, "force", false, "export even when validation reports errors")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render instead of using cached artifacts")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, input string, opts exportOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Exporting "+filepath.Base(input)+"...")
	spinner.Start()
	result, err := runner.Execute(ctx, pipeline.Options{
		Input:            input,
		Formats:          opts.formats,
		DPI:              opts.dpi,
		IncludeInvisible: opts.invisible,
		Transparent:      opts.transparent,
		Detailed:         opts.detailed,
		Force:            opts.force,
		Refresh:          opts.refresh,
		Logger:           loggerFromContext(ctx),
	})
	spinner.Stop()
	if err != nil {
		if result != nil {
			printReport(result.Report)
		}
		return err
	}

	paths := outputPaths(input, opts.output, opts.formats)
	for _, format := range opts.formats {
		if samePath(paths[format], input) {
			return derrors.New(derrors.ErrCodeInvalidPath, "refusing to overwrite input %s", input)
		}
	}
	for _, format := range opts.formats {
		if err := writeFile(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}

	printSuccess("Exported %s", StyleHighlight.Render(result.Document.Metadata.Title))
	printDetail("%d layers · %d shapes", result.Stats.LayerCount, result.Stats.ShapeCount)
	printCacheStatus(opts.formats, result.CacheInfo.Hits)
	for _, format := range opts.formats {
		printFile(paths[format])
	}
	return nil
}

// outputPaths maps each format to its output file.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if base == "" {
		base = input
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, f := range formats {
		paths[f] = base + pipeline.Extension(f)
	}
	return paths
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func writeFile(path string, data []byte) error {
	if err := derrors.ValidatePath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return derrors.Wrap(derrors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}

// =============================================================================
// convert
// =============================================================================

// convertCommand creates the "convert" command.
func (c *CLI) convertCommand() *cobra.Command {
	var to string
	var force bool
	cmd := &cobra.Command{
		Use:   "convert <input> [output]",
		Short: "Convert a document between JSON and CBOR",
		Long: `Convert a document between JSON and CBOR.

The output encoding is taken from --to, else from the output extension
(.cbor and .dkb are CBOR). Without an output path the input's extension is
swapped.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			doc, err := loadDocument(cmd.Context(), input)
			if err != nil {
				return err
			}

			from := pkgio.FormatFromPath(input)
			var output string
			if len(args) == 2 {
				output = args[1]
			}
			format, err := convertTarget(from, to, output)
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + string(format)
			}
			if samePath(input, output) {
				return derrors.New(derrors.ErrCodeInvalidPath, "input and output are the same file")
			}
			if fileExists(output) && !force {
				return derrors.New(derrors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", output)
			}

			var buf bytes.Buffer
			if err := pkgio.Write(doc, &buf, format); err != nil {
				return err
			}
			if err := writeFile(output, buf.Bytes()); err != nil {
				return err
			}
			printSuccess("Converted %s → %s", from, format)
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "output encoding: json, cbor")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing output file")
	return cmd
}

// convertTarget picks the output encoding: explicit, from the output path,
// or the opposite of the input.
func convertTarget(from pkgio.Format, to, output string) (pkgio.Format, error) {
	switch {
	case to != "":
		return pkgio.ParseFormat(to)
	case output != "":
		return pkgio.FormatFromPath(output), nil
	case from == pkgio.FormatCBOR:
		return pkgio.FormatJSON, nil
	default:
		return pkgio.FormatCBOR, nil
	}
}
