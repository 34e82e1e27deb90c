package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/drawkit/pkg/document"
	derrors "github.com/matzehuels/drawkit/pkg/errors"
	pkgio "github.com/matzehuels/drawkit/pkg/io"
	"github.com/matzehuels/drawkit/pkg/observability"
	"github.com/matzehuels/drawkit/pkg/shape"
)

// setupEnv points every XDG directory at a fresh temp dir and returns a
// working directory for test files.
func setupEnv(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Cleanup(observability.Reset)
	work := filepath.Join(root, "work")
	if err := os.MkdirAll(work, 0755); err != nil {
		t.Fatal(err)
	}
	return work
}

// runCLI executes the root command with args and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	old := stdout
	stdout = &out
	defer func() { stdout = old }()

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("drawkit %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestParseFormats(t *testing.T) {
	def := []string{"svg"}
	tests := []struct {
		in   string
		want string
	}{
		{"", "svg"},
		{"  ", "svg"},
		{"dot", "dot"},
		{"SVG, dot,,json", "svg,dot,json"},
	}
	for _, tt := range tests {
		if got := strings.Join(parseFormats(tt.in, def), ","); got != tt.want {
			t.Errorf("parseFormats(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		formats []string
		want    map[string]string
	}{
		{"default", "", []string{"svg"}, map[string]string{"svg": "art/poster.svg"}},
		{"single output", "out.svg", []string{"svg"}, map[string]string{"svg": "out.svg"}},
		{"base path", "build/p.svg", []string{"svg", "tree-svg"}, map[string]string{
			"svg": "build/p.svg", "tree-svg": "build/p.tree.svg",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths("art/poster.json", tt.output, tt.formats)
			for f, want := range tt.want {
				if got[f] != want {
					t.Errorf("path[%s] = %q, want %q", f, got[f], want)
				}
			}
		})
	}
}

func TestConvertTarget(t *testing.T) {
	tests := []struct {
		from   pkgio.Format
		to     string
		output string
		want   pkgio.Format
	}{
		{pkgio.FormatJSON, "", "", pkgio.FormatCBOR},
		{pkgio.FormatCBOR, "", "", pkgio.FormatJSON},
		{pkgio.FormatJSON, "", "copy.dkb", pkgio.FormatCBOR},
		{pkgio.FormatCBOR, "json", "copy.bin", pkgio.FormatJSON},
	}
	for _, tt := range tests {
		got, err := convertTarget(tt.from, tt.to, tt.output)
		if err != nil || got != tt.want {
			t.Errorf("convertTarget(%s, %q, %q) = %s, %v; want %s", tt.from, tt.to, tt.output, got, err, tt.want)
		}
	}
	if _, err := convertTarget(pkgio.FormatJSON, "yaml", ""); err == nil {
		t.Error("unknown --to should fail")
	}
}

func TestDocumentWorkflow(t *testing.T) {
	work := setupEnv(t)
	doc := filepath.Join(work, "poster.json")

	mustRun(t, "new", doc, "--preset", "print_a4", "--title", "Poster")
	if _, err := runCLI(t, "new", doc); !derrors.Is(err, derrors.ErrCodeInvalidInput) {
		t.Errorf("new over an existing file: err = %v", err)
	}

	var info document.Info
	if err := json.Unmarshal([]byte(mustRun(t, "info", doc, "--json")), &info); err != nil {
		t.Fatalf("info --json: %v", err)
	}
	if info.Title != "Poster" || info.CanvasSize != "210x297 mm" || info.TotalLayers != 1 {
		t.Errorf("info = %+v", info)
	}

	out := mustRun(t, "validate", doc)
	if !strings.Contains(out, "Document contains no shapes") || !strings.Contains(out, "valid with 2 warnings") {
		t.Errorf("validate output:\n%s", out)
	}
	if _, err := runCLI(t, "validate", doc, "--strict"); err == nil {
		t.Error("validate --strict should fail on warnings")
	}

	out = mustRun(t, "export", doc, "-f", "svg,dot")
	for _, ext := range []string{".svg", ".dot"} {
		if _, err := os.Stat(filepath.Join(work, "poster"+ext)); err != nil {
			t.Errorf("export did not write poster%s: %v", ext, err)
		}
	}
	if strings.Contains(out, "cached") {
		t.Errorf("first export should be fresh:\n%s", out)
	}
	if out = mustRun(t, "export", doc, "-f", "svg,dot"); !strings.Contains(out, "cached") {
		t.Errorf("second export should hit the cache:\n%s", out)
	}
	if _, err := runCLI(t, "export", doc, "-f", "json"); !derrors.Is(err, derrors.ErrCodeInvalidPath) {
		t.Errorf("exporting over the input: err = %v", err)
	}

	mustRun(t, "convert", doc)
	cbor := filepath.Join(work, "poster.cbor")
	converted, err := pkgio.ImportFile(cbor)
	if err != nil {
		t.Fatalf("convert output: %v", err)
	}
	if converted.Metadata.Title != "Poster" {
		t.Errorf("converted title = %q", converted.Metadata.Title)
	}
	if _, err := runCLI(t, "convert", doc); err == nil {
		t.Error("convert should refuse to overwrite without --force")
	}

	if out = mustRun(t, "tree", cbor); !strings.Contains(out, "Layer 1") {
		t.Errorf("tree output:\n%s", out)
	}
	if out = mustRun(t, "tree", doc, "--format", "dot"); !strings.HasPrefix(out, "digraph G {") {
		t.Errorf("tree --format dot output:\n%s", out)
	}
}

func TestNewWithCanvasFlags(t *testing.T) {
	work := setupEnv(t)
	path := filepath.Join(work, "card.json")
	mustRun(t, "new", path, "--width", "85", "--height", "55", "--units", "mm", "--author", "Ada")

	doc, err := pkgio.ImportFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Canvas.Units != document.Millimeters || doc.Canvas.Width != 85 {
		t.Errorf("canvas = %v", doc.Canvas)
	}
	if doc.Metadata.Author != "Ada" {
		t.Errorf("author = %q", doc.Metadata.Author)
	}

	if _, err := runCLI(t, "new", filepath.Join(work, "bad.json"), "--width", "10", "--height", "10", "--units", "ft"); err == nil {
		t.Error("unknown units should fail")
	}
}

func TestLibraryWorkflow(t *testing.T) {
	work := setupEnv(t)
	db := filepath.Join(work, "lib.db")

	src, err := document.New(document.WithTitle("Source"))
	if err != nil {
		t.Fatal(err)
	}
	logo, err := shape.New(shape.Circle{Radius: 12}, shape.WithID("logo"), shape.WithName("Logo"))
	if err != nil {
		t.Fatal(err)
	}
	if err := src.AddReference(src.Layers().ActiveLayer().ID(), logo); err != nil {
		t.Fatal(err)
	}
	srcPath := filepath.Join(work, "source.json")
	if err := pkgio.ExportFile(src, srcPath); err != nil {
		t.Fatal(err)
	}

	if out := mustRun(t, "library", "import", srcPath, "--db", db); !strings.Contains(out, "Imported 1 shapes") {
		t.Errorf("import output:\n%s", out)
	}
	out := mustRun(t, "library", "list", "--db", db)
	if !strings.Contains(out, "Logo") || !strings.Contains(out, "circle") {
		t.Errorf("list output:\n%s", out)
	}
	if out = mustRun(t, "library", "list", "--db", db, "--kind", "rectangle"); !strings.Contains(out, "Library is empty") {
		t.Errorf("list --kind output:\n%s", out)
	}

	dstPath := filepath.Join(work, "dest.json")
	mustRun(t, "new", dstPath)
	mustRun(t, "library", "use", dstPath, "logo", "--db", db, "--layer", document.FirstLayerName)
	dst, err := pkgio.ImportFile(dstPath)
	if err != nil {
		t.Fatal(err)
	}
	ref, ok := dst.Layers().ActiveLayer().Shape("logo")
	if !ok || !ref.IsReference() || !dst.Library().Has("logo") {
		t.Errorf("dest should reference logo from its library (ok=%v)", ok)
	}

	if _, err := runCLI(t, "library", "use", dstPath, "ghost", "--db", db); !derrors.Is(err, derrors.ErrCodeNotFound) {
		t.Errorf("use of a missing shape: err = %v", err)
	}

	mustRun(t, "library", "remove", "logo", "--db", db)
	if out = mustRun(t, "library", "list", "--db", db); !strings.Contains(out, "Library is empty") {
		t.Errorf("list after remove:\n%s", out)
	}
}

func TestLibraryPrune(t *testing.T) {
	work := setupEnv(t)
	doc, err := document.New()
	if err != nil {
		t.Fatal(err)
	}
	orphan, _ := shape.New(shape.Rectangle{Width: 4, Height: 4}, shape.WithID("orphan"))
	doc.Library().Put(orphan)
	path := filepath.Join(work, "doc.json")
	if err := pkgio.ExportFile(doc, path); err != nil {
		t.Fatal(err)
	}

	if out := mustRun(t, "library", "prune", path, "--dry-run"); !strings.Contains(out, "orphan") {
		t.Errorf("dry run output:\n%s", out)
	}
	mustRun(t, "library", "prune", path)
	back, err := pkgio.ImportFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Library().Len() != 0 {
		t.Errorf("library still holds %v", back.Library().IDs())
	}
}

func TestPresetsCommand(t *testing.T) {
	setupEnv(t)
	out := mustRun(t, "presets", "--dpi", "72")
	for _, want := range []string{"print_a4", "595x842", "social_instagram"} {
		if !strings.Contains(out, want) {
			t.Errorf("presets output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigAndCacheCommands(t *testing.T) {
	work := setupEnv(t)
	cfgPath := filepath.Join(work, "drawkit.toml")

	mustRun(t, "--config", cfgPath, "config", "init")
	if _, err := os.Stat(cfgPath); err != nil {
		t.Fatalf("config init did not write %s: %v", cfgPath, err)
	}
	if out := mustRun(t, "--config", cfgPath, "config", "show"); !strings.Contains(out, "[cache]") {
		t.Errorf("config show:\n%s", out)
	}
	if _, err := runCLI(t, "--config", cfgPath, "config", "init"); err == nil {
		t.Error("config init should refuse to overwrite")
	}

	if err := os.WriteFile(cfgPath, []byte("[export]\ndpi = -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "--config", cfgPath, "presets"); err == nil {
		t.Error("invalid config should fail every command")
	}

	cacheDir := strings.TrimSpace(mustRun(t, "cache", "path"))
	if !strings.HasSuffix(cacheDir, filepath.Join("cache", appName)) {
		t.Errorf("cache path = %q", cacheDir)
	}
	if out := mustRun(t, "cache", "clear"); !strings.Contains(out, "Cache is empty") {
		t.Errorf("clear of a missing cache:\n%s", out)
	}

	doc := filepath.Join(work, "d.json")
	mustRun(t, "new", doc)
	mustRun(t, "export", doc)
	if out := mustRun(t, "cache", "clear"); !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("cache clear output:\n%s", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	setupEnv(t)
	if out := mustRun(t, "completion", "bash"); !strings.Contains(out, "drawkit") {
		t.Error("bash completion should mention the command name")
	}
	if _, err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}
