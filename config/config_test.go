package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/labreport/layout"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "labreport.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultTemplateMatchesLayoutDefault(t *testing.T) {
	tpl, err := Default().Template()
	if err != nil {
		t.Fatalf("Template: %v", err)
	}
	want := layout.DefaultTemplate()
	if tpl.ColumnWidth != want.ColumnWidth || tpl.FooterReserve != want.FooterReserve {
		t.Fatalf("geometry differs: %+v", tpl)
	}
	if tpl.CellStyle.LineHeight != 10 || tpl.Columns != want.Columns || tpl.Title != want.Title {
		t.Fatalf("unexpected defaults: %+v", tpl)
	}
	if math.Abs(tpl.CellStyle.Size-want.CellStyle.Size) > 1e-9 {
		t.Fatalf("cell size %g want %g", tpl.CellStyle.Size, want.CellStyle.Size)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
assets:
  font: /opt/fonts/Amiri.ttf
  logo: ""
text:
  title: Lab Report
  columns: [Test, Result, Range]
typography:
  column_width: 6cm
  line_height: 1.5x
store:
  path: records.jsonl
log:
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Path != "records.jsonl" || cfg.LogLevel() != log.DebugLevel {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	tpl, err := cfg.Template()
	if err != nil {
		t.Fatalf("Template: %v", err)
	}
	if tpl.FontSrc != "/opt/fonts/Amiri.ttf" || tpl.Logo.Src != "" || tpl.FooterImage.Src != "static/footer.jpg" {
		t.Fatalf("assets not applied: %+v", tpl)
	}
	if tpl.Columns != [3]string{"Test", "Result", "Range"} || tpl.Title != "Lab Report" {
		t.Fatalf("text not applied: %+v", tpl.Columns)
	}
	if tpl.ColumnWidth != 60 {
		t.Fatalf("column width = %g", tpl.ColumnWidth)
	}
	if want := tpl.CellStyle.Size * 1.5; math.Abs(tpl.CellStyle.LineHeight-want) > 1e-9 {
		t.Fatalf("line height = %g want %g", tpl.CellStyle.LineHeight, want)
	}
}

func TestTemplateRejectsBadValues(t *testing.T) {
	for _, body := range []string{
		"text:\n  columns: [a, b]\n",
		"typography:\n  body_size: big\n",
		"typography:\n  line_height: tall\n",
		"text:\n  patient_line: \"${name} ${blood}\"\n",
		"text:\n  page_label: \"${page} / ${total}\"\n",
	} {
		cfg, err := Load(writeConfig(t, body))
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if _, err := cfg.Template(); err == nil {
			t.Fatalf("expected error for %q", body)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("/nonexistent/labreport.yaml"); err == nil || !strings.Contains(err.Error(), "read config") {
		t.Fatalf("got %v", err)
	}
	if _, err := Load(writeConfig(t, "assets: [")); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("got %v", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil || cfg.Assets.Font == "" {
		t.Fatalf("empty path: %v", err)
	}
	cfg, err = LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil || cfg.Text.Title != layout.DefaultTemplate().Title {
		t.Fatalf("missing file: %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "labreport.yaml")
	cfg := Default()
	cfg.Catalog = "catalog.lab"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	back, err := Load(path)
	if err != nil || back.Catalog != "catalog.lab" {
		t.Fatalf("round trip: %+v %v", back, err)
	}
}

func TestLoadCatalog(t *testing.T) {
	cat, err := Default().LoadCatalog()
	if err != nil || !cat.Has("RBS") {
		t.Fatalf("default catalog: %v", err)
	}
	path := filepath.Join(t.TempDir(), "mini.lab")
	if err := os.WriteFile(path, []byte("catalog Mini v1 {\n  test \"GLU\" \"70-100\"\n}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	cfg.Catalog = path
	cat, err = cfg.LoadCatalog()
	if err != nil || cat.Len() != 1 || !cat.Has("GLU") {
		t.Fatalf("file catalog: %v", err)
	}
}
