package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/labreport/fonts"
	"github.com/ByLCY/labreport/lab"
)

const testConfig = `
assets:
  base_dir: %s
  font: built-in:go-regular
text:
  title: Lab Report
  patient_line: "Name: ${name}  Age: ${age}"
  page_label: "Page ${page}"
  columns: [Test, Result, Normal range]
store:
  path: %s
`

func setup(t *testing.T) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	cfgPath = filepath.Join(dir, "labreport.yaml")
	body := strings.Replace(testConfig, "%s", dir, 1)
	body = strings.Replace(body, "%s", filepath.Join(dir, "records.jsonl"), 1)
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, cfgPath
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(context.Background(), append([]string{"labreport"}, args...))
	return out.String(), err
}

func TestRenderSearchReprint(t *testing.T) {
	dir, cfgPath := setup(t)
	in := input{
		Patient: lab.Patient{Name: "Sample", Age: "30", Phone: "0000", Date: "2024-01-01"},
		Results: []lab.Result{{Test: "RBS", Value: "90"}, {Test: "T3", Value: "120"}},
	}
	data, _ := json.Marshal(in)
	inPath := filepath.Join(dir, "in.json")
	if err := os.WriteFile(inPath, data, 0o644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "out", "report.pdf")
	debugPath := filepath.Join(dir, "out", "layout.json")

	if _, err := runApp(t, "--config", cfgPath, "render", "--in", inPath, "--out", outPath, "--debug", debugPath); err != nil {
		t.Fatalf("render: %v", err)
	}
	pdf, err := os.ReadFile(outPath)
	if err != nil || !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Fatalf("expected a PDF at %s: %v", outPath, err)
	}
	if _, err := os.Stat(debugPath); err != nil {
		t.Fatalf("debug json missing: %v", err)
	}

	out, err := runApp(t, "--config", cfgPath, "search", "--name", "sample")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var rec lab.Record
	if err := json.Unmarshal([]byte(out), &rec); err != nil || rec.Patient.Phone != "0000" {
		t.Fatalf("unexpected search output %q: %v", out, err)
	}

	reprinted := filepath.Join(dir, "again.pdf")
	if _, err := runApp(t, "--config", cfgPath, "reprint", "--name", "Sample", "--out", reprinted); err != nil {
		t.Fatalf("reprint: %v", err)
	}
	if _, err := os.Stat(reprinted); err != nil {
		t.Fatalf("reprint output missing: %v", err)
	}
}

func TestRenderRejectsUnknownTest(t *testing.T) {
	dir, cfgPath := setup(t)
	inPath := filepath.Join(dir, "in.json")
	body := `{"patient":{"name":"A","age":"1","phone":"2","date":"2024-01-01"},"results":[{"test":"NOPE","value":"1"}]}`
	if err := os.WriteFile(inPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "never.pdf")
	if _, err := runApp(t, "--config", cfgPath, "render", "--in", inPath, "--out", outPath); err == nil {
		t.Fatalf("expected an error for an unknown test")
	}
	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Fatalf("no PDF should be written on failure")
	}
}

func TestCatalogCommand(t *testing.T) {
	_, cfgPath := setup(t)
	out, err := runApp(t, "--config", cfgPath, "catalog")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if !strings.Contains(out, "RBS\t70-140 mg/dL\n") {
		t.Fatalf("catalog output missing RBS: %q", out)
	}
}

func TestRenderWithRelativeBaseDir(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "assets", "fonts"), 0o755); err != nil {
		t.Fatal(err)
	}
	data, ok := fonts.Builtin("go-regular")
	if !ok {
		t.Fatal("builtin font go-regular not found")
	}
	if err := os.WriteFile(filepath.Join(root, "assets", "fonts", "body.ttf"), data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := `
assets:
  base_dir: assets
  font: fonts/body.ttf
text:
  title: Lab Report
  patient_line: "Name: ${name}"
  page_label: "Page ${page}"
  columns: [Test, Result, Normal range]
`
	if err := os.WriteFile(filepath.Join(root, "labreport.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	body := `{"patient":{"name":"A","age":"1","phone":"2","date":"2024-01-01"},"results":[{"test":"RBS","value":"90"}]}`
	if err := os.WriteFile(filepath.Join(root, "in.json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(root)

	if _, err := runApp(t, "--config", "labreport.yaml", "render", "--in", "in.json", "--out", "out.pdf"); err != nil {
		t.Fatalf("render with relative base_dir: %v", err)
	}
	pdf, err := os.ReadFile(filepath.Join(root, "out.pdf"))
	if err != nil || !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Fatalf("expected a PDF: %v", err)
	}
}

func TestExportCommand(t *testing.T) {
	dir, cfgPath := setup(t)
	outPath := filepath.Join(dir, "records.csv")
	if _, err := runApp(t, "--config", cfgPath, "export", "--out", outPath); err == nil {
		t.Fatalf("export with no records should fail")
	}
	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Fatalf("no CSV should be written without records")
	}

	for _, name := range []string{"Sample", "Other"} {
		in := input{
			Patient: lab.Patient{Name: name, Age: "30", Phone: "0000", Date: "2024-01-01"},
			Results: []lab.Result{{Test: "RBS", Value: "90"}},
		}
		data, _ := json.Marshal(in)
		inPath := filepath.Join(dir, name+".json")
		if err := os.WriteFile(inPath, data, 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := runApp(t, "--config", cfgPath, "render", "--in", inPath, "--out", filepath.Join(dir, name+".pdf")); err != nil {
			t.Fatalf("render %s: %v", name, err)
		}
	}

	if _, err := runApp(t, "--config", cfgPath, "export", "--out", outPath); err != nil {
		t.Fatalf("export: %v", err)
	}
	rows, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(rows)), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "name,age,phone,date,") {
		t.Fatalf("unexpected CSV:\n%s", rows)
	}
	if !strings.HasPrefix(lines[1], "Sample,") || !strings.HasPrefix(lines[2], "Other,") {
		t.Fatalf("records out of order:\n%s", rows)
	}

	out, err := runApp(t, "--config", cfgPath, "export", "--out", "-")
	if err != nil || out != string(rows) {
		t.Fatalf("stdout export differs: %v\n%s", err, out)
	}
}
