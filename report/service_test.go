package report

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ByLCY/labreport/catalog"
	"github.com/ByLCY/labreport/lab"
	"github.com/ByLCY/labreport/layout"
	"github.com/ByLCY/labreport/records"
	canvasrenderer "github.com/ByLCY/labreport/renderer/canvas"
)

// fakeRenderer 每段文本排成一行，Render 返回固定字节。
type fakeRenderer struct {
	err      error
	rendered int
}

func (f *fakeRenderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize, lineHeight float64, wrap string) ([]layout.TextLine, error) {
	return []layout.TextLine{{Content: content, Width: width, Height: lineHeight}}, nil
}

func (f *fakeRenderer) Render(res *layout.Result) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.rendered++
	return []byte("%PDF-fake"), nil
}

var fixedNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T, r *fakeRenderer, store records.Store) *Service {
	t.Helper()
	s, err := NewService(Options{
		Renderer: r,
		Catalog:  catalog.Default(),
		Store:    store,
		Now:      func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return s
}

func sample() lab.Patient {
	return lab.Patient{Name: "Sample", Age: "30", Phone: "0000", Date: "2024-01-01"}
}

func TestGenerateAppendsRecord(t *testing.T) {
	store := records.NewMemoryStore()
	s := newService(t, &fakeRenderer{}, store)
	ctx := context.Background()

	doc, err := s.Generate(ctx, sample(), []lab.Result{{Test: "RBS", Value: "90"}, {Test: "T3", Value: "120"}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if doc.FileName != "Sample_report.pdf" || doc.Pages != 1 || !bytes.Equal(doc.PDF, []byte("%PDF-fake")) {
		t.Fatalf("unexpected document: %+v", doc)
	}
	rec, err := s.Search(ctx, " sample ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(rec.Results) != 2 || !rec.CreatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestGenerateFillsTodayAndValidates(t *testing.T) {
	s := newService(t, &fakeRenderer{}, nil)
	ctx := context.Background()

	p := sample()
	p.Date = ""
	if _, err := s.Generate(ctx, p, nil); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	rec, _ := s.Search(ctx, "Sample")
	if rec.Patient.Date != "2024-01-01" {
		t.Fatalf("date = %q", rec.Patient.Date)
	}

	p.Phone = " "
	if _, err := s.Generate(ctx, p, nil); !errors.Is(err, lab.ErrMissingField) {
		t.Fatalf("got %v", err)
	}
}

// 失败的生成不留下记录。
func TestGenerateFailureStoresNothing(t *testing.T) {
	store := records.NewMemoryStore()
	ctx := context.Background()

	s := newService(t, &fakeRenderer{}, store)
	_, err := s.Generate(ctx, sample(), []lab.Result{{Test: "UNKNOWN", Value: "1"}})
	var dataErr *layout.DataIntegrityError
	if !errors.As(err, &dataErr) {
		t.Fatalf("expected DataIntegrityError, got %v", err)
	}

	boom := &layout.RenderingError{Op: "render", Err: errors.New("boom")}
	s = newService(t, &fakeRenderer{err: boom}, store)
	if _, err := s.Generate(ctx, sample(), []lab.Result{{Test: "RBS", Value: "90"}}); !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}

	all, _ := store.All(ctx)
	if len(all) != 0 {
		t.Fatalf("failed generations stored %d records", len(all))
	}
}

func TestReprintUsesLatestRecord(t *testing.T) {
	r := &fakeRenderer{}
	store := records.NewMemoryStore()
	s := newService(t, r, store)
	ctx := context.Background()

	if _, err := s.Reprint(ctx, "Sample"); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("got %v", err)
	}
	_, _ = s.Generate(ctx, sample(), []lab.Result{{Test: "RBS", Value: "90"}})
	_, _ = s.Generate(ctx, sample(), []lab.Result{{Test: "RBS", Value: "95"}, {Test: "T4", Value: "7"}})

	doc, err := s.Reprint(ctx, "SAMPLE")
	if err != nil {
		t.Fatalf("Reprint: %v", err)
	}
	rows := doc.Layout.Pages[0].Tables[0].Rows
	if len(rows) != 3 || rows[1].Cells[1].Text.Content != "95" {
		t.Fatalf("reprint did not use the latest record")
	}
	all, _ := store.All(ctx)
	if len(all) != 2 {
		t.Fatalf("reprint must not append, got %d records", len(all))
	}
}

func TestExportUsesCatalogOrder(t *testing.T) {
	s := newService(t, &fakeRenderer{}, records.NewMemoryStore())
	ctx := context.Background()

	var buf bytes.Buffer
	if _, err := s.Export(ctx, &buf); !errors.Is(err, records.ErrNotFound) || buf.Len() != 0 {
		t.Fatalf("empty store: got %v, %q", err, buf.String())
	}
	_, _ = s.Generate(ctx, sample(), []lab.Result{{Test: "T3", Value: "120"}, {Test: "RBS", Value: "90"}})

	n, err := s.Export(ctx, &buf)
	if err != nil || n != 1 {
		t.Fatalf("Export = %d, %v", n, err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	header := strings.Join(append([]string{"name", "age", "phone", "date"}, catalog.Default().Names()...), ",")
	if len(lines) != 2 || lines[0] != header {
		t.Fatalf("unexpected export:\n%s", buf.String())
	}
	if !strings.HasPrefix(lines[1], "Sample,30,0000,2024-01-01,") {
		t.Fatalf("unexpected row %q", lines[1])
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(Options{Catalog: catalog.Default()}); !errors.Is(err, ErrNoRenderer) {
		t.Fatalf("got %v", err)
	}
	if _, err := NewService(Options{Renderer: &fakeRenderer{}}); !errors.Is(err, layout.ErrNoCatalog) {
		t.Fatalf("got %v", err)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct{ name, want string }{
		{"Sample", "Sample_report.pdf"},
		{"  John Smith ", "John_Smith_report.pdf"},
		{"../../etc/passwd", "etcpasswd_report.pdf"},
		{"أحمد علي", "أحمد_علي_report.pdf"},
		{"", "patient_report.pdf"},
		{"///", "patient_report.pdf"},
	}
	for _, tc := range tests {
		if got := FileName(lab.Patient{Name: tc.name}); got != tc.want {
			t.Fatalf("FileName(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestServiceWithCanvasRenderer(t *testing.T) {
	tpl := layout.DefaultTemplate()
	tpl.FontSrc = "built-in:go-regular"
	tpl.Title = "Lab Report"
	tpl.PatientLine = "Name: ${name}  Age: ${age}"
	tpl.PageLabel = "Page ${page}"
	tpl.Columns = [3]string{"Test", "Result", "Normal range"}

	s, err := NewService(Options{
		Renderer: canvasrenderer.NewRenderer(t.TempDir()),
		Catalog:  catalog.Default(),
		Template: tpl,
	})
	if err != nil {
		t.Fatal(err)
	}
	names := catalog.Default().Names()
	rows := make([]lab.Result, 120)
	for i := range rows {
		rows[i] = lab.Result{Test: names[i%len(names)], Value: "1"}
	}
	doc, err := s.Generate(context.Background(), sample(), rows)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if doc.Pages < 2 || !bytes.HasPrefix(doc.PDF, []byte("%PDF-")) {
		t.Fatalf("unexpected document: pages=%d", doc.Pages)
	}
}
