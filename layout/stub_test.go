package layout

import (
	"testing"

	"github.com/ByLCY/labreport/catalog"
	"github.com/ByLCY/labreport/lab"
)

// stubTypesetter 按内容返回预设行数，每行高度等于 lineHeight；未登记的非空文本占一行。
// 仅用于测试，避免引入 renderer 造成循环依赖。
type stubTypesetter struct {
	lines map[string]int
	err   error
	calls int
}

func (s *stubTypesetter) LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	n, ok := s.lines[content]
	if !ok {
		if content == "" {
			return nil, nil
		}
		n = 1
	}
	out := make([]TextLine, n)
	for i := range out {
		out[i] = TextLine{Content: content, Width: width, Height: lineHeight}
	}
	return out, nil
}

func identity(s string) string { return s }

func samplePatient() lab.Patient {
	return lab.Patient{Name: "Sample", Age: "30", Phone: "0000", Date: "2024-01-01"}
}

func buildSample(t *testing.T, ts Typesetter, rows []lab.Result) *Result {
	t.Helper()
	res, err := BuildReport(samplePatient(), rows, BuildOptions{
		Typesetter: ts,
		Catalog:    catalog.Default(),
		Template:   DefaultTemplate(),
	})
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	return res
}

func dataRows(tb TableBox) []TableRow {
	var out []TableRow
	for _, r := range tb.Rows {
		if !r.IsHeader {
			out = append(out, r)
		}
	}
	return out
}
