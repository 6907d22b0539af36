package layout

import (
	"errors"
	"testing"
)

func newTestTable(t *testing.T, tpl ReportTemplate, ts Typesetter) (*flowContext, *tableLayout) {
	t.Helper()
	ctx := newFlowContext(tpl, HeaderFooter{Height: 50}, FontResource{Name: BodyFont}, ts)
	table, err := newTableLayout(ctx, []string{"h1", "h2", "h3"})
	if err != nil {
		t.Fatalf("newTableLayout: %v", err)
	}
	if err := table.drawHeader(); err != nil {
		t.Fatalf("drawHeader: %v", err)
	}
	return ctx, table
}

// 三个单元格高度为 10/25/15 时，游标恰好前进 25，较短的单元格补齐空白块。
func TestRowHeightIsMaxOfCells(t *testing.T) {
	tpl := DefaultTemplate()
	tpl.CellStyle.LineHeight = 5
	ts := &stubTypesetter{lines: map[string]int{"a": 2, "b": 5, "c": 3}}
	ctx, table := newTestTable(t, tpl, ts)

	start := ctx.cursorY
	if err := table.layoutRow(0, "a", []string{"a", "b", "c"}); err != nil {
		t.Fatalf("layoutRow: %v", err)
	}
	if got := ctx.cursorY - start; got != 25 {
		t.Fatalf("游标前进 %g，期望 25", got)
	}

	row := table.table.Rows[len(table.table.Rows)-1]
	if row.Height != 25 || row.Y != start {
		t.Fatalf("row geometry = %+v", row)
	}
	wantUsed := []float64{10, 25, 15}
	wantPad := []float64{15, 0, 10}
	for i, c := range row.Cells {
		if c.Used != wantUsed[i] || c.Pad(row.Height) != wantPad[i] {
			t.Fatalf("cell %d: used=%g pad=%g", i, c.Used, c.Pad(row.Height))
		}
		if c.Text.Y != start {
			t.Fatalf("cell %d text y=%g want %g", i, c.Text.Y, start)
		}
	}
}

// 列按固定顺序从左到右排列，宽度相等。
func TestRowColumnsAreFixedWidthLeftToRight(t *testing.T) {
	tpl := DefaultTemplate()
	_, table := newTestTable(t, tpl, &stubTypesetter{})
	if err := table.layoutRow(0, "RBS", []string{"RBS", "90", "70-140 mg/dL"}); err != nil {
		t.Fatalf("layoutRow: %v", err)
	}
	row := table.table.Rows[1]
	x0 := (tpl.PageWidth - 3*tpl.ColumnWidth) / 2
	for i, c := range row.Cells {
		if c.Width != tpl.ColumnWidth || c.X != x0+float64(i)*tpl.ColumnWidth {
			t.Fatalf("cell %d at x=%g w=%g", i, c.X, c.Width)
		}
	}
	if row.Cells[0].Text.Content != "RBS" || row.Cells[2].Text.Content != "70-140 mg/dL" {
		t.Fatalf("unexpected column order: %+v", row.Cells)
	}
}

// 剩余空间不足时开新页、先重绘表头再放置整行。
func TestPageBreakRedrawsHeader(t *testing.T) {
	tpl := DefaultTemplate()
	ctx, table := newTestTable(t, tpl, &stubTypesetter{})
	bottom := tpl.BodyBottom()

	ctx.cursorY = bottom - 10 // 恰好能放下一行
	if err := table.layoutRow(0, "fits", []string{"a", "b", "c"}); err != nil {
		t.Fatalf("layoutRow: %v", err)
	}
	if ctx.collector.count() != 1 {
		t.Fatalf("恰好放得下的行不应触发分页")
	}

	if err := table.layoutRow(1, "next", []string{"a", "b", "c"}); err != nil {
		t.Fatalf("layoutRow: %v", err)
	}
	table.flush()
	if ctx.collector.count() != 2 {
		t.Fatalf("pages = %d, want 2", ctx.collector.count())
	}
	second := ctx.collector.accs[1].tables
	if len(second) != 1 || len(second[0].Rows) != 2 {
		t.Fatalf("第二页表格异常: %+v", second)
	}
	head, row := second[0].Rows[0], second[0].Rows[1]
	if !head.IsHeader || head.Y != ctx.collector.contentTop() {
		t.Fatalf("第二页首行应为表头: %+v", head)
	}
	if row.Y != head.Y+head.Height || row.Y+row.Height > bottom {
		t.Fatalf("行位置错误: y=%g h=%g", row.Y, row.Height)
	}
	first := ctx.collector.accs[0].tables
	if len(first) != 1 || len(first[0].Rows) != 2 {
		t.Fatalf("第一页应保留表头与一行数据: %+v", first)
	}
}

func TestOversizedRowIsOverflowError(t *testing.T) {
	tpl := DefaultTemplate()
	ts := &stubTypesetter{lines: map[string]int{"tall": 40}}
	_, table := newTestTable(t, tpl, ts)

	err := table.layoutRow(3, "X", []string{"x", "tall", "y"})
	var overflow *OverflowError
	if !errors.As(err, &overflow) {
		t.Fatalf("期望 OverflowError, got %v", err)
	}
	if overflow.Row != 3 || overflow.Test != "X" || overflow.Height != 400 {
		t.Fatalf("unexpected overflow: %+v", overflow)
	}
}
