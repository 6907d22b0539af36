package layout

// tableLayout 负责三列结果表：测量、分页与表头重绘。
// 列按 化验名/结果/参考范围 从左到右排列，不随阅读方向镜像。
type tableLayout struct {
	ctx          *flowContext
	x            float64
	widths       []float64
	labels       []string // 已整形的表头文字
	headerHeight float64
	table        *TableBox
	tableAcc     *pageAccumulator // table 所在的页面
}

func newTableLayout(ctx *flowContext, labels []string) (*tableLayout, error) {
	widths := make([]float64, len(ctx.tpl.Columns))
	for i := range widths {
		widths[i] = ctx.tpl.ColumnWidth
	}
	t := &tableLayout{
		ctx:    ctx,
		x:      ctx.tpl.tableX(),
		widths: widths,
		labels: labels,
	}
	head, err := t.buildRow(labels, ctx.tpl.HeaderStyle, true)
	if err != nil {
		return nil, err
	}
	t.headerHeight = head.Height
	return t, nil
}

func (t *tableLayout) width() float64 {
	w := 0.0
	for _, cw := range t.widths {
		w += cw
	}
	return w
}

// buildRow 测量每个单元格，行高取各单元格高度的最大值；Y 坐标留待 place 设置。
func (t *tableLayout) buildRow(texts []string, style TextStyle, header bool) (TableRow, error) {
	row := TableRow{IsHeader: header, Cells: make([]TableCell, len(t.widths))}
	pad := t.ctx.tpl.CellPadding
	x := t.x
	for i, w := range t.widths {
		content := ""
		if i < len(texts) {
			content = texts[i]
		}
		tb, err := composeTextBox(t.ctx.typesetter, content, style, t.ctx.font, x+pad, 0, w-2*pad, "")
		if err != nil {
			return TableRow{}, err
		}
		row.Cells[i] = TableCell{X: x, Width: w, Used: tb.Height, Text: tb}
		if tb.Height > row.Height {
			row.Height = tb.Height
		}
		x += w
	}
	if header && row.Height < t.ctx.tpl.HeaderHeight {
		row.Height = t.ctx.tpl.HeaderHeight
	}
	return row, nil
}

// place 将行及其单元格文本固定到 y。
func (r *TableRow) place(y float64) {
	r.Y = y
	for i := range r.Cells {
		r.Cells[i].Text.Y = y
	}
}

// drawHeader 在当前游标处开启新的表格片段并绘制表头。首页与分页后共用。
func (t *tableLayout) drawHeader() error {
	t.flush()
	head, err := t.buildRow(t.labels, t.ctx.tpl.HeaderStyle, true)
	if err != nil {
		return err
	}
	head.place(t.ctx.cursorY)
	t.table = &TableBox{
		X:            t.x,
		Y:            t.ctx.cursorY,
		Width:        t.width(),
		ColumnWidths: append([]float64(nil), t.widths...),
		Rows:         []TableRow{head},
		BorderColor:  t.ctx.tpl.BorderColor,
		HeaderFill:   t.ctx.tpl.HeaderFill,
	}
	t.tableAcc = t.ctx.acc()
	t.ctx.cursorY += head.Height
	return nil
}

// layoutRow 测量一行；放不下时先分页并重绘表头，然后把整行放在同一页上。
func (t *tableLayout) layoutRow(index int, test string, texts []string) error {
	row, err := t.buildRow(texts, t.ctx.tpl.CellStyle, false)
	if err != nil {
		return err
	}
	if available := t.ctx.bodyHeight() - t.headerHeight; row.Height > available {
		return &OverflowError{Row: index, Test: test, Height: row.Height, Available: available}
	}
	if !t.ctx.fits(row.Height) {
		t.ctx.pageBreak()
		if err := t.drawHeader(); err != nil {
			return err
		}
	}
	row.place(t.ctx.cursorY)
	t.table.Rows = append(t.table.Rows, row)
	t.ctx.cursorY += row.Height
	return nil
}

// flush 将当前表格片段写入它所在的页面。
func (t *tableLayout) flush() {
	if t.table == nil {
		return
	}
	t.tableAcc.appendTable(*t.table)
	t.table = nil
}
