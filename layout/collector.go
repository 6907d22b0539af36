package layout

// pageAccumulator 收集单页上的表格片段。
type pageAccumulator struct {
	tables []TableBox
}

func (p *pageAccumulator) appendTable(t TableBox) {
	p.tables = append(p.tables, t)
}

// pageCollector 持有一次布局调用内的全部分页状态，不在调用之间共享。
type pageCollector struct {
	tpl     ReportTemplate
	header  HeaderFooter
	accs    []*pageAccumulator
	current int
}

func newPageCollector(tpl ReportTemplate, header HeaderFooter) *pageCollector {
	pc := &pageCollector{tpl: tpl, header: header}
	pc.newPage()
	return pc
}

func (pc *pageCollector) newPage() *pageAccumulator {
	acc := &pageAccumulator{}
	pc.accs = append(pc.accs, acc)
	pc.current = len(pc.accs) - 1
	return acc
}

func (pc *pageCollector) curr() *pageAccumulator {
	if len(pc.accs) == 0 {
		return pc.newPage()
	}
	return pc.accs[pc.current]
}

// contentTop = max(上边距, 页眉高度)
func (pc *pageCollector) contentTop() float64 {
	if pc.header.Height > pc.tpl.Margin.Top {
		return pc.header.Height
	}
	return pc.tpl.Margin.Top
}

// contentBottom 为页脚保留区域之上的位置。
func (pc *pageCollector) contentBottom() float64 {
	return pc.tpl.BodyBottom()
}

func (pc *pageCollector) count() int { return len(pc.accs) }

// pages 生成最终页面，footer 按页码逐页构建。
func (pc *pageCollector) pages(footer func(number int) (HeaderFooter, error)) ([]Page, error) {
	out := make([]Page, len(pc.accs))
	for i, acc := range pc.accs {
		f, err := footer(i + 1)
		if err != nil {
			return nil, err
		}
		out[i] = Page{
			Number: i + 1,
			Width:  pc.tpl.PageWidth,
			Height: pc.tpl.PageHeight,
			Margin: pc.tpl.Margin,
			Header: pc.header,
			Footer: f,
			Tables: acc.tables,
		}
	}
	return out, nil
}

// flowContext 记录纵向游标；分页只会通过 pageBreak 发生。
type flowContext struct {
	cursorY    float64
	typesetter Typesetter
	font       FontResource
	tpl        ReportTemplate
	collector  *pageCollector
}

func newFlowContext(tpl ReportTemplate, header HeaderFooter, font FontResource, ts Typesetter) *flowContext {
	pc := newPageCollector(tpl, header)
	return &flowContext{
		cursorY:    pc.contentTop(),
		typesetter: ts,
		font:       font,
		tpl:        tpl,
		collector:  pc,
	}
}

// fits 判断高度为 height 的块能否放在当前游标处而不侵入页脚保留区。
func (ctx *flowContext) fits(height float64) bool {
	return ctx.cursorY+height <= ctx.collector.contentBottom()
}

// bodyHeight 返回一页正文区域的总高度。
func (ctx *flowContext) bodyHeight() float64 {
	return ctx.collector.contentBottom() - ctx.collector.contentTop()
}

func (ctx *flowContext) pageBreak() {
	ctx.collector.newPage()
	ctx.cursorY = ctx.collector.contentTop()
}

func (ctx *flowContext) acc() *pageAccumulator {
	return ctx.collector.curr()
}
