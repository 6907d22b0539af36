package layout

import (
	"errors"
	"fmt"

	"github.com/ByLCY/labreport/binding"
	"github.com/ByLCY/labreport/lab"
	"github.com/ByLCY/labreport/shaping"
)

// ErrNoCatalog 表示布局时未提供化验目录。
var ErrNoCatalog = errors.New("layout: catalog is required")

// 图片资源名。
const (
	LogoImage   = "logo"
	FooterImage = "footer"
)

// BuildReport 将患者信息与按提交顺序排列的化验结果排成分页的三列表格。
// 每页都有页眉（logo、标题、患者信息行）、表头与页脚（图片、页码）。
// 任一化验名不在目录中时返回 *DataIntegrityError，且不产生任何页面。
func BuildReport(patient lab.Patient, rows []lab.Result, opts BuildOptions) (*Result, error) {
	if opts.Typesetter == nil {
		return nil, ErrNoTypesetter
	}
	if opts.Catalog == nil {
		return nil, ErrNoCatalog
	}
	tpl := opts.Template
	if tpl.PageWidth <= 0 || tpl.PageHeight <= 0 {
		tpl = DefaultTemplate()
	}
	shape := opts.Shape
	if shape == nil {
		shape = shaping.Shape
	}

	ranges, err := resolveRanges(rows, opts.Catalog)
	if err != nil {
		return nil, err
	}

	res := collectResources(tpl)
	font := res.Fonts[BodyFont]

	header, err := buildHeader(patient, tpl, font, opts.Typesetter, shape)
	if err != nil {
		return nil, err
	}
	ctx := newFlowContext(tpl, header, font, opts.Typesetter)

	labels := make([]string, len(tpl.Columns))
	for i, c := range tpl.Columns {
		labels[i] = shape(c)
	}
	table, err := newTableLayout(ctx, labels)
	if err != nil {
		return nil, err
	}
	if err := table.drawHeader(); err != nil {
		return nil, err
	}
	for i, r := range rows {
		cells := []string{shape(r.Test), shape(r.Value), shape(ranges[i])}
		if err := table.layoutRow(i, r.Test, cells); err != nil {
			return nil, err
		}
	}
	table.flush()

	pages, err := ctx.collector.pages(func(number int) (HeaderFooter, error) {
		return buildFooter(number, tpl, font, opts.Typesetter, shape)
	})
	if err != nil {
		return nil, err
	}

	meta := tpl.Meta
	if meta.Subject == "" {
		meta.Subject = patient.Name
	}
	return &Result{Pages: pages, Resources: res, Meta: meta}, nil
}

// resolveRanges 在排版之前解析全部参考范围，保证出错时不会产生半成品。
func resolveRanges(rows []lab.Result, catalog RangeLookup) ([]string, error) {
	out := make([]string, len(rows))
	for i, r := range rows {
		rng, ok := catalog.Range(r.Test)
		if !ok {
			return nil, &DataIntegrityError{Row: i, Test: r.Test}
		}
		out[i] = rng
	}
	return out, nil
}

func collectResources(tpl ReportTemplate) ResourceSet {
	res := ResourceSet{
		Fonts: map[string]FontResource{
			BodyFont: {Name: BodyFont, Src: tpl.FontSrc, Style: "regular"},
		},
		Images: map[string]ImageResource{},
	}
	if tpl.Logo.Src != "" {
		res.Images[LogoImage] = ImageResource{Name: LogoImage, Src: tpl.Logo.Src, Optional: true}
	}
	if tpl.FooterImage.Src != "" {
		res.Images[FooterImage] = ImageResource{Name: FooterImage, Src: tpl.FooterImage.Src, Optional: true}
	}
	return res
}

// buildHeader 生成每页相同的页眉；其高度即正文起始位置。
func buildHeader(patient lab.Patient, tpl ReportTemplate, font FontResource, ts Typesetter, shape func(string) string) (HeaderFooter, error) {
	var hf HeaderFooter
	if tpl.Logo.Src != "" {
		hf.Images = append(hf.Images, ImageBox{
			Name:   LogoImage,
			X:      tpl.Logo.X,
			Y:      tpl.Logo.Y,
			Width:  tpl.Logo.Width,
			Height: tpl.Logo.Height,
		})
	}

	x, width := tpl.Margin.Left, tpl.ContentWidth()
	title, err := composeTextBox(ts, shape(tpl.Title), tpl.TitleStyle, font, x, tpl.TitleY, width, "nowrap")
	if err != nil {
		return HeaderFooter{}, err
	}
	line, err := binding.InterpolateStrict(tpl.PatientLine, patient.Fields())
	if err != nil {
		return HeaderFooter{}, fmt.Errorf("patient line: %w", err)
	}
	y := title.Y + title.Height + tpl.HeaderGap
	info, err := composeTextBox(ts, shape(line), tpl.PatientStyle, font, x, y, width, "")
	if err != nil {
		return HeaderFooter{}, err
	}
	hf.Texts = []TextBox{title, info}
	hf.Height = info.Y + info.Height + tpl.HeaderGap
	return hf, nil
}

// buildFooter 生成第 number 页的页脚。
func buildFooter(number int, tpl ReportTemplate, font FontResource, ts Typesetter, shape func(string) string) (HeaderFooter, error) {
	hf := HeaderFooter{Height: tpl.FooterReserve}
	if tpl.FooterImage.Src != "" {
		hf.Images = append(hf.Images, ImageBox{
			Name:   FooterImage,
			X:      tpl.FooterImage.X,
			Y:      tpl.PageHeight - tpl.FooterImage.Y,
			Width:  tpl.FooterImage.Width,
			Height: tpl.FooterImage.Height,
		})
	}
	label, err := binding.InterpolateStrict(tpl.PageLabel, map[string]any{"page": number})
	if err != nil {
		return HeaderFooter{}, fmt.Errorf("page label: %w", err)
	}
	tb, err := composeTextBox(ts, shape(label), tpl.PageLabelStyle, font, tpl.Margin.Left, tpl.PageHeight-tpl.PageLabelY, tpl.ContentWidth(), "nowrap")
	if err != nil {
		return HeaderFooter{}, err
	}
	hf.Texts = append(hf.Texts, tb)
	return hf, nil
}
