package layout

// TextStyle 描述一类文本的字体、字号（毫米）、行高（毫米）、颜色与对齐方式。
type TextStyle struct {
	Font       string
	Size       float64
	LineHeight float64
	Color      Color
	Align      string
}

// ImagePlacement 描述页眉 logo 或页脚图片的位置；Src 为空表示不绘制。
type ImagePlacement struct {
	Src    string
	X      float64
	Y      float64 // 页脚图片的 Y 为距页面底部的距离
	Width  float64
	Height float64
}

// ReportTemplate 汇总报告版式的全部常量。
type ReportTemplate struct {
	PageWidth  float64
	PageHeight float64
	Margin     Margin
	// FooterReserve 是正文下方为页脚保留的高度，分页判定为 y+rowHeight > PageHeight-FooterReserve。
	FooterReserve float64

	FontSrc string

	Logo        ImagePlacement
	FooterImage ImagePlacement

	Title       string
	TitleY      float64
	PatientLine string // ${name} ${age} ${phone} ${date}
	HeaderGap   float64
	PageLabel   string // ${page}
	PageLabelY  float64

	Columns      [3]string
	ColumnWidth  float64
	TableX       float64 // 0 表示居中
	CellPadding  float64
	HeaderFill   Color
	BorderColor  Color
	HeaderHeight float64 // 表头行最小高度

	TitleStyle     TextStyle
	PatientStyle   TextStyle
	HeaderStyle    TextStyle
	CellStyle      TextStyle
	PageLabelStyle TextStyle

	Meta DocumentMeta
}

// BodyFont 是模板中所有文本默认使用的字体资源名。
const BodyFont = "Body"

// DefaultTemplate 返回 A4 竖版的默认报告版式。
func DefaultTemplate() ReportTemplate {
	cell := TextStyle{Font: BodyFont, Size: 11 * PtToMm, LineHeight: 10, Color: Color{}, Align: "center"}
	header := cell
	header.Size = 12 * PtToMm
	return ReportTemplate{
		PageWidth:     210,
		PageHeight:    297,
		Margin:        Margin{Top: 10, Right: 10, Bottom: 10, Left: 10},
		FooterReserve: 30,

		FontSrc: "fonts/Amiri-Regular.ttf",

		Logo:        ImagePlacement{Src: "static/logo.png", X: 10, Y: 10, Width: 150},
		FooterImage: ImagePlacement{Src: "static/footer.jpg", X: 10, Y: 30, Width: 200},

		Title:       "تقرير التحاليل المرضية",
		TitleY:      50,
		PatientLine: "الاسم: ${name}   العمر: ${age}   الهاتف: ${phone}   التاريخ: ${date}",
		HeaderGap:   5,
		PageLabel:   "الصفحة ${page}",
		PageLabelY:  15,

		Columns:      [3]string{"التحليل", "النتيجة", "القيمة الطبيعية"},
		ColumnWidth:  60,
		CellPadding:  1,
		HeaderFill:   Color{R: 200, G: 220, B: 255},
		BorderColor:  Color{},
		HeaderHeight: 10,

		TitleStyle:     TextStyle{Font: BodyFont, Size: 13 * PtToMm, LineHeight: 15, Align: "center"},
		PatientStyle:   TextStyle{Font: BodyFont, Size: 11 * PtToMm, LineHeight: 10, Align: "center"},
		HeaderStyle:    header,
		CellStyle:      cell,
		PageLabelStyle: TextStyle{Font: BodyFont, Size: 10 * PtToMm, LineHeight: 10, Color: Gray(100), Align: "center"},

		Meta: DocumentMeta{
			Title:    "Lab Report",
			Creator:  "labreport",
			Keywords: []string{"lab", "report"},
		},
	}
}

// ContentWidth returns the page width inside the left and right margins.
func (t ReportTemplate) ContentWidth() float64 {
	return t.PageWidth - t.Margin.Left - t.Margin.Right
}

// BodyBottom returns the lowest y a table row may reach.
func (t ReportTemplate) BodyBottom() float64 {
	return t.PageHeight - t.FooterReserve
}

func (t ReportTemplate) tableWidth() float64 {
	return t.ColumnWidth * float64(len(t.Columns))
}

func (t ReportTemplate) tableX() float64 {
	if t.TableX > 0 {
		return t.TableX
	}
	return (t.PageWidth - t.tableWidth()) / 2
}
