package layout

// 该文件定义布局结果与资源描述，供布局计算、渲染与调试 JSON 共用。所有坐标与尺寸均为毫米。

// Result 保存布局后的页面与资源信息。
type Result struct {
	Pages     []Page       `json:"pages"`
	Resources ResourceSet  `json:"resources"`
	Meta      DocumentMeta `json:"meta"`
}

// ResourceSet 记录报告使用的字体与图片。
type ResourceSet struct {
	Fonts  map[string]FontResource  `json:"fonts"`
	Images map[string]ImageResource `json:"images"`
}

// FontResource 描述字体资源，src 可以是文件路径或 built-in:* 形式。
type FontResource struct {
	Name  string `json:"name"`
	Src   string `json:"src"`
	Style string `json:"style,omitempty"`
}

// ImageResource 记录图片资源；Optional 的图片缺失时直接跳过。
type ImageResource struct {
	Name     string `json:"name"`
	Src      string `json:"src"`
	Optional bool   `json:"optional"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Gray returns a neutral color with all channels set to v.
func Gray(v int) Color { return Color{R: v, G: v, B: v} }

// Page 记录页面尺寸、边距、页眉页脚与表格。页码从 1 开始。
type Page struct {
	Number int          `json:"number"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Margin Margin       `json:"margin"`
	Header HeaderFooter `json:"header"`
	Footer HeaderFooter `json:"footer"`
	Tables []TableBox   `json:"tables"`
}

// HeaderFooter 描述页眉/页脚区域的高度与元素集合。
type HeaderFooter struct {
	Height float64    `json:"height"`
	Texts  []TextBox  `json:"texts"`
	Images []ImageBox `json:"images"`
}

// Margin 以毫米为单位。
type Margin struct {
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
}

// TextBox 表示一个已经排好坐标的文本块，Content 为整形后的可视顺序文本。
type TextBox struct {
	Content    string     `json:"content"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	LineHeight float64    `json:"lineHeight"`
	Font       string     `json:"font"`
	FontSize   float64    `json:"fontSize"`
	Color      Color      `json:"color"`
	Lines      []TextLine `json:"lines"`
	Height     float64    `json:"height"`
	Align      string     `json:"align,omitempty"` // left/center/right，默认 left
	Wrap       string     `json:"wrap,omitempty"`  // anywhere(默认)/nowrap
}

// TextLine 表示排版后的一行文本内容及其宽高。
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
}

// ImageBox 引用 ResourceSet.Images 中的图片并给出其位置与尺寸。
// Height 为 0 时按图片宽高比计算。
type ImageBox struct {
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TableBox 是表格在某一页上的片段；跨页时每页一个片段，各自带表头行。
type TableBox struct {
	X            float64    `json:"x"`
	Y            float64    `json:"y"`
	Width        float64    `json:"width"`
	ColumnWidths []float64  `json:"columnWidths"`
	Rows         []TableRow `json:"rows"`
	BorderColor  Color      `json:"borderColor"`
	HeaderFill   Color      `json:"headerFill"`
}

// TableRow 记录每一行的高度与单元格。
type TableRow struct {
	Y        float64     `json:"y"`
	Height   float64     `json:"height"`
	IsHeader bool        `json:"isHeader"`
	Cells    []TableCell `json:"cells"`
}

// TableCell 的文本块占用 Used 高度，剩余的 row.Height-Used 由渲染器补一个空白边框块。
type TableCell struct {
	X     float64 `json:"x"`
	Width float64 `json:"width"`
	Used  float64 `json:"used"`
	Text  TextBox `json:"text"`
}

// Pad returns the height of the empty bordered block drawn under the cell's text.
func (c TableCell) Pad(rowHeight float64) float64 {
	if pad := rowHeight - c.Used; pad > 0 {
		return pad
	}
	return 0
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
