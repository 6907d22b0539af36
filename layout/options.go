package layout

// BuildOptions 配置布局阶段所需的依赖，例如排版后端与化验目录。
type BuildOptions struct {
	Typesetter Typesetter
	Catalog    RangeLookup
	Template   ReportTemplate
	// Shape 将逻辑顺序文本转为可视顺序；为空时使用 shaping.Shape。
	Shape func(string) string
}

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
// 每一行的 Height 为该行实际占用的高度（通常等于 lineHeight）。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error)
}

// RangeLookup 根据化验名返回参考范围。*catalog.Catalog 满足该接口。
type RangeLookup interface {
	Range(name string) (string, bool)
}
