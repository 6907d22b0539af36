package renderer

import "github.com/ByLCY/labreport/layout"

// Renderer 将布局结果输出为最终文件，例如 PDF。
// Render 返回完整的文件字节；失败时不返回任何部分数据。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// TypesettingRenderer 同时提供排版能力，布局与绘制共用同一套字体度量。
type TypesettingRenderer interface {
	Renderer
	layout.Typesetter
}
