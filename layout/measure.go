package layout

import (
	"errors"
	"strings"
)

// ErrNoTypesetter 表示布局时未提供排版后端。
var ErrNoTypesetter = errors.New("layout: typesetter is required")

// Measure 返回 content 在 width 宽的列中按 lineHeight 折行后占用的高度。
// 行的拆分完全由 ts 决定，渲染时使用同一个 ts，因此测量值与绘制时消耗的高度一致。
// 空字符串至少占一行；测量不受页面剩余高度约束。
func Measure(ts Typesetter, content string, width float64, font FontResource, fontSize, lineHeight float64, wrap string) (float64, error) {
	_, h, err := layoutLines(ts, content, width, font, fontSize, lineHeight, wrap)
	return h, err
}

// layoutLines 调用排版后端并补齐行高，返回行与总高度。
func layoutLines(ts Typesetter, content string, width float64, font FontResource, fontSize, lineHeight float64, wrap string) ([]TextLine, float64, error) {
	if ts == nil {
		return nil, 0, ErrNoTypesetter
	}
	if lineHeight <= 0 {
		lineHeight = fontSize * 1.4
	}
	lines, err := ts.LayoutLines(content, width, font, fontSize, lineHeight, wrap)
	if err != nil {
		return nil, 0, wrapRendering("measure", err)
	}
	if len(lines) == 0 {
		lines = []TextLine{{Content: "", Height: lineHeight}}
	}
	total := 0.0
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = lineHeight
		}
		if i == 0 {
			lines[i].GapBefore = 0
		}
		total += lines[i].GapBefore + lines[i].Height
	}
	return lines, total, nil
}

// composeTextBox 排版文本并生成定位好的 TextBox。
func composeTextBox(ts Typesetter, content string, style TextStyle, font FontResource, x, y, width float64, wrap string) (TextBox, error) {
	lines, height, err := layoutLines(ts, content, width, font, style.Size, style.LineHeight, wrap)
	if err != nil {
		return TextBox{}, err
	}
	return TextBox{
		Content:    content,
		X:          x,
		Y:          y,
		Width:      width,
		LineHeight: style.LineHeight,
		Font:       font.Name,
		FontSize:   style.Size,
		Color:      style.Color,
		Lines:      lines,
		Height:     height,
		Align:      normalizeAlign(style.Align),
		Wrap:       normalizeWrap(wrap),
	}, nil
}

func normalizeWrap(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "nowrap", "none":
		return "nowrap"
	default:
		return ""
	}
}

// normalizeAlign 支持 start/end 别名，默认 left（省略时不写入 JSON）。
func normalizeAlign(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "center", "middle":
		return "center"
	case "right", "end":
		return "right"
	default:
		return ""
	}
}
