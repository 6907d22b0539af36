package canvasrenderer

import (
	"math"
	"strings"
	"unicode"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/labreport/layout"
)

// LayoutLines 实现 layout.Typesetter 接口，使用贪心换行算法。
// 约定：width/fontSize/lineHeight 入参均为毫米（mm），每一行占用 lineHeight 的高度。
// 渲染时按同样的行绘制，因此测量高度与绘制高度一致。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize, lineHeight float64, wrap string) ([]layout.TextLine, error) {
	face, err := r.fontFace(font, toPt(fontSize), layout.Color{})
	if err != nil {
		return nil, err
	}
	if lineHeight <= 0 {
		lineHeight = face.Metrics().LineHeight
	}
	lines := greedyWrapTokens(content, width, face, wrap)
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: ""}}
	}
	for i := range lines {
		lines[i].Height = lineHeight
		lines[i].GapBefore = 0
	}
	return lines, nil
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }

// widthMeasurer 抽象出 TextWidth，便于在测试中替换字体。
type widthMeasurer interface {
	TextWidth(string) float64
}

var _ widthMeasurer = (*canvas.FontFace)(nil)

func greedyWrapTokens(content string, width float64, face widthMeasurer, wrap string) []layout.TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	// nowrap：仅按显式换行划分，不基于宽度折行
	if wrap == "nowrap" {
		parts := strings.Split(strings.ReplaceAll(content, "\r", ""), "\n")
		lines := make([]layout.TextLine, 0, len(parts))
		for _, p := range parts {
			lines = append(lines, layout.TextLine{Content: p, Width: face.TextWidth(p)})
		}
		return lines
	}

	// 默认：优先在空白处分割，超过限制时在词内拆分
	tokens := tokenizeContent(content)
	var lines []layout.TextLine
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, layout.TextLine{Content: "", Width: 0})
			}
			return
		}
		lineStr := strings.TrimRightFunc(builder.String(), unicode.IsSpace)
		lines = append(lines, layout.TextLine{
			Content: lineStr,
			Width:   face.TextWidth(lineStr),
		})
		builder.Reset()
		currentWidth = 0
	}

	appendToken := func(token string) {
		builder.WriteString(token)
		currentWidth += face.TextWidth(token)
	}

	for _, token := range tokens {
		if token == "\n" {
			emit(true)
			continue
		}
		isSpace := strings.TrimSpace(token) == ""
		tokenWidth := face.TextWidth(token)
		if currentWidth > 0 && currentWidth+tokenWidth > limit {
			emit(false)
			if isSpace {
				continue // 行首不保留空白
			}
		}
		if tokenWidth <= limit {
			if isSpace && builder.Len() == 0 && len(lines) > 0 {
				continue
			}
			appendToken(token)
			continue
		}

		for _, chunk := range splitTokenByWidth(token, limit, face) {
			chunkWidth := face.TextWidth(chunk)
			if currentWidth > 0 && currentWidth+chunkWidth > limit {
				emit(false)
			}
			appendToken(chunk)
		}
	}

	emit(len(lines) == 0 || builder.Len() > 0)
	return lines
}

func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

// splitTokenByWidth 将超宽的词按字符拆成不超过 limit 的片段（每段至少一个字符）。
func splitTokenByWidth(token string, limit float64, face widthMeasurer) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var current []rune
	for _, r := range token {
		current = append(current, r)
		if len(current) > 1 && face.TextWidth(string(current)) > limit {
			parts = append(parts, string(current[:len(current)-1]))
			current = []rune{r}
		}
	}
	if len(current) > 0 {
		parts = append(parts, string(current))
	}
	return parts
}
