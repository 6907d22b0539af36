package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/labreport/layout"
	"github.com/ByLCY/labreport/logging"
	"github.com/ByLCY/labreport/renderer"
)

const tableBorderWidth = 0.2

// Renderer draws layout results via github.com/tdewolff/canvas.
// Render 与 LayoutLines 不持有逐次调用的状态，只缓存已解析的字体族。
type Renderer struct {
	baseDir string
	logger  *log.Logger

	// injected resources
	fontBlobs  map[string][]byte // by unique name
	imageBlobs map[string][]byte // by unique name

	fontMu       sync.Mutex
	fontFamilies map[string]*fontFamilyEntry
}

var (
	_ renderer.TypesettingRenderer = (*Renderer)(nil)
	_ layout.Typesetter            = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // built-in fonts accessible via built-in:<name>
	Images  map[string]Resource // built-in images accessible via built-in:<name>
	Logger  *log.Logger
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving assets.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		logger:       opts.Logger,
		fontBlobs:    ingest(opts.Fonts),
		imageBlobs:   ingest(opts.Images),
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	if r.logger == nil {
		r.logger = logging.Logger(logging.SourceRender)
	}
	return r
}

// ingest 读取注入的资源；路径读取失败的资源被忽略，实际使用时再报告缺失。
func ingest(in map[string]Resource) map[string][]byte {
	out := map[string][]byte{}
	for name, res := range in {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			out[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			if data, err := os.ReadFile(res.Path); err == nil && len(data) > 0 {
				out[name] = data
			}
		}
	}
	return out
}

// Render renders the result into a PDF byte slice.
// 任何失败都返回错误且不返回部分 PDF；字体问题为 *layout.RenderingAssetError，其余为 *layout.RenderingError。
func (r *Renderer) Render(result *layout.Result) (out []byte, err error) {
	if result == nil {
		return nil, &layout.RenderingError{Op: "render", Err: fmt.Errorf("渲染结果为空")}
	}
	if len(result.Pages) == 0 {
		return nil, &layout.RenderingError{Op: "render", Err: fmt.Errorf("缺少可渲染的页面")}
	}
	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = &layout.RenderingError{Op: "render", Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	r.applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.drawPage(ctx, page, result.Resources); err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, &layout.RenderingError{Op: "write pdf", Err: err}
	}
	r.logger.Debug("rendered report", "pages", len(result.Pages), "bytes", buf.Len())
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page, resources layout.ResourceSet) error {
	// 页眉：图片在下，文字在上
	if err := r.drawImages(ctx, page.Header.Images, resources.Images); err != nil {
		return err
	}
	if err := r.drawTexts(ctx, page.Header.Texts, resources.Fonts); err != nil {
		return err
	}

	if err := r.drawTables(ctx, page.Tables, resources.Fonts); err != nil {
		return err
	}

	if err := r.drawImages(ctx, page.Footer.Images, resources.Images); err != nil {
		return err
	}
	return r.drawTexts(ctx, page.Footer.Texts, resources.Fonts)
}

func (r *Renderer) drawTexts(ctx *canvas.Context, texts []layout.TextBox, fonts map[string]layout.FontResource) error {
	for _, tb := range texts {
		if _, err := r.drawTextBox(ctx, tb, resolveFontResource(tb.Font, fonts)); err != nil {
			return err
		}
	}
	return nil
}

// drawTextBox 逐行绘制文本，基线在行框内垂直居中；返回实际消耗的高度。
func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox, fontRes layout.FontResource) (float64, error) {
	// TextBox 的坐标/字号/行高均为 mm；创建字体面需要 pt，这里做一次 mm→pt。
	face, err := r.fontFace(fontRes, toPt(tb.FontSize), tb.Color)
	if err != nil {
		return 0, err
	}

	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content, Width: tb.Width, Height: tb.LineHeight}}
	}

	var textAlign canvas.TextAlign
	var anchorX float64
	switch strings.ToLower(tb.Align) {
	case "center":
		textAlign = canvas.Center
		anchorX = tb.X + tb.Width/2
	case "right", "end":
		textAlign = canvas.Right
		anchorX = tb.X + tb.Width
	default:
		textAlign = canvas.Left
		anchorX = tb.X
	}

	metrics := face.Metrics()
	glyphHeight := metrics.Ascent + math.Abs(metrics.Descent)
	cursorY := tb.Y
	for _, line := range lines {
		cursorY += line.GapBefore
		lineHeight := line.Height
		if lineHeight <= 0 {
			lineHeight = tb.LineHeight
		}
		if line.Content != "" {
			baseline := cursorY + (lineHeight-glyphHeight)/2 + metrics.Ascent
			ctx.DrawText(anchorX, baseline, canvas.NewTextLine(face, line.Content, textAlign))
		}
		cursorY += lineHeight
	}
	return cursorY - tb.Y, nil
}

func (r *Renderer) drawImages(ctx *canvas.Context, boxes []layout.ImageBox, images map[string]layout.ImageResource) error {
	for _, box := range boxes {
		img, err := r.imageFor(box.Name, images)
		if err != nil {
			return err
		}
		if img == nil {
			continue
		}
		width := box.Width
		px := float64(img.Bounds().Dx())
		if width <= 0 {
			width = px / 4.0
		}
		if width <= 0 || px <= 0 {
			continue
		}
		ctx.DrawImage(box.X, box.Y, img, canvas.DPMM(px/width))
	}
	return nil
}

// drawTables 绘制带边框的单元格：文本块一格，其下补齐 row.Height-Used 的空白格，保证同一行等高。
func (r *Renderer) drawTables(ctx *canvas.Context, tables []layout.TableBox, fonts map[string]layout.FontResource) error {
	transparent := color.RGBA{0, 0, 0, 0}
	for _, table := range tables {
		ctx.SetStrokeColor(colorFromLayout(table.BorderColor))
		ctx.SetStrokeWidth(tableBorderWidth)
		for _, row := range table.Rows {
			for _, cell := range row.Cells {
				if row.IsHeader {
					ctx.SetFillColor(colorFromLayout(table.HeaderFill))
					ctx.DrawPath(cell.X, row.Y, canvas.Rectangle(cell.Width, row.Height))
				} else {
					ctx.SetFillColor(transparent)
					ctx.DrawPath(cell.X, row.Y, canvas.Rectangle(cell.Width, cell.Used))
					if pad := cell.Pad(row.Height); pad > 0 {
						ctx.DrawPath(cell.X, row.Y+cell.Used, canvas.Rectangle(cell.Width, pad))
					}
				}
				if _, err := r.drawTextBox(ctx, cell.Text, resolveFontResource(cell.Text.Font, fonts)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
