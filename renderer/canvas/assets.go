package canvasrenderer

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/canvas"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/labreport/fonts"
	"github.com/ByLCY/labreport/layout"
)

// AssetStatus 区分可选资源的加载结果，缺失与损坏在日志中分开记录。
type AssetStatus int

const (
	AssetLoaded AssetStatus = iota
	AssetMissing
	AssetCorrupt
)

func (s AssetStatus) String() string {
	switch s {
	case AssetLoaded:
		return "loaded"
	case AssetMissing:
		return "missing"
	case AssetCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

const builtinPrefix = "built-in:"

func trimBuiltin(src string) (string, bool) {
	for _, p := range []string{builtinPrefix, "builtin:"} {
		if strings.HasPrefix(src, p) {
			return strings.TrimPrefix(src, p), true
		}
	}
	return "", false
}

func (r *Renderer) resolvePath(src string) string {
	if filepath.IsAbs(src) || r.baseDir == "" {
		return src
	}
	return filepath.Join(r.baseDir, src)
}

// loadImage 读取并解码图片。返回的状态仅在 err 非空时有意义。
func (r *Renderer) loadImage(res layout.ImageResource) (image.Image, AssetStatus, error) {
	var data []byte
	if name, ok := trimBuiltin(res.Src); ok {
		blob, found := r.imageBlobs[name]
		if !found {
			return nil, AssetMissing, fmt.Errorf("找不到内置图片资源 %s%s", builtinPrefix, name)
		}
		data = blob
	} else {
		if res.Src == "" {
			return nil, AssetMissing, errors.New("图片缺少 src")
		}
		blob, err := os.ReadFile(r.resolvePath(res.Src))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, AssetMissing, err
			}
			return nil, AssetCorrupt, err
		}
		data = blob
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, AssetCorrupt, fmt.Errorf("解码图片 %s 失败: %w", res.Src, err)
	}
	return img, AssetLoaded, nil
}

// imageFor 返回可绘制的图片；可选图片加载失败时记录日志并返回 nil。
func (r *Renderer) imageFor(name string, images map[string]layout.ImageResource) (image.Image, error) {
	res, ok := images[name]
	if !ok {
		return nil, &layout.RenderingAssetError{Kind: "image", Name: name, Err: errors.New("未声明的图片资源")}
	}
	img, status, err := r.loadImage(res)
	if err == nil {
		return img, nil
	}
	if !res.Optional {
		return nil, &layout.RenderingAssetError{Kind: "image", Name: name, Path: res.Src, Err: err}
	}
	switch status {
	case AssetMissing:
		r.logger.Debug("optional image skipped", "image", name, "src", res.Src, "status", status)
	default:
		r.logger.Warn("optional image skipped", "image", name, "src", res.Src, "status", status, "err", err)
	}
	return nil, nil
}

// loadFontBytes 读取字体数据。字体缺失或无效时返回 RenderingAssetError。
func (r *Renderer) loadFontBytes(font layout.FontResource) ([]byte, error) {
	fail := func(err error) error {
		return &layout.RenderingAssetError{Kind: "font", Name: font.Name, Path: font.Src, Err: err}
	}
	if font.Src == "" {
		return nil, fail(fonts.ErrNotFound)
	}
	if name, ok := trimBuiltin(font.Src); ok {
		if blob, found := r.fontBlobs[name]; found {
			return blob, nil
		}
		if blob, found := fonts.Builtin(name); found {
			return blob, nil
		}
		return nil, fail(fmt.Errorf("%w: %s%s", fonts.ErrNotFound, builtinPrefix, name))
	}
	data, err := fonts.Load(r.resolvePath(font.Src))
	if err != nil {
		return nil, fail(err)
	}
	return data, nil
}

func (r *Renderer) fontFace(font layout.FontResource, size float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(size, colorFromLayout(col), style, canvas.FontNormal), nil
}

// ensureFontFamily 按资源缓存字体族；同一个 Renderer 可被并发使用。
func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Name
	if familyName == "" {
		familyName = layout.BodyFont
	}
	data, err := r.loadFontBytes(font)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	family := canvas.NewFontFamily(familyName)
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, canvas.FontRegular, &layout.RenderingAssetError{Kind: "font", Name: font.Name, Path: font.Src, Err: err}
	}
	r.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

func resolveFontResource(name string, fonts map[string]layout.FontResource) layout.FontResource {
	if font, ok := fonts[name]; ok {
		return font
	}
	if font, ok := fonts[layout.BodyFont]; ok {
		return font
	}
	for _, font := range fonts {
		return font
	}
	return layout.FontResource{Name: name}
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}
