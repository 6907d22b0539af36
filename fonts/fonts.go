// Package fonts 负责查找与读取报告使用的字体文件。
package fonts

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/gofont/goregular"
)

var (
	// ErrNotFound 表示字体文件不存在。
	ErrNotFound = errors.New("fonts: font not found")
	// ErrInvalid 表示文件不是可识别的字体格式。
	ErrInvalid = errors.New("fonts: not a font file")
)

// Candidates 是未显式配置字体时依次尝试的位置，需包含阿拉伯字形。
var Candidates = []string{
	"fonts/Amiri-Regular.ttf",
	"Amiri-Regular.ttf",
	"/usr/share/fonts/truetype/noto/NotoNaskhArabic-Regular.ttf",
	"/usr/share/fonts/opentype/noto/NotoNaskhArabic-Regular.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

// Builtin 返回随程序编译的字体。go-regular 只覆盖拉丁字形，用于测试与纯拉丁报告。
func Builtin(name string) ([]byte, bool) {
	switch strings.ToLower(name) {
	case "go-regular", "goregular":
		return goregular.TTF, true
	default:
		return nil, false
	}
}

var magics = [][]byte{
	{0x00, 0x01, 0x00, 0x00},
	[]byte("OTTO"),
	[]byte("true"),
	[]byte("ttcf"),
	[]byte("wOFF"),
	[]byte("wOF2"),
}

// Validate 检查数据是否以 sfnt/woff 文件头开始。
func Validate(data []byte) error {
	if len(data) < 4 {
		return ErrInvalid
	}
	for _, m := range magics {
		if bytes.Equal(data[:4], m) {
			return nil
		}
	}
	return ErrInvalid
}

// Load 读取 path 处的字体文件并校验格式。
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("读取字体 %s 失败: %w", path, err)
	}
	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("%w: %s", err, path)
	}
	return data, nil
}

// Locate 返回第一个存在的字体路径：先找 preferred，再找 Candidates。
// 相对路径以 baseDir 为根；返回绝对路径，调用方不应再拼接 baseDir。
func Locate(baseDir, preferred string) (string, error) {
	var tried []string
	for _, p := range append([]string{preferred}, Candidates...) {
		if p == "" {
			continue
		}
		if !filepath.IsAbs(p) && baseDir != "" {
			p = filepath.Join(baseDir, p)
		}
		tried = append(tried, p)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return filepath.Abs(p)
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrNotFound, strings.Join(tried, ", "))
}
