package layout

import (
	"errors"
	"fmt"
)

// DataIntegrityError 表示化验名不在目录中，报告不能用空白参考范围替代。
type DataIntegrityError struct {
	Row  int // 0-based
	Test string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("layout: row %d: test %q is not in the catalog", e.Row+1, e.Test)
}

// OverflowError 表示单行高度超过一页可用的正文高度，无法在不拆行的前提下排版。
type OverflowError struct {
	Row       int
	Test      string
	Height    float64
	Available float64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("layout: row %d (%q) needs %.1fmm but a page body holds %.1fmm", e.Row+1, e.Test, e.Height, e.Available)
}

// RenderingError wraps a failure from the typesetter or the drawing backend.
type RenderingError struct {
	Op  string
	Err error
}

func (e *RenderingError) Error() string {
	return fmt.Sprintf("rendering: %s: %v", e.Op, e.Err)
}

func (e *RenderingError) Unwrap() error { return e.Err }

// RenderingAssetError 表示必需的资源（字体）缺失或无法解析，渲染随即中止。
type RenderingAssetError struct {
	Kind string // font / image
	Name string
	Path string
	Err  error
}

func (e *RenderingAssetError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("rendering: %s %s (%s): %v", e.Kind, e.Name, e.Path, e.Err)
	}
	return fmt.Sprintf("rendering: %s %s: %v", e.Kind, e.Name, e.Err)
}

func (e *RenderingAssetError) Unwrap() error { return e.Err }

// wrapRendering 保留资源错误的原始类型，其余错误包装为 RenderingError。
func wrapRendering(op string, err error) error {
	if err == nil {
		return nil
	}
	var assetErr *RenderingAssetError
	if errors.As(err, &assetErr) {
		return err
	}
	var renderErr *RenderingError
	if errors.As(err, &renderErr) {
		return err
	}
	return &RenderingError{Op: op, Err: err}
}
