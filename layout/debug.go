package layout

import (
	"encoding/json"
	"io"
	"os"
)

// EncodeDebugJSON 将布局结果以缩进 JSON 写入 w，便于调试或可视化。
func EncodeDebugJSON(w io.Writer, res *Result) error {
	if res == nil {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(res)
}

// WriteDebugJSON 将布局结果写入 path。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeDebugJSON(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
