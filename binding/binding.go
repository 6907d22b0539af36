// Package binding 负责报告模板中 ${field} 占位符的替换，例如页眉中的患者信息行
// "الاسم: ${name}   العمر: ${age}" 与页脚的 "الصفحة ${page}"。
package binding

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrUnresolved 表示模板中存在无法解析的占位符。
var ErrUnresolved = errors.New("binding: unresolved placeholder")

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// InterpolateStrict 将 text 中的 ${path.to.value} 替换为 data 中的值；
// 任何未解析的占位符都会返回 ErrUnresolved。
func InterpolateStrict(text string, data any) (string, error) {
	out, missing := interpolate(text, data)
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", fmt.Errorf("%w: %s", ErrUnresolved, strings.Join(missing, ", "))
	}
	return out, nil
}

// Placeholders 返回模板中出现的占位符路径（按出现顺序，去重）。
func Placeholders(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, groups := range exprPattern.FindAllStringSubmatch(text, -1) {
		path := strings.TrimSpace(groups[1])
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		out = append(out, path)
	}
	return out
}

func interpolate(text string, data any) (string, []string) {
	var missing []string
	out := exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		path := ""
		if len(groups) >= 2 {
			path = strings.TrimSpace(groups[1])
		}
		if path == "" {
			missing = append(missing, match)
			return match
		}
		val, ok := resolvePath(data, path)
		if !ok {
			missing = append(missing, path)
			return match
		}
		return fmt.Sprint(val)
	})
	return out, missing
}

func resolvePath(data any, path string) (any, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		var ok bool
		current, ok = descend(current, segment)
		if !ok {
			return nil, false
		}
	}
	return current, current != nil
}

func descend(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		val, ok := c[key]
		return val, ok
	case map[string]string:
		val, ok := c[key]
		return val, ok
	default:
		return nil, false
	}
}
