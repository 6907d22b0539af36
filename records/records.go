// Package records 保存已生成报告的历史记录。记录只追加、不修改。
package records

import (
	"context"
	"errors"
	"strings"

	"github.com/ByLCY/labreport/lab"
)

// ErrNotFound 表示没有匹配的记录。
var ErrNotFound = errors.New("records: no matching record")

// Store 是历史记录的持久化接口，实现需保证并发安全。
type Store interface {
	Append(ctx context.Context, rec lab.Record) error
	// Latest 返回姓名匹配（去空白、不区分大小写）的最新一条记录。
	Latest(ctx context.Context, name string) (lab.Record, error)
	All(ctx context.Context) ([]lab.Record, error)
}

// normalizeName 用于姓名匹配。
func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// latest 从后向前查找，返回最后追加的匹配记录。
func latest(recs []lab.Record, name string) (lab.Record, error) {
	want := normalizeName(name)
	if want == "" {
		return lab.Record{}, ErrNotFound
	}
	for i := len(recs) - 1; i >= 0; i-- {
		if normalizeName(recs[i].Patient.Name) == want {
			return recs[i], nil
		}
	}
	return lab.Record{}, ErrNotFound
}
