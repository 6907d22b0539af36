// Package lab 定义化验报告的领域模型：患者、化验结果与持久化记录。
package lab

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrMissingField 表示患者信息缺少必填字段。
var ErrMissingField = errors.New("lab: missing required patient field")

// DateLayout 是报告日期的格式。
const DateLayout = "2006-01-02"

// Patient 保存患者基本信息，创建报告后不再修改。
type Patient struct {
	Name  string `json:"name" yaml:"name"`
	Age   string `json:"age" yaml:"age"`
	Phone string `json:"phone" yaml:"phone"`
	Date  string `json:"date" yaml:"date"`
}

// Validate 检查 name/age/phone/date 均已填写。
func (p Patient) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"name", p.Name},
		{"age", p.Age},
		{"phone", p.Phone},
		{"date", p.Date},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}
	return nil
}

// Fields 以模板插值所需的 map 形式返回患者字段。
func (p Patient) Fields() map[string]any {
	return map[string]any{
		"name":  p.Name,
		"age":   p.Age,
		"phone": p.Phone,
		"date":  p.Date,
	}
}

// Today 返回 now 对应的报告日期字符串。
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// Result 是一项化验的结果；切片顺序即报告中的显示顺序。
type Result struct {
	Test  string `json:"test" yaml:"test"`
	Value string `json:"value" yaml:"value"`
}

// Record 是一次提交的扁平化快照，追加后不可修改。
type Record struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Patient   Patient   `json:"patient"`
	Results   []Result  `json:"results"`
}

// NewRecord 复制 results，避免调用方后续修改影响已保存的记录。
func NewRecord(p Patient, results []Result, now time.Time) Record {
	copied := make([]Result, len(results))
	copy(copied, results)
	return Record{
		ID:        uuid.New(),
		CreatedAt: now.UTC(),
		Patient:   p,
		Results:   copied,
	}
}

// PatientFields 是患者字段在模板与导出中使用的键，顺序固定。
var PatientFields = []string{"name", "age", "phone", "date"}

// Flatten 将患者字段与化验结果合并为一行键值，化验名作为列名。
func (r Record) Flatten() map[string]string {
	row := map[string]string{
		"name":  r.Patient.Name,
		"age":   r.Patient.Age,
		"phone": r.Patient.Phone,
		"date":  r.Patient.Date,
	}
	for _, res := range r.Results {
		row[res.Test] = res.Value
	}
	return row
}
