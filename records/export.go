package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"

	"github.com/ByLCY/labreport/lab"
)

// Columns 返回导出的列顺序：先是患者字段，再按 tests 的顺序列出化验名，
// 最后是记录中出现但不在 tests 里的化验名（按字母序）。
func Columns(recs []lab.Record, tests []string) []string {
	cols := slices.Clone(lab.PatientFields)
	seen := make(map[string]bool, len(cols)+len(tests))
	for _, c := range cols {
		seen[c] = true
	}
	for _, t := range tests {
		if !seen[t] {
			seen[t] = true
			cols = append(cols, t)
		}
	}
	var extra []string
	for _, rec := range recs {
		for _, res := range rec.Results {
			if !seen[res.Test] {
				seen[res.Test] = true
				extra = append(extra, res.Test)
			}
		}
	}
	slices.Sort(extra)
	return append(cols, extra...)
}

// WriteCSV 把每条记录展平为一行 CSV，首行为列名；记录中没有的化验留空。
// 返回写出的数据行数。
func WriteCSV(w io.Writer, recs []lab.Record, tests []string) (int, error) {
	cols := Columns(recs, tests)
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(cols))
	for i, rec := range recs {
		flat := rec.Flatten()
		for j, c := range cols {
			row[j] = flat[c]
		}
		if err := cw.Write(row); err != nil {
			return i, fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}
	return len(recs), nil
}
