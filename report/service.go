// Package report 串联布局、渲染与历史记录：生成、重新打印与查找报告。
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/labreport/lab"
	"github.com/ByLCY/labreport/layout"
	"github.com/ByLCY/labreport/logging"
	"github.com/ByLCY/labreport/records"
	"github.com/ByLCY/labreport/renderer"
)

// ErrNoRenderer 表示未提供渲染器。
var ErrNoRenderer = errors.New("report: renderer is required")

// Document 是一次渲染的完整输出。
type Document struct {
	FileName string
	PDF      []byte
	Pages    int
	Layout   *layout.Result
}

// Options configures a Service.
type Options struct {
	Renderer renderer.TypesettingRenderer
	Catalog  layout.RangeLookup
	Store    records.Store // 为空时使用内存存储
	Template layout.ReportTemplate
	Logger   *log.Logger
	Now      func() time.Time
}

// Service 无逐次调用的可变状态，可被并发使用；记录的串行化由 Store 负责。
type Service struct {
	renderer renderer.TypesettingRenderer
	catalog  layout.RangeLookup
	store    records.Store
	template layout.ReportTemplate
	logger   *log.Logger
	now      func() time.Time
}

func NewService(opts Options) (*Service, error) {
	if opts.Renderer == nil {
		return nil, ErrNoRenderer
	}
	if opts.Catalog == nil {
		return nil, layout.ErrNoCatalog
	}
	s := &Service{
		renderer: opts.Renderer,
		catalog:  opts.Catalog,
		store:    opts.Store,
		template: opts.Template,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if s.store == nil {
		s.store = records.NewMemoryStore()
	}
	if s.template.PageWidth <= 0 {
		s.template = layout.DefaultTemplate()
	}
	if s.logger == nil {
		s.logger = logging.Logger(logging.SourceReport)
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Render 排版并渲染报告，不写入历史记录。
func (s *Service) Render(p lab.Patient, rows []lab.Result) (Document, error) {
	res, err := layout.BuildReport(p, rows, layout.BuildOptions{
		Typesetter: s.renderer,
		Catalog:    s.catalog,
		Template:   s.template,
	})
	if err != nil {
		return Document{}, err
	}
	data, err := s.renderer.Render(res)
	if err != nil {
		return Document{}, err
	}
	return Document{
		FileName: FileName(p),
		PDF:      data,
		Pages:    len(res.Pages),
		Layout:   res,
	}, nil
}

// Generate 校验输入、渲染报告，成功后追加历史记录。日期为空时使用当天。
func (s *Service) Generate(ctx context.Context, p lab.Patient, rows []lab.Result) (Document, error) {
	now := s.now()
	if strings.TrimSpace(p.Date) == "" {
		p.Date = lab.Today(now)
	}
	if err := p.Validate(); err != nil {
		return Document{}, err
	}
	doc, err := s.Render(p, rows)
	if err != nil {
		s.logger.Error("report generation failed", "patient", p.Name, "rows", len(rows), "err", err)
		return Document{}, err
	}
	rec := lab.NewRecord(p, rows, now)
	if err := s.store.Append(ctx, rec); err != nil {
		return Document{}, fmt.Errorf("保存记录失败: %w", err)
	}
	s.logger.Info("report generated", "record", rec.ID, "patient", p.Name, "rows", len(rows), "pages", doc.Pages)
	return doc, nil
}

// Search 返回姓名匹配的最新记录。
func (s *Service) Search(ctx context.Context, name string) (lab.Record, error) {
	return s.store.Latest(ctx, name)
}

// Reprint 重新渲染姓名匹配的最新记录，不追加新记录。
func (s *Service) Reprint(ctx context.Context, name string) (Document, error) {
	rec, err := s.store.Latest(ctx, name)
	if err != nil {
		return Document{}, err
	}
	doc, err := s.Render(rec.Patient, rec.Results)
	if err != nil {
		return Document{}, err
	}
	s.logger.Info("report reprinted", "record", rec.ID, "patient", rec.Patient.Name, "pages", doc.Pages)
	return doc, nil
}

// Export 将全部历史记录写为 CSV，化验列按目录顺序排列。没有记录时返回 records.ErrNotFound。
func (s *Service) Export(ctx context.Context, w io.Writer) (int, error) {
	recs, err := s.store.All(ctx)
	if err != nil {
		return 0, err
	}
	if len(recs) == 0 {
		return 0, records.ErrNotFound
	}
	var tests []string
	if named, ok := s.catalog.(interface{ Names() []string }); ok {
		tests = named.Names()
	}
	n, err := records.WriteCSV(w, recs, tests)
	if err != nil {
		return n, err
	}
	s.logger.Info("records exported", "rows", n)
	return n, nil
}

// FileName 由患者姓名生成下载文件名 "<name>_report.pdf"，去掉路径分隔符等不安全字符。
func FileName(p lab.Patient) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.Is(unicode.Mn, r), r == '-', r == '_':
			return r
		case unicode.IsSpace(r), r == '.':
			return '_'
		default:
			return -1
		}
	}, strings.TrimSpace(p.Name))
	name = strings.Trim(name, "_")
	if name == "" {
		name = "patient"
	}
	return name + "_report.pdf"
}
