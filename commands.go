package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/ByLCY/labreport/config"
	"github.com/ByLCY/labreport/fonts"
	"github.com/ByLCY/labreport/lab"
	"github.com/ByLCY/labreport/layout"
	"github.com/ByLCY/labreport/logging"
	"github.com/ByLCY/labreport/records"
	"github.com/ByLCY/labreport/report"
	canvasrenderer "github.com/ByLCY/labreport/renderer/canvas"
)

// input 是 render 命令读取的 JSON 文件格式。
type input struct {
	Patient lab.Patient  `json:"patient"`
	Results []lab.Result `json:"results"`
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "labreport",
		Usage: "Arabic lab report PDF generator",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Sources: cli.EnvVars("LABREPORT_CONFIG"),
				Usage:   "YAML 配置文件路径",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "输出调试日志",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "render",
				Usage: "根据 JSON 输入生成报告并保存记录",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "in", Usage: "输入 JSON 文件（- 表示标准输入）", Required: true},
					&cli.StringFlag{Name: "out", Usage: "PDF 输出路径，默认 <name>_report.pdf"},
					&cli.StringFlag{Name: "debug", Usage: "布局调试 JSON 输出路径"},
				},
				Action: renderAction,
			},
			{
				Name:  "reprint",
				Usage: "重新打印某位患者最新的报告",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "患者姓名", Required: true},
					&cli.StringFlag{Name: "out", Usage: "PDF 输出路径，默认 <name>_report.pdf"},
				},
				Action: reprintAction,
			},
			{
				Name:  "search",
				Usage: "查找某位患者最新的记录",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "患者姓名", Required: true},
				},
				Action: searchAction,
			},
			{
				Name:  "export",
				Usage: "将全部历史记录导出为 CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Value: "records.csv", Usage: "CSV 输出路径（- 表示标准输出）"},
				},
				Action: exportAction,
			},
			{
				Name:   "catalog",
				Usage:  "列出化验目录",
				Action: catalogAction,
			},
		},
	}
}

// loadConfig 读取配置并按 --verbose 或配置调整日志级别。
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel()
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	logging.SetLevel(level)
	return cfg, nil
}

// newService 根据配置组装渲染器、目录与记录存储。
func newService(cfg *config.Config) (*report.Service, error) {
	tpl, err := cfg.Template()
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(tpl.FontSrc, "built-in:") {
		if path, err := fonts.Locate(cfg.Assets.BaseDir, tpl.FontSrc); err == nil {
			tpl.FontSrc = path
		}
	}
	cat, err := cfg.LoadCatalog()
	if err != nil {
		return nil, err
	}
	var store records.Store = records.NewMemoryStore()
	if cfg.Store.Path != "" {
		store = records.NewFileStore(cfg.Store.Path)
	}
	return report.NewService(report.Options{
		Renderer: canvasrenderer.NewRenderer(cfg.Assets.BaseDir),
		Catalog:  cat,
		Store:    store,
		Template: tpl,
	})
}

func renderAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	svc, err := newService(cfg)
	if err != nil {
		return err
	}
	return run(ctx, cmd.String("in"), cmd.String("out"), cmd.String("debug"), svc)
}

// run 串联读取输入、生成报告与写出文件。
func run(ctx context.Context, inputPath, outputPath, debugPath string, svc *report.Service) error {
	in, err := readInput(inputPath)
	if err != nil {
		return err
	}
	doc, err := svc.Generate(ctx, in.Patient, in.Results)
	if err != nil {
		return fmt.Errorf("生成报告失败: %w", err)
	}
	if debugPath != "" {
		if err := writeDebug(doc.Layout, debugPath); err != nil {
			return err
		}
	}
	return writePDF(doc, outputPath)
}

func reprintAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	svc, err := newService(cfg)
	if err != nil {
		return err
	}
	doc, err := svc.Reprint(ctx, cmd.String("name"))
	if err != nil {
		return fmt.Errorf("重新打印失败: %w", err)
	}
	return writePDF(doc, cmd.String("out"))
}

func searchAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	svc, err := newService(cfg)
	if err != nil {
		return err
	}
	rec, err := svc.Search(ctx, cmd.String("name"))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.Root().Writer)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(rec)
}

func exportAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	svc, err := newService(cfg)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	n, err := svc.Export(ctx, &buf)
	if err != nil {
		return fmt.Errorf("导出记录失败: %w", err)
	}
	out := cmd.String("out")
	if out == "-" {
		_, err := cmd.Root().Writer.Write(buf.Bytes())
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("写入 CSV 文件失败: %w", err)
	}
	logging.Logger(logging.SourceApp).Info("records written", "path", out, "rows", n)
	return nil
}

func catalogAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cat, err := cfg.LoadCatalog()
	if err != nil {
		return err
	}
	w := cmd.Root().Writer
	for _, e := range cat.Entries() {
		fmt.Fprintf(w, "%s\t%s\n", e.Name, e.Range)
	}
	return nil
}

func readInput(path string) (input, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return input{}, fmt.Errorf("无法打开输入文件 %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	var in input
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return input{}, fmt.Errorf("解析输入 JSON 失败: %w", err)
	}
	return in, nil
}

func writePDF(doc report.Document, outputPath string) error {
	if outputPath == "" {
		outputPath = doc.FileName
	}
	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, doc.PDF, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	logging.Logger(logging.SourceApp).Info("report written", "path", outputPath, "pages", doc.Pages, "bytes", len(doc.PDF))
	return nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
