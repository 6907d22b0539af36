// Package config handles labreport configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/labreport/binding"
	"github.com/ByLCY/labreport/catalog"
	"github.com/ByLCY/labreport/lab"
	"github.com/ByLCY/labreport/layout"
)

// Config is the root configuration structure.
type Config struct {
	Assets     AssetsConfig     `yaml:"assets"`
	Catalog    string           `yaml:"catalog"` // 化验目录文件，留空使用内置目录
	Text       TextConfig       `yaml:"text"`
	Typography TypographyConfig `yaml:"typography"`
	Store      StoreConfig      `yaml:"store"`
	Log        LogConfig        `yaml:"log"`
}

// AssetsConfig 指定字体与图片；相对路径以 BaseDir 为根。
type AssetsConfig struct {
	BaseDir string `yaml:"base_dir"`
	Font    string `yaml:"font"`
	Logo    string `yaml:"logo"`
	Footer  string `yaml:"footer"`
}

// TextConfig 保存报告中的固定文字与模板。
type TextConfig struct {
	Title       string   `yaml:"title"`
	PatientLine string   `yaml:"patient_line"`
	PageLabel   string   `yaml:"page_label"`
	Columns     []string `yaml:"columns"`
}

// TypographyConfig 中的长度写作 "11pt"、"10mm"；行高也可写作 "1.4x"。
type TypographyConfig struct {
	BodySize      string `yaml:"body_size"`
	HeaderSize    string `yaml:"header_size"`
	TitleSize     string `yaml:"title_size"`
	LabelSize     string `yaml:"label_size"`
	LineHeight    string `yaml:"line_height"`
	ColumnWidth   string `yaml:"column_width"`
	FooterReserve string `yaml:"footer_reserve"`
}

// StoreConfig holds the record store settings.
type StoreConfig struct {
	Path string `yaml:"path"` // JSON Lines 文件，留空时仅保存在内存
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	tpl := layout.DefaultTemplate()
	return &Config{
		Assets: AssetsConfig{
			BaseDir: ".",
			Font:    tpl.FontSrc,
			Logo:    tpl.Logo.Src,
			Footer:  tpl.FooterImage.Src,
		},
		Text: TextConfig{
			Title:       tpl.Title,
			PatientLine: tpl.PatientLine,
			PageLabel:   tpl.PageLabel,
			Columns:     tpl.Columns[:],
		},
		Typography: TypographyConfig{
			BodySize:      "11pt",
			HeaderSize:    "12pt",
			TitleSize:     "13pt",
			LabelSize:     "10pt",
			LineHeight:    "10mm",
			ColumnWidth:   "60mm",
			FooterReserve: "30mm",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads configuration from path; unset fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads path if it exists, otherwise returns Default().
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Template 将配置映射为报告版式。
func (c *Config) Template() (layout.ReportTemplate, error) {
	tpl := layout.DefaultTemplate()
	if c.Assets.Font != "" {
		tpl.FontSrc = c.Assets.Font
	}
	tpl.Logo.Src = c.Assets.Logo
	tpl.FooterImage.Src = c.Assets.Footer

	if c.Text.Title != "" {
		tpl.Title = c.Text.Title
	}
	if c.Text.PatientLine != "" {
		tpl.PatientLine = c.Text.PatientLine
	}
	if c.Text.PageLabel != "" {
		tpl.PageLabel = c.Text.PageLabel
	}
	if err := checkPlaceholders("text.patient_line", tpl.PatientLine, patientFields); err != nil {
		return layout.ReportTemplate{}, err
	}
	if err := checkPlaceholders("text.page_label", tpl.PageLabel, pageFields); err != nil {
		return layout.ReportTemplate{}, err
	}
	if len(c.Text.Columns) > 0 {
		if len(c.Text.Columns) != len(tpl.Columns) {
			return layout.ReportTemplate{}, fmt.Errorf("text.columns: want %d labels, got %d", len(tpl.Columns), len(c.Text.Columns))
		}
		copy(tpl.Columns[:], c.Text.Columns)
	}

	ty := c.Typography
	for _, f := range []struct {
		name  string
		value string
		dst   *float64
	}{
		{"body_size", ty.BodySize, &tpl.CellStyle.Size},
		{"header_size", ty.HeaderSize, &tpl.HeaderStyle.Size},
		{"title_size", ty.TitleSize, &tpl.TitleStyle.Size},
		{"label_size", ty.LabelSize, &tpl.PageLabelStyle.Size},
		{"column_width", ty.ColumnWidth, &tpl.ColumnWidth},
		{"footer_reserve", ty.FooterReserve, &tpl.FooterReserve},
	} {
		if f.value == "" {
			continue
		}
		l := layout.ParseRawLengthStr(f.value)
		if l.Value <= 0 {
			return layout.ReportTemplate{}, fmt.Errorf("typography.%s: invalid length %q", f.name, f.value)
		}
		*f.dst = l.ToMM()
	}
	tpl.PatientStyle.Size = tpl.CellStyle.Size

	if ty.LineHeight != "" {
		spec, ok := layout.ParseLineHeightSpec(ty.LineHeight)
		if !ok {
			return layout.ReportTemplate{}, fmt.Errorf("typography.line_height: invalid value %q", ty.LineHeight)
		}
		size := layout.Length{Value: tpl.CellStyle.Size, Unit: layout.UnitMM}
		lh := spec.ResolveMM(size)
		tpl.CellStyle.LineHeight = lh
		tpl.HeaderStyle.LineHeight = lh
		tpl.PatientStyle.LineHeight = lh
		tpl.HeaderHeight = lh
	}
	return tpl, nil
}

var (
	patientFields = lab.PatientFields
	pageFields    = []string{"page"}
)

// checkPlaceholders 在加载配置时拒绝模板中无法绑定的 ${field}，避免渲染时才报错。
func checkPlaceholders(key, text string, allowed []string) error {
	for _, p := range binding.Placeholders(text) {
		if !slices.Contains(allowed, p) {
			return fmt.Errorf("%s: unknown placeholder ${%s}, want one of %s", key, p, strings.Join(allowed, ", "))
		}
	}
	return nil
}

// LoadCatalog 读取配置的化验目录；未配置时返回内置目录。
func (c *Config) LoadCatalog() (*catalog.Catalog, error) {
	if c.Catalog == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(c.Catalog)
}

// LogLevel 解析日志级别，无法识别时为 info。
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
