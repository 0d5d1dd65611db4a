// Package config 加载转换工具与计时报告工具的YAML配置
package config

import (
	"errors"
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v2"

	"lddbench/pkg/convert"
	"lddbench/pkg/timing"
)

// Config 完整配置
// 所有字段均可省略,省略时使用与原始脚本一致的默认值
type Config struct {
	Convert ConvertConfig `yaml:"convert" json:"convert"`
	Report  ReportConfig  `yaml:"report" json:"report"`
}

// ConvertConfig 转换器配置
type ConvertConfig struct {
	Directive         string `yaml:"directive" json:"directive"`                   // 输出首行指令
	HeaderLines       *int   `yaml:"header_lines" json:"header_lines"`             // 丢弃的头部行数(允许显式设为0)
	CheckDeclarations bool   `yaml:"check_declarations" json:"check_declarations"` // 转换后用Z3检查声明
}

// ReportConfig 计时报告配置
type ReportConfig struct {
	Suffix       string   `yaml:"suffix" json:"suffix"`               // 日志文件后缀
	FallbackTime string   `yaml:"fallback_time" json:"fallback_time"` // 找不到时间时的哨兵值
	Header       []string `yaml:"header" json:"header"`               // CSV表头(两列)
	Dir          string   `yaml:"dir" json:"dir"`                     // 日志文件所在目录
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	headerLines := convert.DefaultHeaderLines
	return &Config{
		Convert: ConvertConfig{
			Directive:   convert.DefaultDirective,
			HeaderLines: &headerLines,
		},
		Report: ReportConfig{
			Suffix:       timing.DefaultSuffix,
			FallbackTime: timing.DefaultFallback,
			Header:       []string{timing.DefaultNameColumn, timing.DefaultTimeColumn},
		},
	}
}

// LoadConfig 从磁盘加载配置并补全默认值
func LoadConfig(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.MergeWithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// MergeWithDefaults 合并用户配置与默认配置
func (c *Config) MergeWithDefaults() {
	defaults := DefaultConfig()

	if c.Convert.Directive == "" {
		c.Convert.Directive = defaults.Convert.Directive
	}
	if c.Convert.HeaderLines == nil {
		c.Convert.HeaderLines = defaults.Convert.HeaderLines
	}

	if c.Report.Suffix == "" {
		c.Report.Suffix = defaults.Report.Suffix
	}
	if c.Report.FallbackTime == "" {
		c.Report.FallbackTime = defaults.Report.FallbackTime
	}
	if len(c.Report.Header) == 0 {
		c.Report.Header = defaults.Report.Header
	}
}

// Validate 检查配置合法性
func (c *Config) Validate() error {
	if c.Convert.Directive == "" {
		return errors.New("convert.directive must not be empty")
	}
	if c.Convert.HeaderLines != nil && *c.Convert.HeaderLines < 0 {
		return errors.New("convert.header_lines must be >= 0")
	}
	if c.Report.Suffix == "" {
		return errors.New("report.suffix must not be empty")
	}
	if len(c.Report.Header) != 2 {
		return fmt.Errorf("report.header must have 2 columns, got %d", len(c.Report.Header))
	}
	return nil
}

// ConvertOptions 生成转换器选项
func (c *Config) ConvertOptions() convert.Options {
	opts := convert.DefaultOptions()
	if c.Convert.Directive != "" {
		opts.Directive = c.Convert.Directive
	}
	if c.Convert.HeaderLines != nil {
		opts.HeaderLines = *c.Convert.HeaderLines
	}
	return opts
}

// Reporter 生成计时报告器
func (c *Config) Reporter() *timing.Reporter {
	r := timing.NewReporter()
	if c.Report.Suffix != "" {
		r.Suffix = c.Report.Suffix
	}
	if c.Report.FallbackTime != "" {
		r.Fallback = c.Report.FallbackTime
	}
	if len(c.Report.Header) == 2 {
		r.Header = [2]string{c.Report.Header[0], c.Report.Header[1]}
	}
	r.Dir = c.Report.Dir
	return r
}
