// Package timing 从求解器日志中提取耗时并生成CSV报告
package timing

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/samber/lo"
)

const (
	DefaultSuffix     = ".stdout"
	DefaultFallback   = "65" // 超时/未知
	DefaultNameColumn = "Name"
	DefaultTimeColumn = "ZSolve"
)

var timeRe = regexp.MustCompile(`^time:[^0-9]*([0-9]+\.[0-9]+) secs`)

// Status 单行报告的时间来源
type Status int

const (
	TimeFound      Status = iota // 日志中找到时间
	NoTimeLine                   // 日志可读但没有时间行,使用哨兵值
	FileUnreadable               // 日志缺失或不可读,使用哨兵值
)

// String 返回状态的字符串表示
func (s Status) String() string {
	switch s {
	case TimeFound:
		return "found"
	case NoTimeLine:
		return "no time line"
	case FileUnreadable:
		return "file unreadable"
	}
	return "unknown"
}

// Row 报告中的一行
type Row struct {
	Name   string
	Time   string
	Status Status
	Err    error // 仅FileUnreadable时非nil
}

// Reporter 计时报告生成器
type Reporter struct {
	Suffix   string
	Fallback string
	Header   [2]string
	Dir      string // 为空时相对当前目录
}

// NewReporter 创建使用默认设置的报告器
func NewReporter() *Reporter {
	return &Reporter{
		Suffix:   DefaultSuffix,
		Fallback: DefaultFallback,
		Header:   [2]string{DefaultNameColumn, DefaultTimeColumn},
	}
}

// ExtractTime 扫描整个输入,返回最后一个匹配的时间值
func ExtractTime(r io.Reader) (string, bool, error) {
	var (
		found bool
		value string
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if m := timeRe.FindStringSubmatch(scanner.Text()); m != nil {
			value = m[1]
			found = true
		}
	}
	if err := scanner.Err(); err != nil {
		return "", false, err
	}
	return value, found, nil
}

// Path 返回stem对应的日志文件路径
func (rp *Reporter) Path(stem string) string {
	name := stem + rp.Suffix
	if rp.Dir == "" {
		return name
	}
	return filepath.Join(rp.Dir, name)
}

// CollectOne 处理单个stem
// 文件缺失或不可读时显式退化为哨兵值,并在Row中记录原因
func (rp *Reporter) CollectOne(stem string) Row {
	row := Row{Name: stem, Time: rp.Fallback, Status: NoTimeLine}

	f, err := os.Open(rp.Path(stem))
	if err != nil {
		row.Status = FileUnreadable
		row.Err = err
		return row
	}
	defer f.Close()

	value, found, err := ExtractTime(f)
	if err != nil {
		row.Status = FileUnreadable
		row.Err = err
		return row
	}
	if found {
		row.Time = value
		row.Status = TimeFound
	}
	return row
}

// Collect 按输入顺序处理所有stem
func (rp *Reporter) Collect(stems []string) []Row {
	return lo.Map(stems, func(stem string, _ int) Row {
		return rp.CollectOne(stem)
	})
}

// Write 写出CSV表头和数据行
func (rp *Reporter) Write(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rp.Header[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write([]string{row.Name, row.Time}); err != nil {
			return fmt.Errorf("write row %s: %w", row.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Report 收集并写出完整报告,返回收集到的行
func (rp *Reporter) Report(w io.Writer, stems []string) ([]Row, error) {
	rows := rp.Collect(stems)
	return rows, rp.Write(w, rows)
}

// Fallbacks 返回使用了哨兵值的行
func Fallbacks(rows []Row) []Row {
	return lo.Filter(rows, func(row Row, _ int) bool {
		return row.Status != TimeFound
	})
}
