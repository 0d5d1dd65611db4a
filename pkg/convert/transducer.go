// Package convert 将LDD求解器导出的SMT基准文件转换为Z3可接受的格式
package convert

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
)

const (
	// DefaultDirective 输出首行的全局求解器选项(开启量词消去)
	DefaultDirective = "(set-option set-param ELIM_QUANTIFIERS true)"
	// DefaultHeaderLines 输入中无条件丢弃的头部行数
	DefaultHeaderLines = 5

	TypeInt  = "Int"
	TypeBool = "Bool"
)

// Options 转换选项
type Options struct {
	Directive   string      // 首行指令,为空时使用DefaultDirective
	HeaderLines int         // 丢弃的头部行数,负数按0处理
	Logger      *log.Logger // 可选,为nil时不输出日志
}

// DefaultOptions 返回与原始转换脚本行为一致的选项
func DefaultOptions() Options {
	return Options{
		Directive:   DefaultDirective,
		HeaderLines: DefaultHeaderLines,
	}
}

// VarDecl 一条被重写的变量声明
type VarDecl struct {
	Name string `json:"name"`
	Type string `json:"type"` // TypeInt 或 TypeBool
}

// Result 单次转换的统计结果
type Result struct {
	Predicates      []string  `json:"predicates"`
	Vars            []VarDecl `json:"vars"`
	FormulaSeen     bool      `json:"formula_seen"`
	LinesRead       int       `json:"lines_read"`
	HeaderSkipped   int       `json:"header_skipped"`
	PassedThrough   int       `json:"passed_through"`
	LatePredicates  []string  `json:"late_predicates,omitempty"`  // 出现在:formula之后,被丢弃
	RepeatedMarkers int       `json:"repeated_markers,omitempty"` // 第二次及以后的:formula行,被丢弃
}

// Transducer 流式逐行转换器
// 每次Run的状态(谓词序列、:formula标记)都是局部的,可顺序复用
type Transducer struct {
	opts Options
}

// NewTransducer 创建转换器
func NewTransducer(opts Options) *Transducer {
	if opts.Directive == "" {
		opts.Directive = DefaultDirective
	}
	if opts.HeaderLines < 0 {
		opts.HeaderLines = 0
	}
	return &Transducer{opts: opts}
}

// Convert 使用默认选项完成一次转换
func Convert(r io.Reader, w io.Writer) (*Result, error) {
	return NewTransducer(DefaultOptions()).Run(r, w)
}

// run 单次转换的可变状态
type run struct {
	out    *bufio.Writer
	preds  []string
	fired  bool
	result *Result
	logger *log.Logger
}

// Run 读取完整输入流并写出目标格式
// 读到输入结束为止,不支持中途取消;调用方可关闭输入使其提前结束
func (t *Transducer) Run(r io.Reader, w io.Writer) (*Result, error) {
	in := bufio.NewReader(r)
	st := &run{
		out:    bufio.NewWriter(w),
		result: &Result{},
		logger: t.opts.Logger,
	}

	// 指令行在读取任何输入之前写出并立即flush
	if _, err := st.out.WriteString(t.opts.Directive + "\n"); err != nil {
		return st.result, fmt.Errorf("write directive: %w", err)
	}
	if err := st.out.Flush(); err != nil {
		return st.result, fmt.Errorf("flush directive: %w", err)
	}

	for {
		line, err := in.ReadString('\n')
		if len(line) > 0 {
			st.result.LinesRead++
			if st.result.HeaderSkipped < t.opts.HeaderLines {
				st.result.HeaderSkipped++
			} else if werr := st.handle(line); werr != nil {
				return st.result, st.fail(werr)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return st.result, st.fail(fmt.Errorf("read line %d: %w", st.result.LinesRead+1, err))
		}
	}

	if err := st.out.Flush(); err != nil {
		return st.result, fmt.Errorf("flush output: %w", err)
	}
	st.finish()
	return st.result, nil
}

// fail 出错时尽量写出已转换的内容,返回原始错误
func (st *run) fail(err error) error {
	st.finish()
	_ = st.out.Flush()
	return err
}

func (st *run) finish() {
	st.result.Predicates = st.preds
	st.result.FormulaSeen = st.fired
}

// handle 对单行分类后分发处理
func (st *run) handle(line string) error {
	kind, name := Classify(line)

	switch kind {
	case KindPredicate:
		if st.fired {
			st.result.LatePredicates = append(st.result.LatePredicates, name)
			st.logf("predicate %s after :formula dropped", name)
			return nil
		}
		st.preds = append(st.preds, name)
		return nil

	case KindFormulaMarker:
		if st.fired {
			st.result.RepeatedMarkers++
			st.logf("repeated :formula marker dropped")
			return nil
		}
		st.fired = true
		return st.writeDeclBlock()

	case KindIntVar:
		st.result.Vars = append(st.result.Vars, VarDecl{Name: name, Type: TypeInt})
		return st.write("  ( " + name + " " + TypeInt + ")\n")

	case KindBoolVar:
		st.result.Vars = append(st.result.Vars, VarDecl{Name: name, Type: TypeBool})
		return st.write("  ( " + name + " " + TypeBool + ")\n")

	default:
		st.result.PassedThrough++
		return st.write(line)
	}
}

// writeDeclBlock 写出谓词声明块并打开simplify包装
// simplify的右括号由后续原样输出的公式内容提供
func (st *run) writeDeclBlock() error {
	if err := st.write("(declare-preds (\n"); err != nil {
		return err
	}
	for _, p := range st.preds {
		if err := st.write("( " + p + " )\n"); err != nil {
			return err
		}
	}
	if err := st.write("))\n"); err != nil {
		return err
	}
	return st.write("(simplify\n")
}

func (st *run) write(s string) error {
	if _, err := st.out.WriteString(s); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func (st *run) logf(format string, args ...interface{}) {
	if st.logger != nil {
		st.logger.Printf(format, args...)
	}
}
