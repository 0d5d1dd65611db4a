// ldd2z3 将LDDSolver的SMT基准文件转换为Z3基准文件
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"lddbench/pkg/config"
	"lddbench/pkg/convert"
	"lddbench/pkg/declcheck"
)

func main() {
	// 命令行参数
	var (
		inPath     = flag.String("in", "", "Input benchmark path (default stdin)")
		outPath    = flag.String("out", "", "Output benchmark path (default stdout)")
		configPath = flag.String("config", "", "Optional YAML configuration path")
		check      = flag.Bool("check", false, "Check declarations with Z3 after conversion (requires -tags z3 build)")
	)
	flag.Parse()

	// 日志写stderr,stdout只用于转换结果
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	var in io.Reader = os.Stdin
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			log.Fatalf("Failed to open input: %v", err)
		}
		defer f.Close()
		in = f
	}

	var (
		out     io.Writer = os.Stdout
		outFile *os.File
	)
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("Failed to create output: %v", err)
		}
		outFile = f
		out = f
	}

	opts := cfg.ConvertOptions()
	opts.Logger = log.Default()

	startTime := time.Now()
	res, err := convert.NewTransducer(opts).Run(in, out)
	if outFile != nil {
		err = closeOutput(outFile, err)
	}
	if err != nil {
		log.Fatalf("Conversion failed: %v", err)
	}

	log.Printf("Converted %d lines in %v: %d predicates, %d variables, %d passed through",
		res.LinesRead, time.Since(startTime), len(res.Predicates), len(res.Vars), res.PassedThrough)
	if !res.FormulaSeen {
		log.Printf("Warning: no :formula marker found, predicate block not emitted")
	}
	if n := len(res.LatePredicates); n > 0 {
		log.Printf("Warning: %d predicate declarations after :formula were dropped", n)
	}

	if *check || cfg.Convert.CheckDeclarations {
		checkDeclarations(res)
	}
}

// closeOutput 在退出前关闭输出文件,转换错误优先于关闭错误
func closeOutput(c io.Closer, runErr error) error {
	if err := c.Close(); err != nil && runErr == nil {
		return fmt.Errorf("close output: %w", err)
	}
	return runErr
}

// checkDeclarations 用Z3检查转换得到的声明
func checkDeclarations(res *convert.Result) {
	checker, err := declcheck.NewChecker()
	if err != nil {
		log.Fatalf("Failed to create checker: %v", err)
	}
	defer checker.Close()

	report, err := checker.Check(declcheck.FromResult(res))
	if err != nil {
		log.Fatalf("Declaration check failed: %v", err)
	}
	log.Printf("Declaration check passed: %d symbols (%d Int, %d Bool)",
		report.Declared, report.Ints, report.Bools)
}
