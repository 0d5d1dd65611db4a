// paz3time 从 <stem>.stdout 日志中提取Z3耗时,输出CSV
package main

import (
	"flag"
	"log"
	"os"

	"lddbench/pkg/config"
	"lddbench/pkg/timing"
)

func main() {
	var (
		configPath = flag.String("config", "", "Optional YAML configuration path")
		dir        = flag.String("dir", "", "Directory containing the .stdout logs (overrides config)")
	)
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	reporter := cfg.Reporter()
	if *dir != "" {
		reporter.Dir = *dir
	}

	rows, err := reporter.Report(os.Stdout, flag.Args())
	if err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	// 哨兵值是显式的退化结果,逐条记录原因
	for _, row := range timing.Fallbacks(rows) {
		if row.Err != nil {
			log.Printf("%s: %s (%v), using %s", row.Name, row.Status, row.Err, row.Time)
			continue
		}
		log.Printf("%s: %s, using %s", row.Name, row.Status, row.Time)
	}
}
