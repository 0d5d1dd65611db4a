// Package declcheck 用Z3检查转换结果中的符号声明
// 默认构建为stub版本,使用 -tags z3 构建时启用真实的Z3检查
package declcheck

import (
	"fmt"

	"github.com/samber/lo"

	"lddbench/pkg/convert"
)

// Decl 一个待检查的符号声明
type Decl struct {
	Name string
	Sort string // convert.TypeInt 或 convert.TypeBool
}

// Report 检查结果
type Report struct {
	Declared    int
	Ints        int
	Bools       int
	Satisfiable bool
	Assignments int      // Z3模型中的赋值数量
	Duplicates  []string // 被重复声明的符号,按首次出现顺序
}

// FromResult 从转换结果收集声明: 谓词为Bool,变量保留其类型
func FromResult(res *convert.Result) []Decl {
	if res == nil {
		return nil
	}
	preds := lo.Map(res.Predicates, func(p string, _ int) Decl {
		return Decl{Name: p, Sort: convert.TypeBool}
	})
	vars := lo.Map(res.Vars, func(v convert.VarDecl, _ int) Decl {
		return Decl{Name: v.Name, Sort: v.Type}
	})
	return append(preds, vars...)
}

// Validate 检查声明集合本身的一致性
// 同名重复声明允许,但类型必须一致
func Validate(decls []Decl) error {
	seen := make(map[string]string, len(decls))
	for _, d := range decls {
		if d.Sort != convert.TypeInt && d.Sort != convert.TypeBool {
			return fmt.Errorf("symbol %s: unknown sort %q", d.Name, d.Sort)
		}
		if prev, ok := seen[d.Name]; ok && prev != d.Sort {
			return fmt.Errorf("symbol %s declared as both %s and %s", d.Name, prev, d.Sort)
		}
		seen[d.Name] = d.Sort
	}
	return nil
}

// countSorts 统计各类型声明数量(重复声明只计一次)
func countSorts(decls []Decl) (ints, bools int) {
	unique := lo.UniqBy(decls, func(d Decl) string { return d.Name })
	ints = lo.CountBy(unique, func(d Decl) bool { return d.Sort == convert.TypeInt })
	return ints, len(unique) - ints
}
