//go:build z3
// +build z3

package declcheck

import (
	"fmt"

	z3 "github.com/mitchellh/go-z3"
	"github.com/samber/lo"
)

// Checker Z3声明检查器
type Checker struct {
	config  *z3.Config
	context *z3.Context
}

// NewChecker 创建Z3检查器
func NewChecker() (*Checker, error) {
	cfg := z3.NewConfig()
	return &Checker{
		config:  cfg,
		context: z3.NewContext(cfg),
	}, nil
}

// Close 释放Z3资源
func (c *Checker) Close() {
	if c.context != nil {
		c.context.Close()
	}
	if c.config != nil {
		c.config.Close()
	}
}

// Check 为每条声明绑定一个槽位见证 slot!<name> == 声明序号。
// 类型冲突由Validate先行拒绝;同名符号被声明多次时见证互相矛盾,Z3返回unsat
func (c *Checker) Check(decls []Decl) (*Report, error) {
	if err := Validate(decls); err != nil {
		return nil, err
	}

	report := &Report{Declared: len(lo.UniqBy(decls, func(d Decl) string { return d.Name }))}
	report.Ints, report.Bools = countSorts(decls)

	solver := c.context.NewSolver()
	defer solver.Close()
	for i, d := range decls {
		c.assertDecl(solver, i, d)
	}

	switch solver.Check() {
	case z3.True:
		report.Satisfiable = true
		model := solver.Model()
		report.Assignments = len(model.Assignments())
		model.Close()
		return report, nil
	case z3.False:
		report.Duplicates = c.findDuplicates(decls)
		return report, fmt.Errorf("declarations unsatisfiable: duplicate symbols %v", report.Duplicates)
	default:
		return report, fmt.Errorf("z3 returned undefined")
	}
}

// assertDecl 断言声明的槽位见证
func (c *Checker) assertDecl(solver *z3.Solver, idx int, d Decl) {
	intSort := c.context.IntSort()
	slot := c.context.Const(c.context.Symbol("slot!"+d.Name), intSort)
	solver.Assert(slot.Eq(c.context.Int(idx, intSort)))
}

// findDuplicates 逐个符号单独求解,unsat的符号即为重复声明
func (c *Checker) findDuplicates(decls []Decl) []string {
	var dups []string
	groups := lo.GroupBy(lo.Map(decls, func(d Decl, i int) lo.Tuple2[int, Decl] {
		return lo.T2(i, d)
	}), func(t lo.Tuple2[int, Decl]) string { return t.B.Name })

	for _, name := range lo.Uniq(lo.Map(decls, func(d Decl, _ int) string { return d.Name })) {
		solver := c.context.NewSolver()
		for _, t := range groups[name] {
			c.assertDecl(solver, t.A, t.B)
		}
		if solver.Check() == z3.False {
			dups = append(dups, name)
		}
		solver.Close()
	}
	return dups
}
