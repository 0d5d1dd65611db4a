package convert

import (
	"regexp"
	"strings"
)

// LineKind 输入行的分类结果
type LineKind int

const (
	KindOther         LineKind = iota // 原样输出
	KindPredicate                     // :extrapreds ((Pn))
	KindFormulaMarker                 // :formula
	KindIntVar                        // "  (v<digit>... FOO"
	KindBoolVar                       // "  (B<non-space>... FOO"
)

// String 返回行类型的字符串表示
func (k LineKind) String() string {
	names := []string{"Other", "Predicate", "FormulaMarker", "IntVar", "BoolVar"}
	if int(k) >= 0 && int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

const formulaPrefix = ":formula"

var (
	predRe    = regexp.MustCompile(`^:extrapreds \(\((P[0-9]+)\)\)`)
	intVarRe  = regexp.MustCompile(`^  \((v[0-9][^ ]*) FOO`)
	boolVarRe = regexp.MustCompile(`^  \((B[^ ][^ ]*) FOO`)
)

// Classify 按固定优先级对单行分类
// 返回行类型以及提取出的谓词名或变量名(KindFormulaMarker/KindOther时为空)
func Classify(line string) (LineKind, string) {
	if m := predRe.FindStringSubmatch(line); m != nil {
		return KindPredicate, m[1]
	}
	if strings.HasPrefix(line, formulaPrefix) {
		return KindFormulaMarker, ""
	}
	if m := intVarRe.FindStringSubmatch(line); m != nil {
		return KindIntVar, m[1]
	}
	if m := boolVarRe.FindStringSubmatch(line); m != nil {
		return KindBoolVar, m[1]
	}
	return KindOther, ""
}
