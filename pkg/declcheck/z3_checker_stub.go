//go:build !z3
// +build !z3

package declcheck

import "errors"

// ErrZ3Unavailable 未启用z3构建标签
var ErrZ3Unavailable = errors.New("Z3 checker not available - rebuild with '-tags z3' to enable")

// Checker Z3声明检查器(stub版本 - Z3未启用)
type Checker struct{}

// NewChecker 创建Z3检查器(stub - 返回错误)
func NewChecker() (*Checker, error) {
	return nil, ErrZ3Unavailable
}

// Close 关闭检查器(stub)
func (c *Checker) Close() {
	// No-op
}

// Check 检查声明(stub - 只做一致性校验后返回错误)
func (c *Checker) Check(decls []Decl) (*Report, error) {
	if err := Validate(decls); err != nil {
		return nil, err
	}
	return nil, ErrZ3Unavailable
}
