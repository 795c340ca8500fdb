// Package convert 提供字符串与结构体之间的转换工具
package convert

import (
	"strconv"
	"strings"
)

// StrTo 去除首尾空白后再解析的字符串
type StrTo string

func (s StrTo) String() string {
	return strings.TrimSpace(string(s))
}

func (s StrTo) Int() (int, error) {
	return strconv.Atoi(s.String())
}

// MustInt 解析失败时返回 0
func (s StrTo) MustInt() int {
	v, _ := s.Int()
	return v
}
