// Package fileurl 提供配置与数据目录相关的路径工具
package fileurl

import (
	"os"
	"path/filepath"
)

// IsExist 判断所给路径是否存在
func IsExist(dst string) bool {
	_, err := os.Stat(dst)
	if err != nil {
		return os.IsExist(err)
	}
	return true
}

// IsDir 判断所给路径是否为目录
func IsDir(path string) bool {
	s, err := os.Stat(path)
	if err != nil {
		return false
	}
	return s.IsDir()
}

// CreatePath 创建 dst 所在的目录
func CreatePath(dst string, perm os.FileMode) error {
	return os.MkdirAll(filepath.Dir(dst), perm)
}

// MkdirAll creates every dir, skipping empty and "." entries.
// MkdirAll 依次创建目录，空路径与 "." 跳过
func MkdirAll(perm os.FileMode, dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, perm); err != nil {
			return err
		}
	}
	return nil
}

// FindFirst 返回第一个存在的路径，均不存在时返回空字符串
func FindFirst(paths ...string) string {
	for _, p := range paths {
		if IsExist(p) {
			return p
		}
	}
	return ""
}
