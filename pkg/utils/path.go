package utils

import (
	"os"
	"path/filepath"
)

// GetAbsPath 把相对于项目根目录的路径转成绝对路径。
// 从当前目录向上查找 go.mod 定位项目根；找不到时退回当前目录。
func GetAbsPath(relPath string) string {
	if filepath.IsAbs(relPath) {
		return relPath
	}

	dir, err := os.Getwd()
	if err != nil {
		return relPath
	}

	for cur := dir; ; {
		if _, err := os.Stat(filepath.Join(cur, "go.mod")); err == nil {
			return filepath.Join(cur, relPath)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	return filepath.Join(dir, relPath)
}
