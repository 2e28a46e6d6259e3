package utils

import (
	"path/filepath"
	"strings"
)

// 图片扩展名白名单
var allowedImageExts = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

// FileExt 返回小写、不带点的扩展名，无扩展名时返回空串
func FileExt(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// AllowedImageExt 校验文件名扩展是否在图片白名单内
func AllowedImageExt(filename string) bool {
	return allowedImageExts[FileExt(filename)]
}

// SecureFilename 清洗上传文件名，仅保留安全字符
// 规则：路径分隔符与空白折叠为下划线，去掉首尾的点和横线，
// 其余仅保留 ASCII 字母数字、点、下划线、横线
func SecureFilename(filename string) string {
	// 去掉目录部分，防止路径穿越
	filename = filepath.Base(filename)
	filename = strings.ReplaceAll(filename, "\\", "/")
	if idx := strings.LastIndex(filename, "/"); idx >= 0 {
		filename = filename[idx+1:]
	}

	var b strings.Builder
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}

	cleaned := strings.Trim(b.String(), "._-")
	if cleaned == "" {
		return "arquivo"
	}
	return cleaned
}
