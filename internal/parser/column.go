package parser

import (
	"regexp"
	"strings"
)

var columnLetterRe = regexp.MustCompile(`^[A-Za-z]+$`)

// ColumnLetterToIndex 将列字母转换为 0 基列索引
// A→0, Z→25, AA→26, AB→27（26 进制，无零位）
func ColumnLetterToIndex(letter string) int {
	upper := strings.ToUpper(strings.TrimSpace(letter))
	index := 0
	for i := 0; i < len(upper); i++ {
		index = index*26 + int(upper[i]-'A') + 1
	}
	return index - 1
}

// FindColumnByHeader 在表头行中按文本查找列索引
// 比较时两侧均去除首尾空格并转小写；未命中返回 -1
func FindColumnByHeader(grid [][]string, headerRowIndex int, header string) int {
	var headerRow []string
	if headerRowIndex >= 0 && headerRowIndex < len(grid) {
		headerRow = grid[headerRowIndex]
	}

	search := strings.ToLower(strings.TrimSpace(header))
	for i, cell := range headerRow {
		if strings.ToLower(strings.TrimSpace(cell)) == search {
			return i
		}
	}
	return -1
}

// ResolveColumn 将用户配置的列引用解析为 0 基列索引
// 引用为纯字母时按列字母解析（不校验表宽），否则按表头文本查找；
// 空引用视为未配置
func ResolveColumn(grid [][]string, headerRowIndex int, ref string) (int, bool) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return -1, false
	}

	if columnLetterRe.MatchString(trimmed) {
		return ColumnLetterToIndex(trimmed), true
	}

	idx := FindColumnByHeader(grid, headerRowIndex, trimmed)
	if idx == -1 {
		return -1, false
	}
	return idx, true
}
