package parser

import (
	"procura/internal/model"
)

// ResolveIndices 将归一化后的映射列表解析为 字段→列索引 表
// 无法解析的条目被丢弃；同名字段以靠后的可解析条目为准
func ResolveIndices(grid [][]string, headerRowIndex int, fields []model.ColumnMappingField) map[string]int {
	indices := make(map[string]int)

	for _, f := range fields {
		if f.Column == "" {
			continue
		}
		idx, ok := ResolveColumn(grid, headerRowIndex, f.Column)
		if ok {
			indices[f.Field] = idx
		}
	}

	return indices
}
