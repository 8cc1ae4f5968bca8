package parser

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"procura/internal/model"
)

// 导入阶段的校验错误，原样透出给调用方
var (
	ErrEmptyFile            = errors.New("excel file is empty or has no data")
	ErrHeaderRowOutOfRange  = errors.New("header row does not exist in the file")
	ErrNoMappingsConfigured = errors.New("no column mappings configured for this catalog")
	ErrNoRowsParsed         = errors.New("no items found in the excel file")
)

var priceCleanRe = regexp.MustCompile(`[^\d.-]`)

// ParsePrice 解析价格文本
// 仅保留数字、小数点和负号后尝试解析；失败视为无价格而非错误
func ParsePrice(text string) *float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	cleaned := priceCleanRe.ReplaceAllString(text, "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}

// cellAt 取指定行内某列的单元格值，越界返回空串
func cellAt(row []string, idx int, ok bool) string {
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// optional 空串转 nil，入库时落为 NULL
func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// ParseReferenceItems 将 Excel 字节流解析为去重后的参考物料记录
// 只读第一个 Sheet；表头行之后的每一行按映射抽取字段；
// 同码记录保留文件顺序中靠后的一条。纯转换，不触碰存储
func ParseReferenceItems(r io.Reader, cm *model.ColumnMapping) ([]model.ReferenceItem, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	grid, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(grid) == 0 {
		return nil, ErrEmptyFile
	}

	headerRow := 0
	if cm != nil {
		headerRow = cm.HeaderRow
	}
	if headerRow >= len(grid) {
		return nil, fmt.Errorf("%w: row %d, file has %d rows", ErrHeaderRowOutOfRange, headerRow+1, len(grid))
	}

	indices := ResolveIndices(grid, headerRow, cm.Normalize())
	if len(indices) == 0 {
		return nil, ErrNoMappingsConfigured
	}

	codeIdx, hasCode := indices[model.FieldCode]
	nameIdx, hasName := indices[model.FieldName]
	unitIdx, hasUnit := indices[model.FieldUnit]
	categoryIdx, hasCategory := indices[model.FieldCategory]
	priceIdx, hasPrice := indices[model.FieldPrice]
	descIdx, hasDesc := indices[model.FieldDescription]

	var items []model.ReferenceItem

	for i := headerRow + 1; i < len(grid); i++ {
		row := grid[i]

		code := cellAt(row, codeIdx, hasCode)
		name := cellAt(row, nameIdx, hasName)
		unit := cellAt(row, unitIdx, hasUnit)
		category := cellAt(row, categoryIdx, hasCategory)
		priceStr := cellAt(row, priceIdx, hasPrice)
		desc := cellAt(row, descIdx, hasDesc)

		// 所有映射列均为空的行不产出记录
		if code == "" && name == "" && unit == "" && category == "" && priceStr == "" && desc == "" {
			continue
		}

		itemCode := code
		if itemCode == "" {
			itemCode = fmt.Sprintf("ITEM_%d", i)
		}
		itemName := name
		if itemName == "" {
			// 回退顺序：原始 code 值，其次固定占位名
			if code != "" {
				itemName = code
			} else {
				itemName = "Unnamed Item"
			}
		}

		items = append(items, model.ReferenceItem{
			Code:        itemCode,
			Name:        itemName,
			Unit:        optional(unit),
			Category:    optional(category),
			Price:       ParsePrice(priceStr),
			Description: optional(desc),
		})
	}

	items = dedupeByCode(items)

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: found %d rows", ErrNoRowsParsed, len(grid))
	}

	return items, nil
}

// dedupeByCode 按 code 去重，保留最后一次出现的记录值
// 去重发生在任何存储交互之前
func dedupeByCode(items []model.ReferenceItem) []model.ReferenceItem {
	if len(items) == 0 {
		return items
	}

	position := make(map[string]int, len(items))
	unique := make([]model.ReferenceItem, 0, len(items))

	for _, item := range items {
		code := strings.TrimSpace(item.Code)
		if code == "" {
			continue
		}
		item.Code = code
		if pos, seen := position[code]; seen {
			unique[pos] = item
			continue
		}
		position[code] = len(unique)
		unique = append(unique, item)
	}

	return unique
}
