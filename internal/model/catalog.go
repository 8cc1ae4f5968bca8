package model

import "time"

// Catalog 参考物料目录（按用户隔离）
type Catalog struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	ColumnMappings *ColumnMapping `json:"column_mappings,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ColumnMappingField 单条字段到列的映射
// Column 可以是列字母（A、B、AC）或表头文本
type ColumnMappingField struct {
	Field  string `json:"field"`
	Column string `json:"column"`
}

// ColumnMapping 目录级列映射配置
// Mappings 非空时为权威配置；为空时退回到旧版单字段配置
type ColumnMapping struct {
	HeaderRow int                  `json:"headerRow"`
	Mappings  []ColumnMappingField `json:"mappings,omitempty"`

	// 旧版配置字段（向后兼容）
	Code        string `json:"code,omitempty"`
	Name        string `json:"name,omitempty"`
	Unit        string `json:"unit,omitempty"`
	Category    string `json:"category,omitempty"`
	Price       string `json:"price,omitempty"`
	Description string `json:"description,omitempty"`
}

// FieldCode 等标准字段槽位名
const (
	FieldCode        = "code"
	FieldName        = "name"
	FieldUnit        = "unit"
	FieldCategory    = "category"
	FieldPrice       = "price"
	FieldDescription = "description"
)

// Normalize 将配置归一化为统一的映射列表
// Mappings 非空时原样返回；否则按固定顺序投影旧版字段（跳过空值）
func (cm *ColumnMapping) Normalize() []ColumnMappingField {
	if cm == nil {
		return nil
	}
	if len(cm.Mappings) > 0 {
		return cm.Mappings
	}

	legacy := []ColumnMappingField{
		{Field: FieldCode, Column: cm.Code},
		{Field: FieldName, Column: cm.Name},
		{Field: FieldUnit, Column: cm.Unit},
		{Field: FieldCategory, Column: cm.Category},
		{Field: FieldPrice, Column: cm.Price},
		{Field: FieldDescription, Column: cm.Description},
	}

	fields := make([]ColumnMappingField, 0, len(legacy))
	for _, f := range legacy {
		if f.Column != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// Configured 是否存在至少一条可用映射（field 与 column 均非空）
func (cm *ColumnMapping) Configured() bool {
	if cm == nil {
		return false
	}
	for _, f := range cm.Normalize() {
		if f.Field != "" && f.Column != "" {
			return true
		}
	}
	return false
}

// ReferenceItem 参考物料记录
// 可选字段使用指针，空值入库为 NULL
type ReferenceItem struct {
	ID          string   `json:"id,omitempty"`
	UserID      string   `json:"user_id,omitempty"`
	CatalogID   string   `json:"catalog_id,omitempty"`
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Category    *string  `json:"category,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
	Description *string  `json:"description,omitempty"`
}
