package model

import "time"

// UserList 用户采购清单
type UserList struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Items       []ListItem `json:"items,omitempty"`
}

// ListItem 清单行项
// (list_id, code) 为软约束：同码行在追加时合并数量，不允许重复行长期存在
type ListItem struct {
	ID        string    `json:"id,omitempty"`
	ListID    string    `json:"list_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Quantity  float64   `json:"quantity"`
	Unit      *string   `json:"unit,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
