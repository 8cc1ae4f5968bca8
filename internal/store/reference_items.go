package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"procura/internal/model"
)

// BatchInsertReferenceItems 批量插入参考物料（单事务，预编译语句）
func (s *Store) BatchInsertReferenceItems(userID, catalogID string, items []model.ReferenceItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO reference_items (
			id, user_id, catalog_id, code, name, category, price, unit, description
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		_, err := stmt.Exec(
			uuid.NewString(), userID, catalogID,
			strings.TrimSpace(item.Code), strings.TrimSpace(item.Name),
			item.Category, item.Price, item.Unit, item.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to insert reference item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// BatchUpsertReferenceItems 批量写入，冲突键 (user_id, catalog_id, code)
// 冲突时整行字段被新记录覆盖，原 id 保留
func (s *Store) BatchUpsertReferenceItems(userID, catalogID string, items []model.ReferenceItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO reference_items (
			id, user_id, catalog_id, code, name, category, price, unit, description
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, catalog_id, code) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			price = excluded.price,
			unit = excluded.unit,
			description = excluded.description,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		_, err := stmt.Exec(
			uuid.NewString(), userID, catalogID,
			strings.TrimSpace(item.Code), strings.TrimSpace(item.Name),
			item.Category, item.Price, item.Unit, item.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert reference item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteReferenceItemsByCatalog 清空目录下的全部参考物料（硬删除）
func (s *Store) DeleteReferenceItemsByCatalog(userID, catalogID string) error {
	_, err := s.db.Exec(`
		DELETE FROM reference_items WHERE user_id = ? AND catalog_id = ?
	`, userID, catalogID)
	if err != nil {
		return fmt.Errorf("failed to clear reference items: %w", err)
	}
	return nil
}

// ReferenceItemQueryOptions 参考物料查询选项
type ReferenceItemQueryOptions struct {
	Search   string // code/name 模糊匹配
	Category string // 分类等值过滤
	Limit    int
	Offset   int
}

// ListReferenceItems 查询目录下的参考物料，按名称排序
func (s *Store) ListReferenceItems(userID, catalogID string, opts ReferenceItemQueryOptions) ([]*model.ReferenceItem, error) {
	query := `
		SELECT id, user_id, catalog_id, code, name, category, price, unit, description
		FROM reference_items
		WHERE user_id = ? AND catalog_id = ?`
	args := []interface{}{userID, catalogID}

	if opts.Search != "" {
		query += " AND (code LIKE ? OR name LIKE ?)"
		pattern := "%" + opts.Search + "%"
		args = append(args, pattern, pattern)
	}
	if opts.Category != "" {
		query += " AND category = ?"
		args = append(args, opts.Category)
	}

	query += " ORDER BY name"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reference items: %w", err)
	}
	defer rows.Close()

	var items []*model.ReferenceItem
	for rows.Next() {
		item, err := scanReferenceItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return items, nil
}

// GetReferenceItem 获取用户名下的单个参考物料
func (s *Store) GetReferenceItem(userID, itemID string) (*model.ReferenceItem, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, catalog_id, code, name, category, price, unit, description
		FROM reference_items
		WHERE id = ? AND user_id = ?
	`, itemID, userID)

	item := &model.ReferenceItem{}
	var category, unit, description sql.NullString
	var price sql.NullFloat64
	err := row.Scan(&item.ID, &item.UserID, &item.CatalogID, &item.Code, &item.Name,
		&category, &price, &unit, &description)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan reference item: %w", err)
	}
	applyNullables(item, category, price, unit, description)
	return item, nil
}

// AddReferenceItem 单条添加参考物料
func (s *Store) AddReferenceItem(userID, catalogID string, item model.ReferenceItem) (*model.ReferenceItem, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO reference_items (
			id, user_id, catalog_id, code, name, category, price, unit, description
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, userID, catalogID,
		strings.TrimSpace(item.Code), strings.TrimSpace(item.Name),
		item.Category, item.Price, item.Unit, item.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to insert reference item: %w", err)
	}
	return s.GetReferenceItem(userID, id)
}

// ReferenceItemUpdates 参考物料可更新字段（nil 表示不变）
type ReferenceItemUpdates struct {
	Code        *string
	Name        *string
	Category    *string
	Price       *float64
	Unit        *string
	Description *string
}

// UpdateReferenceItem 更新参考物料
func (s *Store) UpdateReferenceItem(userID, itemID string, updates ReferenceItemUpdates) (*model.ReferenceItem, error) {
	if _, err := s.GetReferenceItem(userID, itemID); err != nil {
		return nil, err
	}

	setClauses := []string{}
	args := []interface{}{}

	if updates.Code != nil {
		setClauses = append(setClauses, "code = ?")
		args = append(args, strings.TrimSpace(*updates.Code))
	}
	if updates.Name != nil {
		setClauses = append(setClauses, "name = ?")
		args = append(args, strings.TrimSpace(*updates.Name))
	}
	if updates.Category != nil {
		setClauses = append(setClauses, "category = ?")
		args = append(args, nullIfEmpty(strings.TrimSpace(*updates.Category)))
	}
	if updates.Price != nil {
		setClauses = append(setClauses, "price = ?")
		args = append(args, *updates.Price)
	}
	if updates.Unit != nil {
		setClauses = append(setClauses, "unit = ?")
		args = append(args, nullIfEmpty(strings.TrimSpace(*updates.Unit)))
	}
	if updates.Description != nil {
		setClauses = append(setClauses, "description = ?")
		args = append(args, nullIfEmpty(strings.TrimSpace(*updates.Description)))
	}
	if len(setClauses) == 0 {
		return s.GetReferenceItem(userID, itemID)
	}

	setClauses = append(setClauses, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, itemID, userID)

	query := fmt.Sprintf("UPDATE reference_items SET %s WHERE id = ? AND user_id = ?",
		strings.Join(setClauses, ", "))
	if _, err := s.db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("failed to update reference item: %w", err)
	}

	return s.GetReferenceItem(userID, itemID)
}

// DeleteReferenceItem 删除单个参考物料
func (s *Store) DeleteReferenceItem(userID, itemID string) error {
	res, err := s.db.Exec("DELETE FROM reference_items WHERE id = ? AND user_id = ?", itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete reference item: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountReferenceItems 统计用户参考物料数量
func (s *Store) CountReferenceItems(userID string) (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM reference_items WHERE user_id = ?", userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reference items: %w", err)
	}
	return count, nil
}

func scanReferenceItem(rows *sql.Rows) (*model.ReferenceItem, error) {
	item := &model.ReferenceItem{}
	var category, unit, description sql.NullString
	var price sql.NullFloat64
	err := rows.Scan(&item.ID, &item.UserID, &item.CatalogID, &item.Code, &item.Name,
		&category, &price, &unit, &description)
	if err != nil {
		return nil, fmt.Errorf("failed to scan reference item: %w", err)
	}
	applyNullables(item, category, price, unit, description)
	return item, nil
}

func applyNullables(item *model.ReferenceItem, category sql.NullString, price sql.NullFloat64, unit, description sql.NullString) {
	if category.Valid {
		item.Category = &category.String
	}
	if price.Valid {
		item.Price = &price.Float64
	}
	if unit.Valid {
		item.Unit = &unit.String
	}
	if description.Valid {
		item.Description = &description.String
	}
}
