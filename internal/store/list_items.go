package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"procura/internal/model"
)

// ListItemsByList 列出清单全部行项（稳定顺序）
func (s *Store) ListItemsByList(listID string) ([]model.ListItem, error) {
	rows, err := s.db.Query(`
		SELECT id, list_id, code, name, quantity, unit, notes, created_at
		FROM list_items
		WHERE list_id = ?
		ORDER BY created_at, id
	`, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to query list items: %w", err)
	}
	defer rows.Close()

	var items []model.ListItem
	for rows.Next() {
		item, err := scanListItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return items, nil
}

// ConsolidateListItem 向清单追加行项，同码行合并数量
// 已存在同码行时：数量累加到第一行，名称取新值，单位/备注新值优先，
// 其余同码行硬删除（收敛历史上产生的重复行）。整个操作在单事务内完成
func (s *Store) ConsolidateListItem(listID string, item model.ListItem) (*model.ListItem, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`
		SELECT id, list_id, code, name, quantity, unit, notes, created_at
		FROM list_items
		WHERE list_id = ? AND code = ?
		ORDER BY created_at, id
	`, listID, item.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing items: %w", err)
	}

	var existing []model.ListItem
	for rows.Next() {
		e, err := scanListItem(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		existing = append(existing, *e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("rows error: %w", err)
	}
	rows.Close()

	var resultID string

	if len(existing) == 0 {
		// 无同码行，直接插入
		resultID = uuid.NewString()
		_, err = tx.Exec(`
			INSERT INTO list_items (id, list_id, code, name, quantity, unit, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, resultID, listID, item.Code, item.Name, item.Quantity, item.Unit, item.Notes)
		if err != nil {
			return nil, fmt.Errorf("failed to insert list item: %w", err)
		}
	} else {
		// 汇总全部同码行数量，合并进第一行
		total := 0.0
		for _, e := range existing {
			total += e.Quantity
		}

		first := existing[0]
		resultID = first.ID

		unit := item.Unit
		if unit == nil {
			unit = first.Unit
		}
		notes := item.Notes
		if notes == nil {
			notes = first.Notes
		}

		_, err = tx.Exec(`
			UPDATE list_items SET quantity = ?, name = ?, unit = ?, notes = ?
			WHERE id = ?
		`, total+item.Quantity, item.Name, unit, notes, resultID)
		if err != nil {
			return nil, fmt.Errorf("failed to update list item: %w", err)
		}

		// 删除其余同码行
		for _, e := range existing[1:] {
			if _, err := tx.Exec("DELETE FROM list_items WHERE id = ?", e.ID); err != nil {
				return nil, fmt.Errorf("failed to delete duplicate item: %w", err)
			}
		}
	}

	row := tx.QueryRow(`
		SELECT id, list_id, code, name, quantity, unit, notes, created_at
		FROM list_items WHERE id = ?
	`, resultID)
	result, err := scanListItem(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}

// GetListItemOwned 获取行项并校验其所属清单归属当前用户
func (s *Store) GetListItemOwned(userID, itemID string) (*model.ListItem, error) {
	row := s.db.QueryRow(`
		SELECT li.id, li.list_id, li.code, li.name, li.quantity, li.unit, li.notes, li.created_at
		FROM list_items li
		JOIN lists l ON l.id = li.list_id
		WHERE li.id = ? AND l.user_id = ?
	`, itemID, userID)
	item, err := scanListItem(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

// ListItemUpdates 行项可更新字段（nil 表示不变）
type ListItemUpdates struct {
	Quantity *float64
	Notes    *string
}

// UpdateListItem 更新行项数量/备注（先校验归属）
func (s *Store) UpdateListItem(userID, itemID string, updates ListItemUpdates) (*model.ListItem, error) {
	if _, err := s.GetListItemOwned(userID, itemID); err != nil {
		return nil, err
	}

	setClauses := []string{}
	args := []interface{}{}

	if updates.Quantity != nil {
		setClauses = append(setClauses, "quantity = ?")
		args = append(args, *updates.Quantity)
	}
	if updates.Notes != nil {
		setClauses = append(setClauses, "notes = ?")
		args = append(args, nullIfEmpty(strings.TrimSpace(*updates.Notes)))
	}
	if len(setClauses) == 0 {
		return s.GetListItemOwned(userID, itemID)
	}

	args = append(args, itemID)
	query := fmt.Sprintf("UPDATE list_items SET %s WHERE id = ?", strings.Join(setClauses, ", "))
	if _, err := s.db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("failed to update list item: %w", err)
	}

	return s.GetListItemOwned(userID, itemID)
}

// DeleteListItem 删除行项（先校验归属）
func (s *Store) DeleteListItem(userID, itemID string) error {
	if _, err := s.GetListItemOwned(userID, itemID); err != nil {
		return err
	}
	if _, err := s.db.Exec("DELETE FROM list_items WHERE id = ?", itemID); err != nil {
		return fmt.Errorf("failed to delete list item: %w", err)
	}
	return nil
}

type listItemScanner interface {
	Scan(dest ...interface{}) error
}

func scanListItem(sc listItemScanner) (*model.ListItem, error) {
	item := &model.ListItem{}
	var unit, notes sql.NullString
	err := sc.Scan(&item.ID, &item.ListID, &item.Code, &item.Name, &item.Quantity,
		&unit, &notes, &item.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to scan list item: %w", err)
	}
	if unit.Valid {
		item.Unit = &unit.String
	}
	if notes.Valid {
		item.Notes = &notes.String
	}
	return item, nil
}
