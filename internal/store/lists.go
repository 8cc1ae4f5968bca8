package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"procura/internal/model"
)

// CreateList 创建采购清单
func (s *Store) CreateList(userID, name, description string) (*model.UserList, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO lists (id, user_id, name, description)
		VALUES (?, ?, ?, ?)
	`, id, userID, strings.TrimSpace(name), nullIfEmpty(strings.TrimSpace(description)))
	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}
	return s.GetList(userID, id)
}

// GetList 获取用户名下的单个清单（不含行项）
func (s *Store) GetList(userID, listID string) (*model.UserList, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, name, description, created_at, updated_at
		FROM lists
		WHERE id = ? AND user_id = ?
	`, listID, userID)

	l := &model.UserList{}
	var description sql.NullString
	err := row.Scan(&l.ID, &l.UserID, &l.Name, &description, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan list: %w", err)
	}
	l.Description = description.String
	return l, nil
}

// GetListWithItems 获取清单及其全部行项
func (s *Store) GetListWithItems(userID, listID string) (*model.UserList, error) {
	l, err := s.GetList(userID, listID)
	if err != nil {
		return nil, err
	}

	items, err := s.ListItemsByList(listID)
	if err != nil {
		return nil, err
	}
	l.Items = items
	return l, nil
}

// ListLists 按创建时间倒序列出用户清单（含行项）
func (s *Store) ListLists(userID string) ([]*model.UserList, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, name, description, created_at, updated_at
		FROM lists
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}
	defer rows.Close()

	var lists []*model.UserList
	for rows.Next() {
		l := &model.UserList{}
		var description sql.NullString
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &description, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		l.Description = description.String
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for _, l := range lists {
		items, err := s.ListItemsByList(l.ID)
		if err != nil {
			return nil, err
		}
		l.Items = items
	}

	return lists, nil
}

// DeleteList 删除清单（级联删除行项）
func (s *Store) DeleteList(userID, listID string) error {
	res, err := s.db.Exec("DELETE FROM lists WHERE id = ? AND user_id = ?", listID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountLists 统计用户清单数量
func (s *Store) CountLists(userID string) (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM lists WHERE user_id = ?", userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count lists: %w", err)
	}
	return count, nil
}
