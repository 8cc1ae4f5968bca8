package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"procura/internal/model"
)

// CreateCatalog 创建目录
func (s *Store) CreateCatalog(userID, name, description string) (*model.Catalog, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO catalogs (id, user_id, name, description)
		VALUES (?, ?, ?, ?)
	`, id, userID, strings.TrimSpace(name), nullIfEmpty(strings.TrimSpace(description)))
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog: %w", err)
	}
	return s.GetCatalog(userID, id)
}

// GetCatalog 获取用户名下的单个目录
func (s *Store) GetCatalog(userID, catalogID string) (*model.Catalog, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, name, description, column_mappings, created_at, updated_at
		FROM catalogs
		WHERE id = ? AND user_id = ?
	`, catalogID, userID)
	return scanCatalog(row)
}

// ListCatalogs 按创建时间倒序列出用户的目录
func (s *Store) ListCatalogs(userID string) ([]*model.Catalog, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, name, description, column_mappings, created_at, updated_at
		FROM catalogs
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalogs: %w", err)
	}
	defer rows.Close()

	var catalogs []*model.Catalog
	for rows.Next() {
		c, err := scanCatalogRows(rows)
		if err != nil {
			return nil, err
		}
		catalogs = append(catalogs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return catalogs, nil
}

// CatalogUpdates 目录可更新字段（nil 表示不变）
type CatalogUpdates struct {
	Name        *string
	Description *string
}

// UpdateCatalog 更新目录基本信息
func (s *Store) UpdateCatalog(userID, catalogID string, updates CatalogUpdates) (*model.Catalog, error) {
	if _, err := s.GetCatalog(userID, catalogID); err != nil {
		return nil, err
	}

	setClauses := []string{}
	args := []interface{}{}

	if updates.Name != nil {
		setClauses = append(setClauses, "name = ?")
		args = append(args, strings.TrimSpace(*updates.Name))
	}
	if updates.Description != nil {
		setClauses = append(setClauses, "description = ?")
		args = append(args, nullIfEmpty(strings.TrimSpace(*updates.Description)))
	}
	if len(setClauses) == 0 {
		return s.GetCatalog(userID, catalogID)
	}

	setClauses = append(setClauses, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, catalogID, userID)

	query := fmt.Sprintf("UPDATE catalogs SET %s WHERE id = ? AND user_id = ?",
		strings.Join(setClauses, ", "))
	if _, err := s.db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("failed to update catalog: %w", err)
	}

	return s.GetCatalog(userID, catalogID)
}

// SetCatalogMapping 保存目录的列映射配置
// 与进行中的导入并发编辑时以后写者为准（已知限制，不加锁）
func (s *Store) SetCatalogMapping(userID, catalogID string, cm *model.ColumnMapping) (*model.Catalog, error) {
	if _, err := s.GetCatalog(userID, catalogID); err != nil {
		return nil, err
	}

	data, err := json.Marshal(cm)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal column mappings: %w", err)
	}

	_, err = s.db.Exec(`
		UPDATE catalogs SET column_mappings = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?
	`, string(data), catalogID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to save column mappings: %w", err)
	}

	return s.GetCatalog(userID, catalogID)
}

// DeleteCatalog 删除目录（级联删除其参考物料）
func (s *Store) DeleteCatalog(userID, catalogID string) error {
	res, err := s.db.Exec("DELETE FROM catalogs WHERE id = ? AND user_id = ?", catalogID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete catalog: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountCatalogs 统计用户目录数量
func (s *Store) CountCatalogs(userID string) (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM catalogs WHERE user_id = ?", userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count catalogs: %w", err)
	}
	return count, nil
}

type catalogScanner interface {
	Scan(dest ...interface{}) error
}

func scanCatalogInto(sc catalogScanner) (*model.Catalog, error) {
	c := &model.Catalog{}
	var description sql.NullString
	var mappings sql.NullString
	err := sc.Scan(&c.ID, &c.UserID, &c.Name, &description, &mappings, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan catalog: %w", err)
	}
	c.Description = description.String

	if mappings.Valid && mappings.String != "" {
		cm := &model.ColumnMapping{}
		if err := json.Unmarshal([]byte(mappings.String), cm); err != nil {
			return nil, fmt.Errorf("failed to unmarshal column mappings: %w", err)
		}
		c.ColumnMappings = cm
	}

	return c, nil
}

func scanCatalog(row *sql.Row) (*model.Catalog, error) {
	return scanCatalogInto(row)
}

func scanCatalogRows(rows *sql.Rows) (*model.Catalog, error) {
	return scanCatalogInto(rows)
}

// nullIfEmpty 空串入库为 NULL
func nullIfEmpty(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}
