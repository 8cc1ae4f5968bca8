package store

import (
	"database/sql"
	"fmt"
	"time"
)

// ImportLog 导入历史记录
type ImportLog struct {
	ID           int64      `json:"id"`
	UserID       string     `json:"user_id"`
	CatalogID    string     `json:"catalog_id"`
	Filename     string     `json:"filename"`
	FileSize     int64      `json:"file_size"`
	Mode         string     `json:"mode"`
	TotalRows    int        `json:"total_rows"`
	ImportedRows int        `json:"imported_rows"`
	Status       string     `json:"status"` // processing/success/error
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// CreateImportLog 创建导入日志，返回 import_log_id
func (s *Store) CreateImportLog(userID, catalogID, filename string, fileSize int64, mode string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO import_logs (user_id, catalog_id, filename, file_size, mode, status)
		VALUES (?, ?, ?, ?, ?, 'processing')
	`, userID, catalogID, filename, fileSize, mode)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// UpdateImportLog 完成导入日志更新
func (s *Store) UpdateImportLog(id int64, totalRows, importedRows int, status, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE import_logs SET
			total_rows = ?,
			imported_rows = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, totalRows, importedRows, status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// ListImportLogs 按时间倒序列出用户的导入历史
func (s *Store) ListImportLogs(userID string, limit int) ([]*ImportLog, error) {
	query := `
		SELECT id, user_id, catalog_id, filename, file_size, mode,
		       total_rows, imported_rows, status, error_message, created_at, completed_at
		FROM import_logs
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query import logs: %w", err)
	}
	defer rows.Close()

	var logs []*ImportLog
	for rows.Next() {
		l := &ImportLog{}
		var errMsg sql.NullString
		var completed sql.NullTime
		err := rows.Scan(&l.ID, &l.UserID, &l.CatalogID, &l.Filename, &l.FileSize, &l.Mode,
			&l.TotalRows, &l.ImportedRows, &l.Status, &errMsg, &l.CreatedAt, &completed)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import log: %w", err)
		}
		l.ErrorMessage = errMsg.String
		if completed.Valid {
			l.CompletedAt = &completed.Time
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return logs, nil
}

// LastImportTime 用户最近一次成功导入时间（无记录返回零值）
func (s *Store) LastImportTime(userID string) (time.Time, error) {
	var t sql.NullTime
	err := s.db.QueryRow(`
		SELECT MAX(completed_at) FROM import_logs WHERE user_id = ? AND status = 'success'
	`, userID).Scan(&t)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query last import time: %w", err)
	}
	if !t.Valid {
		return time.Time{}, nil
	}
	return t.Time, nil
}
