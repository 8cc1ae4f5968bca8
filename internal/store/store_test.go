package store

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

// newTestStore 在临时目录创建独立的 SQLite 库
func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := New(filepath.Join(t.TempDir(), "procura.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// seedUser 插入一个测试用户并返回其 id
func seedUser(t *testing.T, st *Store) string {
	t.Helper()

	id := uuid.NewString()
	err := st.Exec(`
		INSERT INTO users (id, username, email, password_hash)
		VALUES (?, ?, ?, ?)
	`, id, "user_"+id[:8], id[:8]+"@test.local", "x")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}

func strPtr(v string) *string    { return &v }
func floatPtr(v float64) *float64 { return &v }
