package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"procura/internal/store"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "procura.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	tokens := TokenService{Secret: []byte("test-secret"), Issuer: "procura", Duration: time.Hour}
	h := NewHandler(NewRepo(st.DB()), tokens)

	r := gin.New()
	h.RegisterRoutes(r.Group("/api/auth"))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterLogin(t *testing.T) {
	r := newAuthRouter(t)

	w := postJSON(t, r, "/api/auth/register", map[string]string{
		"username": "ayşe", "email": "Ayse@Test.Local", "password": "çok-gizli-1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d body=%s", w.Code, w.Body.String())
	}
	var created struct {
		Token  string `json:"token"`
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Token == "" || created.UserID == "" {
		t.Fatalf("register response: %s", w.Body.String())
	}

	// 邮箱大小写不敏感
	w = postJSON(t, r, "/api/auth/login", map[string]string{
		"email": "AYSE@test.local", "password": "çok-gizli-1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d body=%s", w.Code, w.Body.String())
	}

	w = postJSON(t, r, "/api/auth/login", map[string]string{
		"email": "ayse@test.local", "password": "yanlış-şifre",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password should 401, got %d", w.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	r := newAuthRouter(t)

	cases := []map[string]string{
		{"username": "ab", "email": "a@b.c", "password": "12345678"},   // 用户名过短
		{"username": "abc", "email": "not-an-email", "password": "12345678"},
		{"username": "abc", "email": "a@b.c", "password": "kısa"},      // 密码过短
	}
	for i, body := range cases {
		if w := postJSON(t, r, "/api/auth/register", body); w.Code != http.StatusBadRequest {
			t.Fatalf("case %d: want 400 got %d", i, w.Code)
		}
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := newAuthRouter(t)

	body := map[string]string{"username": "tekrar", "email": "tekrar@test.local", "password": "12345678"}
	if w := postJSON(t, r, "/api/auth/register", body); w.Code != http.StatusCreated {
		t.Fatalf("first register: %d", w.Code)
	}
	if w := postJSON(t, r, "/api/auth/register", body); w.Code != http.StatusConflict {
		t.Fatalf("duplicate should 409, got %d", w.Code)
	}
	// 同邮箱不同用户名同样冲突
	body["username"] = "başka"
	if w := postJSON(t, r, "/api/auth/register", body); w.Code != http.StatusConflict {
		t.Fatalf("duplicate email should 409, got %d", w.Code)
	}
}
