package server

import (
	"log"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	v1 "procura/internal/api/v1"
	"procura/internal/auth"
	"procura/internal/config"
	"procura/internal/store"
)

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	store  *store.Store
	api    *v1.Handler
	auth   *auth.Handler
	tokens auth.TokenService
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig) *Server {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化 SQLite Store
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, "procura.db")

	sqliteStore, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// JWT 密钥未配置时生成临时密钥（重启后旧令牌全部失效）
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		log.Printf("auth.jwt_secret 未配置，使用临时密钥；重启后已签发令牌将失效")
	}
	tokenHours := cfg.Auth.TokenHours
	if tokenHours <= 0 {
		tokenHours = 72
	}
	tokens := auth.TokenService{
		Secret:   []byte(secret),
		Issuer:   "procura",
		Duration: time.Duration(tokenHours) * time.Hour,
	}

	authHandler := auth.NewHandler(auth.NewRepo(sqliteStore.DB()), tokens)
	apiHandler := v1.NewHandler(sqliteStore, cfg)

	s := &Server{
		router: gin.Default(),
		store:  sqliteStore,
		api:    apiHandler,
		auth:   authHandler,
		tokens: tokens,
	}

	s.setupRoutes()

	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// 认证路由（公开）
	authGroup := s.router.Group("/api/auth")
	{
		s.auth.RegisterRoutes(authGroup)
	}

	// 业务 API 路由（需登录）
	api := s.router.Group("/api")
	api.Use(auth.Middleware(s.tokens))
	{
		s.api.RegisterRoutes(api)
	}
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 关闭底层资源
func (s *Server) Close() error {
	return s.store.Close()
}

// GetStore 获取存储（用于测试）
func (s *Server) GetStore() *store.Store {
	return s.store
}
