package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"procura/internal/config"
	"procura/internal/importer"
	"procura/internal/store"
)

// Handler API 处理器
type Handler struct {
	store       *store.Store
	cfg         *config.AppConfig
	coordinator *importer.Coordinator
}

// NewHandler 创建 API 处理器
func NewHandler(st *store.Store, cfg *config.AppConfig) *Handler {
	return &Handler{
		store:       st,
		cfg:         cfg,
		coordinator: importer.NewCoordinator(st, cfg.Import.BatchSize),
	}
}

// RegisterRoutes 注册 API 路由（调用方需已挂认证中间件）
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 目录管理
	router.GET("/catalogs", h.ListCatalogs)
	router.POST("/catalogs", h.CreateCatalog)
	router.PATCH("/catalogs/:id", h.UpdateCatalog)
	router.DELETE("/catalogs/:id", h.DeleteCatalog)

	// 列映射配置
	router.GET("/catalogs/:id/mapping", h.GetCatalogMapping)
	router.PUT("/catalogs/:id/mapping", h.SetCatalogMapping)

	// 数据导入
	router.POST("/catalogs/:id/import", h.Import)
	router.POST("/catalogs/:id/import/preview", h.ImportPreview)
	router.GET("/imports", h.ListImports)

	// 参考物料
	router.GET("/catalogs/:id/items", h.ListReferenceItems)
	router.POST("/catalogs/:id/items", h.AddReferenceItem)
	router.PATCH("/items/:id", h.UpdateReferenceItem)
	router.DELETE("/items/:id", h.DeleteReferenceItem)

	// 采购清单
	router.GET("/lists", h.ListLists)
	router.POST("/lists", h.CreateList)
	router.GET("/lists/:id", h.GetList)
	router.DELETE("/lists/:id", h.DeleteList)
	router.POST("/lists/:id/items", h.AddListItem)
	router.PATCH("/list-items/:id", h.UpdateListItem)
	router.DELETE("/list-items/:id", h.DeleteListItem)
}

// notFoundOrError 归属校验失败一律按不存在处理
func notFoundOrError(c *gin.Context, err error, message string) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
