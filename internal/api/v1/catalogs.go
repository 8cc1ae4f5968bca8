package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"procura/internal/auth"
	"procura/internal/model"
	"procura/internal/store"
)

type createCatalogRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListCatalogs 获取当前用户的目录列表
// GET /api/catalogs
func (h *Handler) ListCatalogs(c *gin.Context) {
	userID := auth.CurrentUserID(c)

	catalogs, err := h.store.ListCatalogs(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if catalogs == nil {
		catalogs = []*model.Catalog{}
	}
	c.JSON(http.StatusOK, catalogs)
}

// CreateCatalog 创建目录
// POST /api/catalogs
func (h *Handler) CreateCatalog(c *gin.Context) {
	userID := auth.CurrentUserID(c)

	var req createCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "目录名称不能为空"})
		return
	}

	catalog, err := h.store.CreateCatalog(userID, req.Name, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, catalog)
}

type updateCatalogRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// UpdateCatalog 更新目录基本信息
// PATCH /api/catalogs/:id
func (h *Handler) UpdateCatalog(c *gin.Context) {
	userID := auth.CurrentUserID(c)

	var req updateCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "目录名称不能为空"})
		return
	}

	catalog, err := h.store.UpdateCatalog(userID, c.Param("id"), store.CatalogUpdates{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		notFoundOrError(c, err, "目录不存在")
		return
	}
	c.JSON(http.StatusOK, catalog)
}

// DeleteCatalog 删除目录及其参考物料
// DELETE /api/catalogs/:id
func (h *Handler) DeleteCatalog(c *gin.Context) {
	userID := auth.CurrentUserID(c)

	if err := h.store.DeleteCatalog(userID, c.Param("id")); err != nil {
		notFoundOrError(c, err, "目录不存在")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetCatalogMapping 获取目录的列映射配置
// GET /api/catalogs/:id/mapping
func (h *Handler) GetCatalogMapping(c *gin.Context) {
	userID := auth.CurrentUserID(c)

	catalog, err := h.store.GetCatalog(userID, c.Param("id"))
	if err != nil {
		notFoundOrError(c, err, "目录不存在")
		return
	}

	cm := catalog.ColumnMappings
	if cm == nil {
		cm = &model.ColumnMapping{}
	}
	c.JSON(http.StatusOK, cm)
}

// SetCatalogMapping 保存目录的列映射配置
// PUT /api/catalogs/:id/mapping
func (h *Handler) SetCatalogMapping(c *gin.Context) {
	userID := auth.CurrentUserID(c)

	var cm model.ColumnMapping
	if err := c.ShouldBindJSON(&cm); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}
	if cm.HeaderRow < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "表头行号不能为负"})
		return
	}

	catalog, err := h.store.SetCatalogMapping(userID, c.Param("id"), &cm)
	if err != nil {
		notFoundOrError(c, err, "目录不存在")
		return
	}
	c.JSON(http.StatusOK, catalog)
}
