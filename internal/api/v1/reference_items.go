package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"procura/internal/auth"
	"procura/internal/model"
	"procura/internal/store"
)

// ListReferenceItems 查询目录下的参考物料
// GET /api/catalogs/:id/items?search=&category=&limit=&offset=
func (h *Handler) ListReferenceItems(c *gin.Context) {
	userID := auth.CurrentUserID(c)
	catalogID := c.Param("id")

	// 目录归属校验
	if _, err := h.store.GetCatalog(userID, catalogID); err != nil {
		notFoundOrError(c, err, "目录不存在")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.store.ListReferenceItems(userID, catalogID, store.ReferenceItemQueryOptions{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if items == nil {
		items = []*model.ReferenceItem{}
	}
	c.JSON(http.StatusOK, items)
}

type addReferenceItemRequest struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Unit        *string  `json:"unit"`
	Description *string  `json:"description"`
}

// AddReferenceItem 单条添加参考物料
// POST /api/catalogs/:id/items
func (h *Handler) AddReferenceItem(c *gin.Context) {
	userID := auth.CurrentUserID(c)
	catalogID := c.Param("id")

	var req addReferenceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}
	if strings.TrimSpace(req.Code) == "" || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "编码和名称不能为空"})
		return
	}

	if _, err := h.store.GetCatalog(userID, catalogID); err != nil {
		notFoundOrError(c, err, "目录不存在")
		return
	}

	item, err := h.store.AddReferenceItem(userID, catalogID, model.ReferenceItem{
		Code:        req.Code,
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Unit:        req.Unit,
		Description: req.Description,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, item)
}

type updateReferenceItemRequest struct {
	Code        *string  `json:"code"`
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Unit        *string  `json:"unit"`
	Description *string  `json:"description"`
}

// UpdateReferenceItem 更新参考物料
// PATCH /api/items/:id
func (h *Handler) UpdateReferenceItem(c *gin.Context) {
	userID := auth.CurrentUserID(c)

	var req updateReferenceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}

	item, err := h.store.UpdateReferenceItem(userID, c.Param("id"), store.ReferenceItemUpdates{
		Code:        req.Code,
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Unit:        req.Unit,
		Description: req.Description,
	})
	if err != nil {
		notFoundOrError(c, err, "物料不存在")
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteReferenceItem 删除参考物料
// DELETE /api/items/:id
func (h *Handler) DeleteReferenceItem(c *gin.Context) {
	userID := auth.CurrentUserID(c)

	if err := h.store.DeleteReferenceItem(userID, c.Param("id")); err != nil {
		notFoundOrError(c, err, "物料不存在")
		return
	}
	c.Status(http.StatusNoContent)
}
