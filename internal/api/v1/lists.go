package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"procura/internal/auth"
	"procura/internal/model"
	"procura/internal/store"
)

type createListRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListLists 获取当前用户的清单列表（含行项）
// GET /api/lists
func (h *Handler) ListLists(c *gin.Context) {
	userID := auth.CurrentUserID(c)

	lists, err := h.store.ListLists(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if lists == nil {
		lists = []*model.UserList{}
	}
	c.JSON(http.StatusOK, lists)
}

// CreateList 创建清单
// POST /api/lists
func (h *Handler) CreateList(c *gin.Context) {
	userID := auth.CurrentUserID(c)

	var req createListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "清单名称不能为空"})
		return
	}

	list, err := h.store.CreateList(userID, req.Name, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, list)
}

// GetList 获取单个清单及其行项
// GET /api/lists/:id
func (h *Handler) GetList(c *gin.Context) {
	userID := auth.CurrentUserID(c)

	list, err := h.store.GetListWithItems(userID, c.Param("id"))
	if err != nil {
		notFoundOrError(c, err, "清单不存在")
		return
	}
	c.JSON(http.StatusOK, list)
}

// DeleteList 删除清单
// DELETE /api/lists/:id
func (h *Handler) DeleteList(c *gin.Context) {
	userID := auth.CurrentUserID(c)

	if err := h.store.DeleteList(userID, c.Param("id")); err != nil {
		notFoundOrError(c, err, "清单不存在")
		return
	}
	c.Status(http.StatusNoContent)
}

type addListItemRequest struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     *string `json:"unit"`
	Notes    *string `json:"notes"`
}

// AddListItem 向清单追加行项，同码行合并数量
// POST /api/lists/:id/items
func (h *Handler) AddListItem(c *gin.Context) {
	userID := auth.CurrentUserID(c)
	listID := c.Param("id")

	var req addListItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}
	if strings.TrimSpace(req.Code) == "" || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "编码和名称不能为空"})
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	// 清单归属校验
	if _, err := h.store.GetList(userID, listID); err != nil {
		notFoundOrError(c, err, "清单不存在")
		return
	}

	item, err := h.store.ConsolidateListItem(listID, model.ListItem{
		Code:     strings.TrimSpace(req.Code),
		Name:     strings.TrimSpace(req.Name),
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Notes:    req.Notes,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

type updateListItemRequest struct {
	Quantity *float64 `json:"quantity"`
	Notes    *string  `json:"notes"`
}

// UpdateListItem 更新行项数量/备注
// PATCH /api/list-items/:id
func (h *Handler) UpdateListItem(c *gin.Context) {
	userID := auth.CurrentUserID(c)

	var req updateListItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}
	if req.Quantity != nil && *req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "数量必须大于 0"})
		return
	}

	item, err := h.store.UpdateListItem(userID, c.Param("id"), store.ListItemUpdates{
		Quantity: req.Quantity,
		Notes:    req.Notes,
	})
	if err != nil {
		notFoundOrError(c, err, "行项不存在")
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteListItem 删除行项
// DELETE /api/list-items/:id
func (h *Handler) DeleteListItem(c *gin.Context) {
	userID := auth.CurrentUserID(c)

	if err := h.store.DeleteListItem(userID, c.Param("id")); err != nil {
		notFoundOrError(c, err, "行项不存在")
		return
	}
	c.Status(http.StatusNoContent)
}
