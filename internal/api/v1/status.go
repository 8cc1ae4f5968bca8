package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"procura/internal/auth"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Catalogs       int    `json:"catalogs"`       // 目录数
	ReferenceItems int    `json:"referenceItems"` // 参考物料数
	Lists          int    `json:"lists"`          // 清单数
	LastImportTime string `json:"lastImportTime"` // 最后一次成功导入时间
}

// GetStatus 获取当前用户的数据概况
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	userID := auth.CurrentUserID(c)

	catalogs, err := h.store.CountCatalogs(userID)
	if err != nil {
		catalogs = 0
	}
	items, err := h.store.CountReferenceItems(userID)
	if err != nil {
		items = 0
	}
	lists, err := h.store.CountLists(userID)
	if err != nil {
		lists = 0
	}

	lastImport := ""
	if t, err := h.store.LastImportTime(userID); err == nil && !t.IsZero() {
		lastImport = t.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, StatusResponse{
		Catalogs:       catalogs,
		ReferenceItems: items,
		Lists:          lists,
		LastImportTime: lastImport,
	})
}
