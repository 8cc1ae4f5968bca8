package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"procura/internal/auth"
	"procura/internal/importer"
	"procura/internal/model"
	"procura/internal/parser"
	"procura/internal/store"
)

// readUpload 读取 multipart 表单中的上传文件
func (h *Handler) readUpload(c *gin.Context) (filename string, data []byte, ok bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return "", nil, false
	}
	if h.cfg.Import.MaxUploadSize > 0 && fileHeader.Size > h.cfg.Import.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "文件过大"})
		return "", nil, false
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取文件失败"})
		return "", nil, false
	}
	defer f.Close()

	data, err = io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取文件失败"})
		return "", nil, false
	}

	return fileHeader.Filename, data, true
}

// Import 导入 Excel 数据 (SSE 流式响应)
// POST /api/catalogs/:id/import  表单字段: file, mode(replace|merge)
func (h *Handler) Import(c *gin.Context) {
	userID := auth.CurrentUserID(c)
	catalogID := c.Param("id")

	// 目录归属校验 + 读取当前映射配置
	catalog, err := h.store.GetCatalog(userID, catalogID)
	if err != nil {
		notFoundOrError(c, err, "目录不存在")
		return
	}
	if !catalog.ColumnMappings.Configured() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "该目录尚未配置列映射"})
		return
	}

	filename, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	mode := importer.Mode(c.DefaultPostForm("mode", string(importer.ModeReplace)))
	if mode != importer.ModeReplace && mode != importer.ModeMerge {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("未知导入模式: %s", mode)})
		return
	}

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	progressChan := h.coordinator.Import(importer.ImportOptions{
		UserID:    userID,
		CatalogID: catalogID,
		Filename:  filename,
		Data:      data,
		Mapping:   catalog.ColumnMappings,
		Mode:      mode,
	})

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	// 流式发送进度事件，SSE 格式: data: {json}\n\n
	for event := range progressChan {
		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}

// previewResponse 导入预览响应
type previewResponse struct {
	Total int                   `json:"total"`
	Items []model.ReferenceItem `json:"items"`
}

// ImportPreview 仅解析不落库，返回前若干条记录
// POST /api/catalogs/:id/import/preview  表单字段: file, limit
func (h *Handler) ImportPreview(c *gin.Context) {
	userID := auth.CurrentUserID(c)

	catalog, err := h.store.GetCatalog(userID, c.Param("id"))
	if err != nil {
		notFoundOrError(c, err, "目录不存在")
		return
	}
	if !catalog.ColumnMappings.Configured() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "该目录尚未配置列映射"})
		return
	}

	_, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	records, err := parser.ParseReferenceItems(bytes.NewReader(data), catalog.ColumnMappings)
	if err != nil {
		// 解析校验错误原样透出给调用方
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultPostForm("limit", "20"))
	if limit <= 0 || limit > len(records) {
		limit = len(records)
	}

	c.JSON(http.StatusOK, previewResponse{
		Total: len(records),
		Items: records[:limit],
	})
}

// ListImports 获取当前用户的导入历史
// GET /api/imports
func (h *Handler) ListImports(c *gin.Context) {
	userID := auth.CurrentUserID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	logs, err := h.store.ListImportLogs(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if logs == nil {
		logs = []*store.ImportLog{}
	}
	c.JSON(http.StatusOK, logs)
}
