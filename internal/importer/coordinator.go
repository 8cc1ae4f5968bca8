package importer

import (
	"bytes"
	"fmt"
	"time"

	"procura/internal/model"
	"procura/internal/parser"
	"procura/internal/store"
)

// Coordinator 导入协调器
// 串起 解析 → 去重 → 落库 → 导入日志，通过进度通道上报
type Coordinator struct {
	store      *store.Store
	reconciler *Reconciler
}

// NewCoordinator 创建导入协调器
func NewCoordinator(st *store.Store, batchSize int) *Coordinator {
	return &Coordinator{
		store:      st,
		reconciler: NewReconciler(st, batchSize),
	}
}

// ImportOptions 导入选项
type ImportOptions struct {
	UserID    string
	CatalogID string
	Filename  string
	Data      []byte               // 上传的 Excel 原始字节
	Mapping   *model.ColumnMapping // 目录当前的列映射配置
	Mode      Mode
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`    // start/info/done/error
	Message   string      `json:"message"` // 事件消息
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ImportReport 导入结果汇总
type ImportReport struct {
	Filename     string        `json:"filename"`
	Mode         Mode          `json:"mode"`
	ParsedRows   int           `json:"parsed_rows"`
	ImportedRows int           `json:"imported_rows"`
	Duration     time.Duration `json:"duration"`
}

// Import 执行导入，返回进度通道
// 导入在独立 goroutine 中运行至完成或失败，不支持取消
func (c *Coordinator) Import(opts ImportOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		c.doImport(opts, progressChan)
	}()

	return progressChan
}

// doImport 执行导入逻辑
func (c *Coordinator) doImport(opts ImportOptions, progressChan chan ProgressEvent) {
	startTime := time.Now()

	c.sendProgress(progressChan, ProgressEvent{
		Type:    "start",
		Message: fmt.Sprintf("开始导入 Excel 文件: %s", opts.Filename),
		Data: map[string]string{
			"filename": opts.Filename,
			"mode":     string(opts.Mode),
		},
		Timestamp: time.Now(),
	})

	logID, err := c.store.CreateImportLog(opts.UserID, opts.CatalogID, opts.Filename,
		int64(len(opts.Data)), string(opts.Mode))
	if err != nil {
		// 日志写入失败不阻断导入
		logID = 0
	}

	// 解析阶段：纯转换，校验错误原样透出
	records, err := parser.ParseReferenceItems(bytes.NewReader(opts.Data), opts.Mapping)
	if err != nil {
		c.finish(progressChan, logID, 0, 0, err)
		return
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type:    "info",
		Message: fmt.Sprintf("解析完成: %d 条记录（同码去重后）", len(records)),
		Data: map[string]int{
			"parsed_rows": len(records),
		},
		Timestamp: time.Now(),
	})

	// 落库阶段
	count, err := c.reconciler.Reconcile(opts.UserID, opts.CatalogID, records, opts.Mode)
	if err != nil {
		c.finish(progressChan, logID, len(records), count, err)
		return
	}

	report := &ImportReport{
		Filename:     opts.Filename,
		Mode:         opts.Mode,
		ParsedRows:   len(records),
		ImportedRows: count,
		Duration:     time.Since(startTime),
	}

	if logID > 0 {
		_ = c.store.UpdateImportLog(logID, len(records), count, "success", "")
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type:      "done",
		Message:   fmt.Sprintf("导入完成: %d 条记录", count),
		Data:      report,
		Timestamp: time.Now(),
	})
}

// finish 记录失败并发送错误事件
// committed 为中止前已提交的记录数
func (c *Coordinator) finish(progressChan chan ProgressEvent, logID int64, parsed, committed int, err error) {
	if logID > 0 {
		_ = c.store.UpdateImportLog(logID, parsed, committed, "error", err.Error())
	}
	c.sendProgress(progressChan, ProgressEvent{
		Type:    "error",
		Message: err.Error(),
		Data: map[string]int{
			"imported_rows": committed,
		},
		Timestamp: time.Now(),
	})
}

// sendProgress 发送进度事件
func (c *Coordinator) sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	default:
		// 通道已满，丢弃事件
	}
}
