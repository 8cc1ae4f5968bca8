package importer

import (
	"errors"
	"fmt"

	"procura/internal/model"
	"procura/internal/store"
)

// Mode 导入落库策略
type Mode string

const (
	// ModeReplace 先清空目录再插入
	ModeReplace Mode = "replace"
	// ModeMerge 按 (user_id, catalog_id, code) 冲突键覆盖写入，未命中的旧记录保留
	ModeMerge Mode = "merge"
)

// 落库阶段的错误，整个操作中止，已提交批次不回滚
var (
	ErrInvalidMode       = errors.New("invalid import mode")
	ErrClearFailed       = errors.New("failed to clear existing items")
	ErrBatchInsertFailed = errors.New("failed to insert items")
	ErrBatchUpsertFailed = errors.New("failed to merge items")
)

// DefaultBatchSize 每批写入的记录数上限
const DefaultBatchSize = 100

// Reconciler 将解析出的记录按策略落库
type Reconciler struct {
	store     *store.Store
	batchSize int
}

// NewReconciler 创建落库器
func NewReconciler(st *store.Store, batchSize int) *Reconciler {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Reconciler{store: st, batchSize: batchSize}
}

// Reconcile 应用导入记录到目录
// 批次严格按输入顺序串行写入；某一批失败即中止，
// 返回值为中止前已成功提交的记录数（不回滚）
func (r *Reconciler) Reconcile(userID, catalogID string, records []model.ReferenceItem, mode Mode) (int, error) {
	if mode != ModeReplace && mode != ModeMerge {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	// replace 先硬删除整个目录范围，失败则不写任何记录
	if mode == ModeReplace {
		if err := r.store.DeleteReferenceItemsByCatalog(userID, catalogID); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrClearFailed, err)
		}
	}

	count := 0
	for start := 0; start < len(records); start += r.batchSize {
		end := start + r.batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		if mode == ModeMerge {
			if err := r.store.BatchUpsertReferenceItems(userID, catalogID, batch); err != nil {
				return count, fmt.Errorf("%w: %v", ErrBatchUpsertFailed, err)
			}
		} else {
			if err := r.store.BatchInsertReferenceItems(userID, catalogID, batch); err != nil {
				return count, fmt.Errorf("%w: %v", ErrBatchInsertFailed, err)
			}
		}

		count += len(batch)
	}

	return count, nil
}
