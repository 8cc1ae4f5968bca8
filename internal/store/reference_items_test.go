package store

import (
	"errors"
	"testing"

	"procura/internal/model"
)

func seedCatalog(t *testing.T, st *Store, userID string) string {
	t.Helper()
	c, err := st.CreateCatalog(userID, "katalog", "")
	if err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	return c.ID
}

func TestBatchInsertAndList(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	userID := seedUser(t, st)
	catalogID := seedCatalog(t, st, userID)

	err := st.BatchInsertReferenceItems(userID, catalogID, []model.ReferenceItem{
		{Code: "X2", Name: "Somun", Price: floatPtr(3.5), Category: strPtr("hırdavat")},
		{Code: "X1", Name: "Vida", Unit: strPtr("adet")},
	})
	if err != nil {
		t.Fatalf("batch insert: %v", err)
	}

	items, err := st.ListReferenceItems(userID, catalogID, ReferenceItemQueryOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("want 2 items got %d", len(items))
	}
	// 按名称排序
	if items[0].Name != "Somun" || items[1].Name != "Vida" {
		t.Fatalf("unexpected order: %s, %s", items[0].Name, items[1].Name)
	}
	if items[0].Price == nil || *items[0].Price != 3.5 {
		t.Fatalf("price roundtrip: %+v", items[0].Price)
	}
	if items[1].Category != nil {
		t.Fatalf("unset category should be nil")
	}
}

func TestBatchUpsert_ConflictOverwrites(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	userID := seedUser(t, st)
	catalogID := seedCatalog(t, st, userID)

	err := st.BatchInsertReferenceItems(userID, catalogID, []model.ReferenceItem{
		{Code: "X1", Name: "Eski Ad", Price: floatPtr(10)},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	before, err := st.ListReferenceItems(userID, catalogID, ReferenceItemQueryOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	err = st.BatchUpsertReferenceItems(userID, catalogID, []model.ReferenceItem{
		{Code: "X1", Name: "Yeni Ad"},
		{Code: "X2", Name: "Somun"},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	after, err := st.ListReferenceItems(userID, catalogID, ReferenceItemQueryOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(after) != 2 {
		t.Fatalf("want 2 items got %d", len(after))
	}

	var x1 *model.ReferenceItem
	for _, it := range after {
		if it.Code == "X1" {
			x1 = it
		}
	}
	if x1 == nil {
		t.Fatalf("X1 missing after upsert")
	}
	// 冲突行整行覆盖，原 id 保留
	if x1.ID != before[0].ID {
		t.Fatalf("id should survive upsert: %s vs %s", x1.ID, before[0].ID)
	}
	if x1.Name != "Yeni Ad" || x1.Price != nil {
		t.Fatalf("fields not overwritten: %+v", x1)
	}
}

func TestListReferenceItems_Filters(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	userID := seedUser(t, st)
	catalogID := seedCatalog(t, st, userID)

	err := st.BatchInsertReferenceItems(userID, catalogID, []model.ReferenceItem{
		{Code: "401741", Name: "PİRİNÇ", Category: strPtr("gıda")},
		{Code: "1100793", Name: "SOĞAN", Category: strPtr("gıda")},
		{Code: "X1", Name: "Vida", Category: strPtr("hırdavat")},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	found, err := st.ListReferenceItems(userID, catalogID, ReferenceItemQueryOptions{Search: "4017"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 1 || found[0].Code != "401741" {
		t.Fatalf("search result: %+v", found)
	}

	found, err = st.ListReferenceItems(userID, catalogID, ReferenceItemQueryOptions{Category: "gıda"})
	if err != nil {
		t.Fatalf("category filter: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("want 2 got %d", len(found))
	}

	found, err = st.ListReferenceItems(userID, catalogID, ReferenceItemQueryOptions{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("paging: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("want 1 got %d", len(found))
	}
}

func TestReferenceItemSingleOps(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	userID := seedUser(t, st)
	catalogID := seedCatalog(t, st, userID)

	item, err := st.AddReferenceItem(userID, catalogID, model.ReferenceItem{
		Code: " X1 ", Name: " Vida ", Unit: strPtr("adet"),
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.Code != "X1" || item.Name != "Vida" {
		t.Fatalf("not trimmed: %+v", item)
	}

	updated, err := st.UpdateReferenceItem(userID, item.ID, ReferenceItemUpdates{
		Price: floatPtr(12.5),
		Unit:  strPtr(""),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price == nil || *updated.Price != 12.5 {
		t.Fatalf("price: %+v", updated.Price)
	}
	// 空串更新落为 NULL
	if updated.Unit != nil {
		t.Fatalf("unit should be cleared: %v", *updated.Unit)
	}

	if err := st.DeleteReferenceItem(userID, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.GetReferenceItem(userID, item.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}
}

func TestDeleteReferenceItemsByCatalog(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	userID := seedUser(t, st)
	catalogA := seedCatalog(t, st, userID)
	catalogB := seedCatalog(t, st, userID)

	if err := st.BatchInsertReferenceItems(userID, catalogA, []model.ReferenceItem{{Code: "X1", Name: "a"}}); err != nil {
		t.Fatalf("seed a: %v", err)
	}
	if err := st.BatchInsertReferenceItems(userID, catalogB, []model.ReferenceItem{{Code: "X1", Name: "b"}}); err != nil {
		t.Fatalf("seed b: %v", err)
	}

	if err := st.DeleteReferenceItemsByCatalog(userID, catalogA); err != nil {
		t.Fatalf("clear: %v", err)
	}

	itemsA, err := st.ListReferenceItems(userID, catalogA, ReferenceItemQueryOptions{})
	if err != nil {
		t.Fatalf("list a: %v", err)
	}
	itemsB, err := st.ListReferenceItems(userID, catalogB, ReferenceItemQueryOptions{})
	if err != nil {
		t.Fatalf("list b: %v", err)
	}
	if len(itemsA) != 0 || len(itemsB) != 1 {
		t.Fatalf("only catalog A should be cleared: %d, %d", len(itemsA), len(itemsB))
	}
}
