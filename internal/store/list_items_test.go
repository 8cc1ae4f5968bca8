package store

import (
	"errors"
	"testing"

	"procura/internal/model"
)

func seedList(t *testing.T, st *Store, userID string) string {
	t.Helper()
	l, err := st.CreateList(userID, "haftalık sipariş", "")
	if err != nil {
		t.Fatalf("seed list: %v", err)
	}
	return l.ID
}

func TestConsolidateListItem_InsertThenMerge(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	userID := seedUser(t, st)
	listID := seedList(t, st, userID)

	first, err := st.ConsolidateListItem(listID, model.ListItem{
		Code: "401741", Name: "PİRİNÇ", Quantity: 3, Unit: strPtr("kg"),
	})
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	if first.Quantity != 3 {
		t.Fatalf("quantity: %v", first.Quantity)
	}

	second, err := st.ConsolidateListItem(listID, model.ListItem{
		Code: "401741", Name: "PİRİNÇ BALDO", Quantity: 2,
	})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	// 数量累加、名称取新值、单位无新值时沿用旧值，行 id 不变
	if second.ID != first.ID {
		t.Fatalf("row id changed: %s vs %s", second.ID, first.ID)
	}
	if second.Quantity != 5 {
		t.Fatalf("quantity want=5 got=%v", second.Quantity)
	}
	if second.Name != "PİRİNÇ BALDO" {
		t.Fatalf("name: %q", second.Name)
	}
	if second.Unit == nil || *second.Unit != "kg" {
		t.Fatalf("unit should carry over: %+v", second.Unit)
	}

	third, err := st.ConsolidateListItem(listID, model.ListItem{
		Code: "401741", Name: "PİRİNÇ BALDO", Quantity: 1, Unit: strPtr("çuval"),
	})
	if err != nil {
		t.Fatalf("third add: %v", err)
	}
	if third.Quantity != 6 {
		t.Fatalf("quantity want=6 got=%v", third.Quantity)
	}
	if third.Unit == nil || *third.Unit != "çuval" {
		t.Fatalf("new unit should win: %+v", third.Unit)
	}

	items, err := st.ListItemsByList(listID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("want single row got %d", len(items))
	}
}

func TestConsolidateListItem_CollapsesStrayDuplicates(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	userID := seedUser(t, st)
	listID := seedList(t, st, userID)

	// 直接制造历史上遗留的同码重复行
	insert := `
		INSERT INTO list_items (id, list_id, code, name, quantity, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if err := st.Exec(insert, "row-a", listID, "X1", "Vida", 2.0, "2026-01-01 00:00:00"); err != nil {
		t.Fatalf("seed row-a: %v", err)
	}
	if err := st.Exec(insert, "row-b", listID, "X1", "Vida", 3.0, "2026-01-02 00:00:00"); err != nil {
		t.Fatalf("seed row-b: %v", err)
	}

	result, err := st.ConsolidateListItem(listID, model.ListItem{Code: "X1", Name: "Vida M6", Quantity: 1})
	if err != nil {
		t.Fatalf("consolidate: %v", err)
	}
	// 全部同码行数量汇总进最早的一行，其余行删除
	if result.ID != "row-a" {
		t.Fatalf("earliest row should survive, got %s", result.ID)
	}
	if result.Quantity != 6 {
		t.Fatalf("quantity want=6 got=%v", result.Quantity)
	}
	if result.Name != "Vida M6" {
		t.Fatalf("name: %q", result.Name)
	}

	items, err := st.ListItemsByList(listID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("strays should be deleted, got %d rows", len(items))
	}
}

func TestListItemOwnershipAndUpdate(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	alice := seedUser(t, st)
	bob := seedUser(t, st)
	listID := seedList(t, st, alice)

	item, err := st.ConsolidateListItem(listID, model.ListItem{Code: "X1", Name: "Vida", Quantity: 2})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	// 他人清单的行项按不存在处理
	if _, err := st.GetListItemOwned(bob, item.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}
	if _, err := st.UpdateListItem(bob, item.ID, ListItemUpdates{Quantity: floatPtr(9)}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}

	updated, err := st.UpdateListItem(alice, item.ID, ListItemUpdates{
		Quantity: floatPtr(4),
		Notes:    strPtr(" acil "),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Quantity != 4 {
		t.Fatalf("quantity: %v", updated.Quantity)
	}
	if updated.Notes == nil || *updated.Notes != "acil" {
		t.Fatalf("notes: %+v", updated.Notes)
	}

	if err := st.DeleteListItem(alice, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.GetListItemOwned(alice, item.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}
}

func TestListsWithItems(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	userID := seedUser(t, st)
	listID := seedList(t, st, userID)

	if _, err := st.ConsolidateListItem(listID, model.ListItem{Code: "X1", Name: "Vida", Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := st.ConsolidateListItem(listID, model.ListItem{Code: "X2", Name: "Somun", Quantity: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}

	l, err := st.GetListWithItems(userID, listID)
	if err != nil {
		t.Fatalf("get with items: %v", err)
	}
	if len(l.Items) != 2 {
		t.Fatalf("want 2 items got %d", len(l.Items))
	}

	lists, err := st.ListLists(userID)
	if err != nil {
		t.Fatalf("list lists: %v", err)
	}
	if len(lists) != 1 || len(lists[0].Items) != 2 {
		t.Fatalf("unexpected lists: %+v", lists)
	}

	if err := st.DeleteList(userID, listID); err != nil {
		t.Fatalf("delete list: %v", err)
	}
	// 行项级联删除
	items, err := st.ListItemsByList(listID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items should cascade, got %d", len(items))
	}
}
