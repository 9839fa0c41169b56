package service

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/storedesk/ticketbot/internal/errs"
	"github.com/storedesk/ticketbot/internal/model"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.TicketRecord{}, &model.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestTicketStoreRecordOpenedUpsert(t *testing.T) {
	store := NewTicketStore(testDB(t))
	ctx := context.Background()

	rec := &model.TicketRecord{ChannelID: "chan-1", OwnerID: "user-1", CategoryID: "compra", Status: model.TicketStatusOpen}
	if err := store.RecordOpened(ctx, rec); err != nil {
		t.Fatalf("RecordOpened: %v", err)
	}

	// Same channel id again: the row is updated, not duplicated.
	again := &model.TicketRecord{ChannelID: "chan-1", OwnerID: "user-2", CategoryID: "suporte", Status: model.TicketStatusOpen}
	if err := store.RecordOpened(ctx, again); err != nil {
		t.Fatalf("RecordOpened upsert: %v", err)
	}

	items, total, err := store.List(ctx, nil, 0, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("total = %d items = %d, want 1/1", total, len(items))
	}
	if items[0].OwnerID != "user-2" || items[0].CategoryID != "suporte" {
		t.Fatalf("row = %+v", items[0])
	}
}

func TestTicketStoreRecordStatus(t *testing.T) {
	store := NewTicketStore(testDB(t))
	ctx := context.Background()
	if err := store.RecordOpened(ctx, &model.TicketRecord{ChannelID: "chan-1", OwnerID: "u", CategoryID: "compra", Status: model.TicketStatusOpen}); err != nil {
		t.Fatalf("RecordOpened: %v", err)
	}

	if err := store.RecordStatus(ctx, "chan-1", model.TicketStatusClosed); err != nil {
		t.Fatalf("RecordStatus: %v", err)
	}
	rec, err := store.GetByChannel(ctx, "chan-1")
	if err != nil {
		t.Fatalf("GetByChannel: %v", err)
	}
	if rec.Status != model.TicketStatusClosed || rec.ClosedAt == nil {
		t.Fatalf("record = %+v", rec)
	}

	// Reopen clears closed_at.
	if err := store.RecordStatus(ctx, "chan-1", model.TicketStatusOpen); err != nil {
		t.Fatalf("RecordStatus reopen: %v", err)
	}
	rec, err = store.GetByChannel(ctx, "chan-1")
	if err != nil {
		t.Fatalf("GetByChannel: %v", err)
	}
	if rec.Status != model.TicketStatusOpen || rec.ClosedAt != nil {
		t.Fatalf("record = %+v", rec)
	}
}

func TestTicketStoreStatuses(t *testing.T) {
	store := NewTicketStore(testDB(t))
	ctx := context.Background()
	seed := []model.TicketRecord{
		{ChannelID: "chan-1", OwnerID: "a", CategoryID: "compra", Status: model.TicketStatusOpen},
		{ChannelID: "chan-2", OwnerID: "b", CategoryID: "suporte", Status: model.TicketStatusOpen},
	}
	for k := range seed {
		if err := store.RecordOpened(ctx, &seed[k]); err != nil {
			t.Fatalf("RecordOpened: %v", err)
		}
	}
	if err := store.RecordStatus(ctx, "chan-2", model.TicketStatusClosed); err != nil {
		t.Fatalf("RecordStatus: %v", err)
	}

	statuses, err := store.Statuses(ctx)
	if err != nil {
		t.Fatalf("Statuses: %v", err)
	}
	if statuses["chan-1"] != model.TicketStatusOpen || statuses["chan-2"] != model.TicketStatusClosed {
		t.Fatalf("statuses = %v", statuses)
	}
}

func TestTicketStoreGetByChannelNotFound(t *testing.T) {
	store := NewTicketStore(testDB(t))
	_, err := store.GetByChannel(context.Background(), "missing")
	if !errors.Is(err, errs.ErrTicketNotFound) {
		t.Fatalf("err = %v, want ErrTicketNotFound", err)
	}
}

func TestTicketStoreListFilters(t *testing.T) {
	store := NewTicketStore(testDB(t))
	ctx := context.Background()
	seed := []model.TicketRecord{
		{ChannelID: "chan-1", OwnerID: "a", CategoryID: "compra", Status: model.TicketStatusOpen},
		{ChannelID: "chan-2", OwnerID: "a", CategoryID: "suporte", Status: model.TicketStatusOpen},
		{ChannelID: "chan-3", OwnerID: "b", CategoryID: "compra", Status: model.TicketStatusOpen},
	}
	for k := range seed {
		if err := store.RecordOpened(ctx, &seed[k]); err != nil {
			t.Fatalf("RecordOpened: %v", err)
		}
	}

	items, total, err := store.List(ctx, map[string]interface{}{"owner_id = ?": "a"}, 0, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("total = %d items = %d", total, len(items))
	}

	items, total, err = store.List(ctx, map[string]interface{}{"category_id = ?": "compra"}, 1, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(items) != 1 {
		t.Fatalf("paginated: total = %d items = %d", total, len(items))
	}
}
