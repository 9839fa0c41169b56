package service

import (
	"context"
	"errors"
	"time"

	"github.com/storedesk/ticketbot/internal/errs"
	"github.com/storedesk/ticketbot/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TicketStore is the durable mirror of the in-memory ticket index. It
// backs the admin API and seeds closed states after a restart. Writes are
// issued best-effort from the engine.
type TicketStore struct {
	db *gorm.DB
}

func NewTicketStore(db *gorm.DB) *TicketStore {
	return &TicketStore{db: db}
}

// RecordOpened upserts the record for a provisioned channel. A reprovision
// after external channel deletion reuses the row keyed by channel id.
func (s *TicketStore) RecordOpened(ctx context.Context, rec *model.TicketRecord) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "channel_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"owner_id", "category_id", "status", "updated_at"}),
	}).Create(rec).Error
}

// RecordStatus updates the lifecycle status of a known channel.
func (s *TicketStore) RecordStatus(ctx context.Context, channelID string, status model.TicketStatus) error {
	changes := map[string]interface{}{"status": status}
	if status == model.TicketStatusClosed {
		now := time.Now()
		changes["closed_at"] = &now
	} else {
		changes["closed_at"] = nil
	}
	return s.db.WithContext(ctx).
		Model(&model.TicketRecord{}).
		Where("channel_id = ?", channelID).
		Updates(changes).Error
}

// Statuses returns the persisted status per channel id, for index rebuild.
func (s *TicketStore) Statuses(ctx context.Context) (map[string]model.TicketStatus, error) {
	var rows []model.TicketRecord
	if err := s.db.WithContext(ctx).Select("channel_id", "status").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]model.TicketStatus, len(rows))
	for _, r := range rows {
		out[r.ChannelID] = r.Status
	}
	return out, nil
}

// GetByChannel returns a single mirrored record.
func (s *TicketStore) GetByChannel(ctx context.Context, channelID string) (*model.TicketRecord, error) {
	var rec model.TicketRecord
	if err := s.db.WithContext(ctx).Where("channel_id = ?", channelID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// List returns mirrored records with optional filters and pagination.
func (s *TicketStore) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]model.TicketRecord, int64, error) {
	var items []model.TicketRecord
	var total int64
	tx := s.db.WithContext(ctx).Model(&model.TicketRecord{})
	for k, v := range filter {
		tx = tx.Where(k, v)
	}
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if offset > 0 {
		tx = tx.Offset(offset)
	}
	if err := tx.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
