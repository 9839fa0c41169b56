package service

import (
	"context"
	"errors"

	"github.com/storedesk/ticketbot/internal/errs"
	"github.com/storedesk/ticketbot/internal/model"
	"gorm.io/gorm"
)

// ProductService is the catalog CRUD used by the Discord admin panel and
// the HTTP API.
type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) Create(ctx context.Context, p *model.Product) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *ProductService) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
	var p model.Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	var items []model.Product
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
