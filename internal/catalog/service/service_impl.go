package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pointsale/internal/catalog/domain"
	"github.com/smallbiznis/pointsale/internal/clock"
	"github.com/smallbiznis/pointsale/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: p.Clock,
	}
}

func (s *Service) AddItem(ctx context.Context, req domain.AddItemRequest) (domain.Item, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Item{}, domain.ErrInvalidName
	}
	if err := domain.ValidatePrice(req.Price); err != nil {
		return domain.Item{}, err
	}

	items, err := s.repo.LoadCatalog(ctx, s.db)
	if err != nil {
		return domain.Item{}, storageErr(err)
	}
	key := domain.TitleKey(title)
	if indexOf(items, key) >= 0 {
		return domain.Item{}, domain.ErrDuplicateItem
	}

	item := domain.Item{
		ID:        s.genID.Generate(),
		Title:     title,
		TitleKey:  key,
		Price:     req.Price,
		CreatedAt: s.clock.Now(),
	}
	items = append(items, item)
	if err := s.repo.SaveCatalog(ctx, s.db, items); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Item{}, domain.ErrDuplicateItem
		}
		return domain.Item{}, storageErr(err)
	}

	s.log.Info("catalog item added",
		zap.String("title", title),
		zap.String("price", domain.FormatPrice(req.Price)),
	)
	return item, nil
}

func (s *Service) RemoveItem(ctx context.Context, title string) error {
	items, err := s.repo.LoadCatalog(ctx, s.db)
	if err != nil {
		return storageErr(err)
	}
	idx := indexOf(items, domain.TitleKey(title))
	if idx < 0 {
		return domain.ErrNotFound
	}

	removed := items[idx]
	items = append(items[:idx], items[idx+1:]...)
	if err := s.repo.SaveCatalog(ctx, s.db, items); err != nil {
		return storageErr(err)
	}

	s.log.Info("catalog item removed", zap.String("title", removed.Title))
	return nil
}

func (s *Service) List(ctx context.Context) ([]domain.Item, error) {
	items, err := s.repo.LoadCatalog(ctx, s.db)
	if err != nil {
		return nil, storageErr(err)
	}
	if items == nil {
		items = []domain.Item{}
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, title string) (domain.Item, error) {
	items, err := s.repo.LoadCatalog(ctx, s.db)
	if err != nil {
		return domain.Item{}, storageErr(err)
	}
	idx := indexOf(items, domain.TitleKey(title))
	if idx < 0 {
		return domain.Item{}, domain.ErrNotFound
	}
	return items[idx], nil
}

func indexOf(items []domain.Item, key string) int {
	for i, item := range items {
		if domain.TitleKey(item.Title) == key {
			return i
		}
	}
	return -1
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
}
