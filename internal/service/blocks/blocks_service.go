package blocks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/NastyaGoryachaya/block-aggregator/internal/domain"
	derrors "github.com/NastyaGoryachaya/block-aggregator/internal/errors"
	"github.com/NastyaGoryachaya/block-aggregator/internal/repository"
)

//go:generate mockgen -source=$GOFILE -destination=mocks/mocks.go -package=mocks

// Чтение сохранённых данных: провайдеры, списки блоков, один блок

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

type Service interface {
	// ListProviders - все провайдеры, без пагинации
	ListProviders(ctx context.Context) ([]domain.Provider, error)
	// ListBlocks - offset-пагинация, новые блоки первыми
	ListBlocks(ctx context.Context, p ListParams) ([]domain.Block, error)
	// ListBlocksFast - cursor-пагинация: id <= cursor, новые первыми
	ListBlocksFast(ctx context.Context, p FastListParams) ([]domain.Block, error)
	// GetBlock - ровно один из способов: по id или по валюте и номеру
	GetBlock(ctx context.Context, l Lookup) (domain.Block, error)
}

type ProviderReader interface {
	ListProviders(ctx context.Context) ([]domain.Provider, error)
}

type BlockReader interface {
	ListBlocks(ctx context.Context, q domain.BlockQuery) ([]domain.Block, error)
	MaxBlockID(ctx context.Context) (id int64, ok bool, err error)
	GetBlockByID(ctx context.Context, id int64) (domain.Block, error)
	GetBlockByNumber(ctx context.Context, currency string, number int64) (domain.Block, error)
}

type ListParams struct {
	Currency   *string
	ProviderID *int64
	Page       int
	PerPage    int
}

type FastListParams struct {
	Currency *string
	Cursor   *int64
	PerPage  int
}

type Lookup struct {
	BlockID  *int64
	Currency *string
	Number   *int64
}

type service struct {
	providers ProviderReader
	blocks    BlockReader
	logger    *slog.Logger
}

func NewService(providers ProviderReader, blocks BlockReader, logger *slog.Logger) Service {
	return &service{
		providers: providers,
		blocks:    blocks,
		logger:    logger,
	}
}

func (s *service) ListProviders(ctx context.Context) ([]domain.Provider, error) {
	items, err := s.providers.ListProviders(ctx)
	if err != nil {
		s.logger.Error("failed to list providers", "err", err)
		return nil, fmt.Errorf("%w: list providers: %v", derrors.ErrInternal, err)
	}
	return items, nil
}

func (s *service) ListBlocks(ctx context.Context, p ListParams) ([]domain.Block, error) {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Page < 1 {
		return nil, fmt.Errorf("%w: page must be >= 1", derrors.ErrBadRequest)
	}
	perPage, err := normalizePerPage(p.PerPage)
	if err != nil {
		return nil, err
	}

	items, err := s.blocks.ListBlocks(ctx, domain.BlockQuery{
		Currency:   p.Currency,
		ProviderID: p.ProviderID,
		Limit:      perPage,
		Offset:     (p.Page - 1) * perPage,
	})
	if err != nil {
		s.logger.Error("failed to list blocks", "page", p.Page, "per_page", perPage, "err", err)
		return nil, fmt.Errorf("%w: list blocks: %v", derrors.ErrInternal, err)
	}
	return items, nil
}

func (s *service) ListBlocksFast(ctx context.Context, p FastListParams) ([]domain.Block, error) {
	perPage, err := normalizePerPage(p.PerPage)
	if err != nil {
		return nil, err
	}
	if p.Cursor != nil && *p.Cursor < 0 {
		return nil, fmt.Errorf("%w: cursor must be >= 0", derrors.ErrBadRequest)
	}

	cursor := p.Cursor
	if cursor == nil {
		// без курсора стартуем с текущего максимума
		maxID, ok, err := s.blocks.MaxBlockID(ctx)
		if err != nil {
			s.logger.Error("failed to resolve max block id", "err", err)
			return nil, fmt.Errorf("%w: max block id: %v", derrors.ErrInternal, err)
		}
		if !ok {
			return []domain.Block{}, nil
		}
		cursor = &maxID
	}

	items, err := s.blocks.ListBlocks(ctx, domain.BlockQuery{
		Currency: p.Currency,
		Cursor:   cursor,
		Limit:    perPage,
	})
	if err != nil {
		s.logger.Error("failed to list blocks by cursor", "cursor", *cursor, "err", err)
		return nil, fmt.Errorf("%w: list blocks: %v", derrors.ErrInternal, err)
	}
	return items, nil
}

func (s *service) GetBlock(ctx context.Context, l Lookup) (domain.Block, error) {
	byNumber := l.Currency != nil || l.Number != nil
	switch {
	case l.BlockID != nil && byNumber:
		return domain.Block{}, fmt.Errorf("%w: use either block_id or currency and number", derrors.ErrBadRequest)
	case l.BlockID == nil && (l.Currency == nil || l.Number == nil):
		return domain.Block{}, fmt.Errorf("%w: block_id or currency and number required", derrors.ErrBadRequest)
	}

	var (
		b   domain.Block
		err error
	)
	if l.BlockID != nil {
		b, err = s.blocks.GetBlockByID(ctx, *l.BlockID)
	} else {
		b, err = s.blocks.GetBlockByNumber(ctx, *l.Currency, *l.Number)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Block{}, derrors.ErrBlockNotFound
	}
	if err != nil {
		s.logger.Error("failed to get block", "err", err)
		return domain.Block{}, fmt.Errorf("%w: get block: %v", derrors.ErrInternal, err)
	}
	return b, nil
}

func normalizePerPage(n int) (int, error) {
	if n == 0 {
		return DefaultPerPage, nil
	}
	if n < 1 || n > MaxPerPage {
		return 0, fmt.Errorf("%w: per_page must be between 1 and %d", derrors.ErrBadRequest, MaxPerPage)
	}
	return n, nil
}
