package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/NastyaGoryachaya/block-aggregator/internal/domain"
	derrors "github.com/NastyaGoryachaya/block-aggregator/internal/errors"
)

//go:generate mockgen -source=$GOFILE -destination=mocks/mocks.go -package=mocks

type Service interface {
	RunCycle(ctx context.Context) error
}

// BlockFetcher - внешний источник «последнего блока»
type BlockFetcher interface {
	FetchLatestBlock(ctx context.Context, p domain.Provider, c domain.Currency) (domain.BlockRecord, error)
}

type RegistryReader interface {
	ListProviders(ctx context.Context) ([]domain.Provider, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

type BlockWriter interface {
	InsertBlock(ctx context.Context, b domain.NewBlock) error
}

type Metrics interface {
	ObserveFetch(provider, currency string, err error, started time.Time)
	ObserveStored(provider string)
	ObserveCycle(err error, started time.Time)
}

type ingestService struct {
	fetcher  BlockFetcher
	registry RegistryReader
	blocks   BlockWriter
	metrics  Metrics
	logger   *slog.Logger
}

// NewService - конструктор сервиса загрузки блоков.
func NewService(fetcher BlockFetcher, registry RegistryReader, blocks BlockWriter, metrics Metrics, logger *slog.Logger) Service {
	return &ingestService{
		fetcher:  fetcher,
		registry: registry,
		blocks:   blocks,
		metrics:  metrics,
		logger:   logger,
	}
}

// RunCycle - обходит все пары провайдер × валюта последовательно, для каждой
// запрашивает последний блок и сохраняет его. Ошибка одной пары не прерывает цикл,
// уже сохранённые блоки молча пропускаются.
func (s *ingestService) RunCycle(ctx context.Context) (err error) {
	started := time.Now()
	defer func() { s.metrics.ObserveCycle(err, started) }()

	providers, err := s.registry.ListProviders(ctx)
	if err != nil {
		s.logger.Error("list providers", "err", err)
		return fmt.Errorf("list providers: %w", err)
	}
	currencies, err := s.registry.ListCurrencies(ctx)
	if err != nil {
		s.logger.Error("list currencies", "err", err)
		return fmt.Errorf("list currencies: %w", err)
	}

	for _, p := range providers {
		for _, c := range currencies {
			if err := ctx.Err(); err != nil {
				return err
			}
			s.ingestPair(ctx, p, c)
		}
		s.logger.Info("provider updated", "provider", p.Name, "currencies", len(currencies))
	}
	return nil
}

func (s *ingestService) ingestPair(ctx context.Context, p domain.Provider, c domain.Currency) {
	started := time.Now()
	rec, err := s.fetcher.FetchLatestBlock(ctx, p, c)
	s.metrics.ObserveFetch(p.Name, c.Name, err, started)
	if err != nil {
		s.logger.Error("cant fetch latest block",
			"provider", p.Name, "currency", c.Name, "err", err)
		return
	}

	err = s.blocks.InsertBlock(ctx, domain.NewBlock{
		CurrencyID: c.ID,
		ProviderID: p.ID,
		Number:     rec.Number,
		CreatedAt:  rec.CreatedAt,
	})
	switch {
	case err == nil:
		s.metrics.ObserveStored(p.Name)
		s.logger.Debug("block stored", "provider", p.Name, "currency", c.Name, "number", rec.Number)
	case errors.Is(err, derrors.ErrDuplicateBlock):
		// уже сохранён этим же провайдером
	default:
		s.logger.Warn("save block to db failed",
			"provider", p.Name, "currency", c.Name, "number", rec.Number, "err", err)
	}
}
