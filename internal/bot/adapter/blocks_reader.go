package adapter

import (
	"context"

	"github.com/NastyaGoryachaya/block-aggregator/internal/bot"
	"github.com/NastyaGoryachaya/block-aggregator/internal/service/blocks"
)

// serviceBlocksReader - адаптер сервиса блоков к интерфейсу бота BlocksReader.
type serviceBlocksReader struct{ svc blocks.Service }

func NewBlocksReader(svc blocks.Service) bot.BlocksReader {
	return serviceBlocksReader{svc: svc}
}

func (a serviceBlocksReader) ListProviders(ctx context.Context) ([]bot.ProviderDTO, error) {
	items, err := a.svc.ListProviders(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]bot.ProviderDTO, 0, len(items))
	for _, p := range items {
		out = append(out, bot.ProviderDTO{ID: p.ID, Name: p.Name})
	}
	return out, nil
}

// LatestBlocks - первая страница быстрого списка; пустая валюта означает все валюты
func (a serviceBlocksReader) LatestBlocks(ctx context.Context, currency string, limit int) ([]bot.BlockDTO, error) {
	p := blocks.FastListParams{PerPage: limit}
	if currency != "" {
		p.Currency = &currency
	}
	items, err := a.svc.ListBlocksFast(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]bot.BlockDTO, 0, len(items))
	for _, b := range items {
		out = append(out, bot.BlockDTO{
			Currency:  b.Currency.Name,
			Provider:  b.Provider.Name,
			Number:    b.Number,
			CreatedAt: b.CreatedAt,
			StoredAt:  b.StoredAt,
		})
	}
	return out, nil
}
