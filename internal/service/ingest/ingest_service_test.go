package ingest_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/NastyaGoryachaya/block-aggregator/internal/domain"
	derrors "github.com/NastyaGoryachaya/block-aggregator/internal/errors"
	"github.com/NastyaGoryachaya/block-aggregator/internal/service/ingest"
	ingestmocks "github.com/NastyaGoryachaya/block-aggregator/internal/service/ingest/mocks"
	"github.com/golang/mock/gomock"
)

var (
	providers = []domain.Provider{
		{ID: 1, Name: "blockchair", URLTemplate: "https://a/{currency}"},
		{ID: 2, Name: "coinmarketcap", URLTemplate: "https://b/{currency}"},
	}
	currencies = []domain.Currency{{ID: 1, Name: "bitcoin"}, {ID: 2, Name: "ethereum"}}
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// store - хранилище в памяти с тем же ограничением уникальности (number, provider_id)
type store struct {
	mu   sync.Mutex
	rows map[[2]int64]domain.NewBlock
}

func newStore() *store { return &store{rows: map[[2]int64]domain.NewBlock{}} }

func (s *store) InsertBlock(_ context.Context, b domain.NewBlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]int64{b.Number, b.ProviderID}
	if _, ok := s.rows[key]; ok {
		return derrors.ErrDuplicateBlock
	}
	s.rows[key] = b
	return nil
}

// stubFetcher - каждый провайдер отдаёт для валюты один и тот же номер блока
type stubFetcher struct{}

func (stubFetcher) FetchLatestBlock(_ context.Context, p domain.Provider, c domain.Currency) (domain.BlockRecord, error) {
	return domain.BlockRecord{Number: p.ID*1000 + c.ID, Provider: p, Currency: c}, nil
}

func setup(t *testing.T) (*gomock.Controller, *ingestmocks.MockBlockFetcher, *ingestmocks.MockRegistryReader,
	*ingestmocks.MockBlockWriter, *ingestmocks.MockMetrics) {
	t.Helper()
	ctrl := gomock.NewController(t)
	metrics := ingestmocks.NewMockMetrics(ctrl)
	metrics.EXPECT().ObserveFetch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	metrics.EXPECT().ObserveStored(gomock.Any()).AnyTimes()
	metrics.EXPECT().ObserveCycle(gomock.Any(), gomock.Any()).AnyTimes()
	return ctrl,
		ingestmocks.NewMockBlockFetcher(ctrl),
		ingestmocks.NewMockRegistryReader(ctrl),
		ingestmocks.NewMockBlockWriter(ctrl),
		metrics
}

// Success: полный обход провайдеры × валюты, каждая пара сохраняется
func TestRunCycle_CrossProduct(t *testing.T) {
	t.Parallel()
	ctrl, fetcher, registry, writer, metrics := setup(t)
	defer ctrl.Finish()

	registry.EXPECT().ListProviders(gomock.Any()).Return(providers, nil)
	registry.EXPECT().ListCurrencies(gomock.Any()).Return(currencies, nil)

	var order []string
	fetcher.EXPECT().FetchLatestBlock(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p domain.Provider, c domain.Currency) (domain.BlockRecord, error) {
			order = append(order, p.Name+"/"+c.Name)
			return domain.BlockRecord{Number: 10, Provider: p, Currency: c}, nil
		}).Times(4)

	writer.EXPECT().InsertBlock(gomock.Any(), gomock.AssignableToTypeOf(domain.NewBlock{})).
		DoAndReturn(func(_ context.Context, b domain.NewBlock) error {
			if b.Number != 10 || b.CurrencyID == 0 || b.ProviderID == 0 {
				t.Errorf("unexpected block: %+v", b)
			}
			return nil
		}).Times(4)

	svc := ingest.NewService(fetcher, registry, writer, metrics, quietLogger())
	if err := svc.RunCycle(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"blockchair/bitcoin", "blockchair/ethereum", "coinmarketcap/bitcoin", "coinmarketcap/ethereum"}
	if fmt.Sprint(order) != fmt.Sprint(want) {
		t.Fatalf("unexpected order: %v", order)
	}
}

// FetchFailure: ошибка одной пары не прерывает цикл, для неё ничего не сохраняется
func TestRunCycle_FetchFailureSkipsPair(t *testing.T) {
	t.Parallel()
	ctrl, fetcher, registry, writer, metrics := setup(t)
	defer ctrl.Finish()

	registry.EXPECT().ListProviders(gomock.Any()).Return(providers[:1], nil)
	registry.EXPECT().ListCurrencies(gomock.Any()).Return(currencies, nil)

	fetcher.EXPECT().FetchLatestBlock(gomock.Any(), providers[0], currencies[0]).
		Return(domain.BlockRecord{}, fmt.Errorf("%w: 500", derrors.ErrUpstreamUnavailable))
	fetcher.EXPECT().FetchLatestBlock(gomock.Any(), providers[0], currencies[1]).
		Return(domain.BlockRecord{Number: 7, Provider: providers[0], Currency: currencies[1]}, nil)

	writer.EXPECT().InsertBlock(gomock.Any(), domain.NewBlock{CurrencyID: 2, ProviderID: 1, Number: 7}).Return(nil).Times(1)

	svc := ingest.NewService(fetcher, registry, writer, metrics, quietLogger())
	if err := svc.RunCycle(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// SaveError: упавшая запись не валит цикл
func TestRunCycle_SaveErrorDoesNotAbort(t *testing.T) {
	t.Parallel()
	ctrl, fetcher, registry, writer, metrics := setup(t)
	defer ctrl.Finish()

	registry.EXPECT().ListProviders(gomock.Any()).Return(providers, nil)
	registry.EXPECT().ListCurrencies(gomock.Any()).Return(currencies[:1], nil)
	fetcher.EXPECT().FetchLatestBlock(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.BlockRecord{Number: 1}, nil).Times(2)

	call := 0
	writer.EXPECT().InsertBlock(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, domain.NewBlock) error {
			call++
			if call == 1 {
				return errors.New("insert failed")
			}
			return nil
		}).Times(2)

	svc := ingest.NewService(fetcher, registry, writer, metrics, quietLogger())
	if err := svc.RunCycle(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Duplicate: конфликт уникальности не ошибка и не попадает в метрику сохранённых
func TestRunCycle_DuplicateIsSwallowed(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := ingestmocks.NewMockBlockFetcher(ctrl)
	registry := ingestmocks.NewMockRegistryReader(ctrl)
	writer := ingestmocks.NewMockBlockWriter(ctrl)
	metrics := ingestmocks.NewMockMetrics(ctrl)

	registry.EXPECT().ListProviders(gomock.Any()).Return(providers[:1], nil)
	registry.EXPECT().ListCurrencies(gomock.Any()).Return(currencies[:1], nil)
	fetcher.EXPECT().FetchLatestBlock(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.BlockRecord{Number: 100}, nil)
	writer.EXPECT().InsertBlock(gomock.Any(), gomock.Any()).Return(derrors.ErrDuplicateBlock)

	metrics.EXPECT().ObserveFetch("blockchair", "bitcoin", nil, gomock.Any())
	metrics.EXPECT().ObserveStored(gomock.Any()).Times(0)
	metrics.EXPECT().ObserveCycle(nil, gomock.Any())

	svc := ingest.NewService(fetcher, registry, writer, metrics, quietLogger())
	if err := svc.RunCycle(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// RegistryError: без справочников к провайдерам не ходим
func TestRunCycle_RegistryError(t *testing.T) {
	t.Parallel()
	ctrl, fetcher, registry, writer, metrics := setup(t)
	defer ctrl.Finish()

	registry.EXPECT().ListProviders(gomock.Any()).Return(nil, errors.New("db failure"))
	fetcher.EXPECT().FetchLatestBlock(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	writer.EXPECT().InsertBlock(gomock.Any(), gomock.Any()).Times(0)

	svc := ingest.NewService(fetcher, registry, writer, metrics, quietLogger())
	if err := svc.RunCycle(context.Background()); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

// Cancelled: отменённый контекст останавливает обход между парами
func TestRunCycle_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctrl, fetcher, registry, writer, metrics := setup(t)
	defer ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	registry.EXPECT().ListProviders(gomock.Any()).Return(providers, nil)
	registry.EXPECT().ListCurrencies(gomock.Any()).Return(currencies, nil)
	fetcher.EXPECT().FetchLatestBlock(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	svc := ingest.NewService(fetcher, registry, writer, metrics, quietLogger())
	if err := svc.RunCycle(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// Idempotence: два цикла подряд с неизменными данными дают ровно одну запись на пару
func TestRunCycle_Idempotent(t *testing.T) {
	t.Parallel()
	ctrl, _, registry, _, metrics := setup(t)
	defer ctrl.Finish()

	registry.EXPECT().ListProviders(gomock.Any()).Return(providers, nil).Times(2)
	registry.EXPECT().ListCurrencies(gomock.Any()).Return(currencies, nil).Times(2)

	st := newStore()
	svc := ingest.NewService(stubFetcher{}, registry, st, metrics, quietLogger())
	for i := 0; i < 2; i++ {
		if err := svc.RunCycle(context.Background()); err != nil {
			t.Fatalf("cycle %d: unexpected error: %v", i, err)
		}
	}
	if got := len(st.rows); got != len(providers)*len(currencies) {
		t.Fatalf("expected %d rows, got %d", len(providers)*len(currencies), got)
	}
}

// Concurrent: два параллельных цикла пишут один и тот же блок - в хранилище одна строка, ошибок нет
func TestRunCycle_ConcurrentSameBlock(t *testing.T) {
	t.Parallel()
	ctrl, fetcher, registry, _, metrics := setup(t)
	defer ctrl.Finish()

	registry.EXPECT().ListProviders(gomock.Any()).Return(providers[:1], nil).Times(2)
	registry.EXPECT().ListCurrencies(gomock.Any()).Return(currencies[:1], nil).Times(2)
	fetcher.EXPECT().FetchLatestBlock(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.BlockRecord{Number: 100}, nil).Times(2)

	st := newStore()
	svc := ingest.NewService(fetcher, registry, st, metrics, quietLogger())

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.RunCycle(context.Background())
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(st.rows) != 1 {
		t.Fatalf("expected exactly one row, got %d", len(st.rows))
	}
	if _, ok := st.rows[[2]int64{100, 1}]; !ok {
		t.Fatalf("row (100, 1) missing: %+v", st.rows)
	}
}
