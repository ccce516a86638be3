//go:build integration

package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/NastyaGoryachaya/block-aggregator/internal/domain"
	derrors "github.com/NastyaGoryachaya/block-aggregator/internal/errors"
	"github.com/NastyaGoryachaya/block-aggregator/internal/infra/db"
	"github.com/NastyaGoryachaya/block-aggregator/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

const postgresImage = "postgres:16-alpine"

type RepositorySuite struct {
	suite.Suite
	ctx       context.Context
	cancel    context.CancelFunc
	container *tcpostgres.PostgresContainer
	dsn       string

	pool     *pgxpool.Pool
	blocks   *BlockRepo
	registry *RegistryRepo
	users    *UserRepo

	testCtx    context.Context
	testCancel context.CancelFunc
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupSuite() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 5*time.Minute)

	container, err := tcpostgres.Run(s.ctx,
		postgresImage,
		tcpostgres.WithDatabase("blocks"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)
	s.dsn = dsn

	s.pool, err = pgxpool.New(s.ctx, dsn)
	s.Require().NoError(err)
}

func (s *RepositorySuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		_ = testcontainers.TerminateContainer(s.container)
	}
	if s.cancel != nil {
		s.cancel()
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// migrationURL - тот же DSN со схемой драйвера pgx5 для golang-migrate
func (s *RepositorySuite) migrationURL() string {
	return "pgx5://" + strings.TrimPrefix(s.dsn, "postgres://")
}

func (s *RepositorySuite) SetupTest() {
	s.testCtx, s.testCancel = context.WithTimeout(context.Background(), time.Minute)
	s.Require().NoError(db.Migrate(s.migrationURL(), db.Up, discardLogger()))

	s.blocks = NewBlockRepository(s.pool)
	s.registry = NewRegistryRepository(s.pool)
	s.users = NewUserRepository(s.pool)
}

func (s *RepositorySuite) TearDownTest() {
	if s.testCancel != nil {
		s.testCancel()
	}
	s.Require().NoError(db.Migrate(s.migrationURL(), db.Down, discardLogger()))
}

func (s *RepositorySuite) seed() (domain.Provider, domain.Currency, domain.Currency) {
	p, err := s.registry.CreateProvider(s.testCtx, domain.Provider{Name: "blockchair", URLTemplate: "https://api.blockchair.com/{currency}/stats"})
	s.Require().NoError(err)
	btc, err := s.registry.CreateCurrency(s.testCtx, domain.Currency{Name: "bitcoin"})
	s.Require().NoError(err)
	eth, err := s.registry.CreateCurrency(s.testCtx, domain.Currency{Name: "ethereum"})
	s.Require().NoError(err)
	return p, btc, eth
}

func (s *RepositorySuite) countBlocks() int {
	var n int
	s.Require().NoError(s.pool.QueryRow(s.testCtx, `SELECT count(*) FROM blocks`).Scan(&n))
	return n
}

func (s *RepositorySuite) TestInsertBlock_Duplicate() {
	p, btc, _ := s.seed()
	b := domain.NewBlock{CurrencyID: btc.ID, ProviderID: p.ID, Number: 100}

	s.Require().NoError(s.blocks.InsertBlock(s.testCtx, b))
	s.Require().ErrorIs(s.blocks.InsertBlock(s.testCtx, b), derrors.ErrDuplicateBlock)
	s.Equal(1, s.countBlocks())
}

func (s *RepositorySuite) TestInsertBlock_Concurrent() {
	p, btc, _ := s.seed()
	b := domain.NewBlock{CurrencyID: btc.ID, ProviderID: p.ID, Number: 100}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.blocks.InsertBlock(s.testCtx, b)
		}(i)
	}
	wg.Wait()

	stored, dup := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			stored++
		case errors.Is(err, derrors.ErrDuplicateBlock):
			dup++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	s.Equal(1, stored)
	s.Equal(1, dup)
	s.Equal(1, s.countBlocks())
}

func (s *RepositorySuite) TestListAndGet() {
	p, btc, eth := s.seed()
	created := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	for i, b := range []domain.NewBlock{
		{CurrencyID: btc.ID, ProviderID: p.ID, Number: 10, CreatedAt: &created},
		{CurrencyID: eth.ID, ProviderID: p.ID, Number: 20},
		{CurrencyID: btc.ID, ProviderID: p.ID, Number: 11},
	} {
		s.Require().NoError(s.blocks.InsertBlock(s.testCtx, b), i)
	}

	maxID, ok, err := s.blocks.MaxBlockID(s.testCtx)
	s.Require().NoError(err)
	s.Require().True(ok)

	all, err := s.blocks.ListBlocks(s.testCtx, domain.BlockQuery{Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(maxID, all[0].ID)
	s.Equal(int64(11), all[0].Number)

	currency := "bitcoin"
	onlyBTC, err := s.blocks.ListBlocks(s.testCtx, domain.BlockQuery{Currency: &currency, Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(onlyBTC, 2)
	s.Equal("bitcoin", onlyBTC[1].Currency.Name)
	s.Equal("blockchair", onlyBTC[1].Provider.Name)
	s.Require().NotNil(onlyBTC[1].CreatedAt)
	s.True(created.Equal(*onlyBTC[1].CreatedAt))

	page2, err := s.blocks.ListBlocks(s.testCtx, domain.BlockQuery{Limit: 2, Offset: 2})
	s.Require().NoError(err)
	s.Len(page2, 1)

	past, err := s.blocks.ListBlocks(s.testCtx, domain.BlockQuery{Limit: 2, Offset: 10})
	s.Require().NoError(err)
	s.Empty(past)

	byCursor, err := s.blocks.ListBlocks(s.testCtx, domain.BlockQuery{Cursor: &maxID, Limit: 10})
	s.Require().NoError(err)
	s.Equal(all[len(all)-1].ID, byCursor[len(byCursor)-1].ID)

	got, err := s.blocks.GetBlockByNumber(s.testCtx, "ethereum", 20)
	s.Require().NoError(err)
	s.Equal("ethereum", got.Currency.Name)

	_, err = s.blocks.GetBlockByID(s.testCtx, 999999)
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *RepositorySuite) TestMaxBlockID_Empty() {
	_, ok, err := s.blocks.MaxBlockID(s.testCtx)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RepositorySuite) TestUsers() {
	u, err := s.users.CreateUser(s.testCtx, domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h", IsActive: true})
	s.Require().NoError(err)
	s.NotZero(u.ID)

	_, err = s.users.CreateUser(s.testCtx, domain.User{Username: "alice", Email: "other@example.com", PasswordHash: "h"})
	s.ErrorIs(err, derrors.ErrDuplicateUsername)

	_, err = s.users.CreateUser(s.testCtx, domain.User{Username: "bob", Email: "alice@example.com", PasswordHash: "h"})
	s.ErrorIs(err, derrors.ErrDuplicateEmail)

	got, err := s.users.GetUserByUsername(s.testCtx, "alice")
	s.Require().NoError(err)
	s.Equal("h", got.PasswordHash)

	_, err = s.users.GetUserByUsername(s.testCtx, "ghost")
	s.ErrorIs(err, repository.ErrNotFound)
}
