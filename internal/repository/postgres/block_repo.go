package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NastyaGoryachaya/block-aggregator/internal/domain"
	derrors "github.com/NastyaGoryachaya/block-aggregator/internal/errors"
	"github.com/NastyaGoryachaya/block-aggregator/internal/repository"
	"github.com/jackc/pgx/v5"
)

// BlockRepo - репозиторий для работы с таблицей blocks.
type BlockRepo struct {
	db DB
}

// NewBlockRepository - Создаёт репозиторий блоков на основе пула соединений.
func NewBlockRepository(db DB) *BlockRepo {
	return &BlockRepo{db: db}
}

// Каждая выборка явно джойнит валюту и провайдера, чтобы отдать имена одним запросом
const selectBlocks = `
	SELECT b.id, b.number, b.created_at, b.stored_at,
	       c.id, c.name,
	       p.id, p.name
	FROM blocks b
	JOIN currencies c ON c.id = b.currency_id
	JOIN providers p ON p.id = b.provider_id`

// InsertBlock - Сохраняет блок. Если (number, provider_id) уже есть - ErrDuplicateBlock.
func (r *BlockRepo) InsertBlock(ctx context.Context, b domain.NewBlock) error {
	const query = `
		INSERT INTO blocks (currency_id, provider_id, number, created_at, stored_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (number, provider_id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, b.CurrencyID, b.ProviderID, b.Number, b.CreatedAt)
	if err != nil {
		if _, ok := uniqueConstraint(err); ok {
			return derrors.ErrDuplicateBlock
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return derrors.ErrDuplicateBlock
	}
	return nil
}

// ListBlocks - Блоки по фильтрам, от новых к старым (по внутреннему id)
func (r *BlockRepo) ListBlocks(ctx context.Context, q domain.BlockQuery) ([]domain.Block, error) {
	var (
		where []string
		args  []any
	)
	if q.Currency != nil {
		args = append(args, *q.Currency)
		where = append(where, fmt.Sprintf("c.name = $%d", len(args)))
	}
	if q.ProviderID != nil {
		args = append(args, *q.ProviderID)
		where = append(where, fmt.Sprintf("b.provider_id = $%d", len(args)))
	}
	if q.Cursor != nil {
		args = append(args, *q.Cursor)
		where = append(where, fmt.Sprintf("b.id <= $%d", len(args)))
	}

	var sb strings.Builder
	sb.WriteString(selectBlocks)
	if len(where) > 0 {
		sb.WriteString("\n\tWHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString("\n\tORDER BY b.id DESC")
	args = append(args, q.Limit)
	fmt.Fprintf(&sb, "\n\tLIMIT $%d", len(args))
	if q.Offset > 0 {
		args = append(args, q.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Block{}
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// MaxBlockID - Максимальный id блока; ok=false если таблица пуста
func (r *BlockRepo) MaxBlockID(ctx context.Context) (id int64, ok bool, err error) {
	const query = `SELECT MAX(id) FROM blocks`
	var max *int64
	if err := r.db.QueryRow(ctx, query).Scan(&max); err != nil {
		return 0, false, err
	}
	if max == nil {
		return 0, false, nil
	}
	return *max, true, nil
}

// GetBlockByID - Блок по внутреннему id
func (r *BlockRepo) GetBlockByID(ctx context.Context, id int64) (domain.Block, error) {
	row := r.db.QueryRow(ctx, selectBlocks+`
	WHERE b.id = $1`, id)
	return scanOne(row)
}

// GetBlockByNumber - Блок по имени валюты и номеру. Если подходят несколько
// провайдеров, берётся провайдер с меньшим id.
func (r *BlockRepo) GetBlockByNumber(ctx context.Context, currency string, number int64) (domain.Block, error) {
	row := r.db.QueryRow(ctx, selectBlocks+`
	WHERE c.name = $1 AND b.number = $2
	ORDER BY b.provider_id, b.number
	LIMIT 1`, currency, number)
	return scanOne(row)
}

func scanOne(row pgx.Row) (domain.Block, error) {
	b, err := scanBlock(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Block{}, repository.ErrNotFound
	}
	if err != nil {
		return domain.Block{}, err
	}
	return b, nil
}

func scanBlock(row pgx.Row) (domain.Block, error) {
	var b domain.Block
	err := row.Scan(
		&b.ID, &b.Number, &b.CreatedAt, &b.StoredAt,
		&b.Currency.ID, &b.Currency.Name,
		&b.Provider.ID, &b.Provider.Name,
	)
	return b, err
}
