package postgres

import (
	"context"

	"github.com/NastyaGoryachaya/block-aggregator/internal/domain"
)

// RegistryRepo - справочники провайдеров и валют.
type RegistryRepo struct {
	db DB
}

// NewRegistryRepository - Создаёт репозиторий справочников на основе пула соединений.
func NewRegistryRepository(db DB) *RegistryRepo {
	return &RegistryRepo{db: db}
}

// ListProviders - Все провайдеры, отсортированные по имени
func (r *RegistryRepo) ListProviders(ctx context.Context) ([]domain.Provider, error) {
	const query = `SELECT id, name, api_key, url_template FROM providers ORDER BY name, id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Provider{}
	for rows.Next() {
		var p domain.Provider
		if err := rows.Scan(&p.ID, &p.Name, &p.APIKey, &p.URLTemplate); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListCurrencies - Все валюты, отсортированные по имени
func (r *RegistryRepo) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	const query = `SELECT id, name FROM currencies ORDER BY name, id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Currency{}
	for rows.Next() {
		var c domain.Currency
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateProvider - Добавляет провайдера и возвращает его с присвоенным id
func (r *RegistryRepo) CreateProvider(ctx context.Context, p domain.Provider) (domain.Provider, error) {
	const query = `
		INSERT INTO providers (name, api_key, url_template)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := r.db.QueryRow(ctx, query, p.Name, p.APIKey, p.URLTemplate).Scan(&p.ID); err != nil {
		return domain.Provider{}, err
	}
	return p, nil
}

// CreateCurrency - Добавляет валюту
func (r *RegistryRepo) CreateCurrency(ctx context.Context, c domain.Currency) (domain.Currency, error) {
	const query = `INSERT INTO currencies (name) VALUES ($1) RETURNING id`
	if err := r.db.QueryRow(ctx, query, c.Name).Scan(&c.ID); err != nil {
		return domain.Currency{}, err
	}
	return c, nil
}
