package domain

import (
	"strings"
	"time"
)

// CurrencyPlaceholder - место подстановки имени валюты в шаблоне URL провайдера
const CurrencyPlaceholder = "{currency}"

// Currency - валюта (сеть), для которой опрашиваются провайдеры
type Currency struct {
	ID   int64  `json:"id"`
	Name string `json:"name"` // bitcoin, ethereum
}

// Provider - внешний источник данных о блоках (block explorer API)
type Provider struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	APIKey      *string `json:"-"`
	URLTemplate string  `json:"-"` // содержит {currency}
}

// URLFor подставляет имя валюты в шаблон провайдера.
func (p Provider) URLFor(c Currency) string {
	return strings.ReplaceAll(p.URLTemplate, CurrencyPlaceholder, c.Name)
}

// HasAPIKey - ключ задан и не пустой
func (p Provider) HasAPIKey() bool {
	return p.APIKey != nil && *p.APIKey != ""
}

// BlockRecord - нормализованный «последний блок», полученный от провайдера
type BlockRecord struct {
	Number    int64
	CreatedAt *time.Time // время блока по данным источника
	Provider  Provider
	Currency  Currency
}

// ProviderRef - провайдер без секретов, в таком виде он уходит наружу
type ProviderRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Block - сохранённая запись о блоке
type Block struct {
	ID        int64       `json:"id"`
	Currency  Currency    `json:"fk_to_currency"`
	Number    int64       `json:"number"`
	CreatedAt *time.Time  `json:"created_at"`
	StoredAt  time.Time   `json:"stored_at"`
	Provider  ProviderRef `json:"provider"`
}

// NewBlock - запись для вставки; ID и StoredAt проставляет хранилище
type NewBlock struct {
	CurrencyID int64
	ProviderID int64
	Number     int64
	CreatedAt  *time.Time
}

// BlockQuery - фильтры выборки блоков; nil означает «без фильтра»
type BlockQuery struct {
	Currency   *string
	ProviderID *int64
	Cursor     *int64 // id <= Cursor
	Limit      int
	Offset     int
}
