package explorer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/NastyaGoryachaya/block-aggregator/internal/config"
	"github.com/NastyaGoryachaya/block-aggregator/internal/domain"
	derrors "github.com/NastyaGoryachaya/block-aggregator/internal/errors"
)

// APIKeyHeader - заголовок, в котором провайдеру передаётся ключ
const APIKeyHeader = "X-CMC_PRO_API_KEY"

// Client - клиент к block explorer API провайдеров.
type Client struct {
	cfg        config.ExplorerConfig
	httpClient *http.Client
}

// NewClient - Создаёт клиента. Timeout == 0 означает таймаут http.Client по умолчанию (нет таймаута).
func NewClient(cfg config.ExplorerConfig) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// latestBlock - поля записи о блоке, которые нас интересуют
type latestBlock struct {
	ID                  json.RawMessage `json:"id"`
	FirstBlockTimestamp json.RawMessage `json:"first_block_timestamp"`
	Time                json.RawMessage `json:"time"`
}

// FetchLatestBlock - один GET к провайдеру и разбор «последнего блока» для валюты.
// Любая проблема (сеть, статус, формат) возвращается как ErrUpstreamUnavailable.
func (c *Client) FetchLatestBlock(ctx context.Context, p domain.Provider, cur domain.Currency) (domain.BlockRecord, error) {
	url := p.URLFor(cur)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.BlockRecord{}, upstream("creating request", err)
	}
	req.Header.Set("Accepts", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if p.HasAPIKey() {
		req.Header.Set(APIKeyHeader, *p.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.BlockRecord{}, upstream("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return domain.BlockRecord{}, upstream("request failed", errors.New(resp.Status))
	}

	var payload struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.BlockRecord{}, upstream("decoding response", err)
	}

	raw, err := firstEntry(payload.Data)
	if err != nil {
		return domain.BlockRecord{}, upstream("extracting latest block", err)
	}

	var lb latestBlock
	if err := json.Unmarshal(raw, &lb); err != nil {
		return domain.BlockRecord{}, upstream("decoding latest block", err)
	}

	number, err := parseBlockID(lb.ID)
	if err != nil {
		return domain.BlockRecord{}, upstream("block id", err)
	}

	rec := domain.BlockRecord{
		Number:   number,
		Provider: p,
		Currency: cur,
	}
	// первое непустое из first_block_timestamp и time
	for _, v := range []json.RawMessage{lb.FirstBlockTimestamp, lb.Time} {
		if ts, ok := parseTimestamp(v); ok {
			rec.CreatedAt = &ts
			break
		}
	}
	return rec, nil
}

func upstream(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", derrors.ErrUpstreamUnavailable, op, err)
}

// firstEntry возвращает первый элемент списка или первое значение объекта
// в порядке следования ключей в документе.
func firstEntry(data json.RawMessage) (json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("no data field: %w", err)
	}
	delim, ok := tok.(json.Delim)
	if !ok || (delim != '[' && delim != '{') {
		return nil, errors.New("data is neither a list nor a mapping")
	}
	if !dec.More() {
		return nil, errors.New("data is empty")
	}
	if delim == '{' {
		// ключ нам не нужен
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
	}
	var first json.RawMessage
	if err := dec.Decode(&first); err != nil {
		return nil, err
	}
	return first, nil
}

// parseBlockID - id может прийти числом или строкой; пустое и нулевое значение - ошибка.
func parseBlockID(raw json.RawMessage) (int64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, errors.New("block id not found")
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int64(f)) {
			return 0, fmt.Errorf("block id %q is not an integer", s)
		}
		n = int64(f)
	}
	if n == 0 {
		return 0, errors.New("block id not found")
	}
	return n, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// parseTimestamp понимает ISO-строки (без зоны - UTC) и unix-время в секундах или миллисекундах.
func parseTimestamp(raw json.RawMessage) (time.Time, bool) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" || s == `""` || s == "false" || s == "0" {
		return time.Time{}, false
	}

	if unq, err := strconv.Unquote(s); err == nil {
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, unq); err == nil {
				return t.UTC(), true
			}
		}
		s = unq
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, false
	}
	// больше 2e10 - это уже миллисекунды
	if f > 2e10 {
		return time.UnixMilli(int64(f)).UTC(), true
	}
	sec := int64(f)
	return time.Unix(sec, int64((f-float64(sec))*1e9)).UTC(), true
}
