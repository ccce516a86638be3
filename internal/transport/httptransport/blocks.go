package httptransport

import (
	"context"
	"log"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/NastyaGoryachaya/block-aggregator/internal/domain"
	"github.com/NastyaGoryachaya/block-aggregator/internal/service/blocks"
	"github.com/labstack/echo/v4"
)

// BlocksService - чтение провайдеров и блоков
type BlocksService interface {
	ListProviders(ctx context.Context) ([]domain.Provider, error)
	ListBlocks(ctx context.Context, p blocks.ListParams) ([]domain.Block, error)
	ListBlocksFast(ctx context.Context, p blocks.FastListParams) ([]domain.Block, error)
	GetBlock(ctx context.Context, l blocks.Lookup) (domain.Block, error)
}

// BlocksHandler - HTTP-handler для /block/*
type BlocksHandler struct {
	logger  *slog.Logger
	svc     BlocksService
	timeout time.Duration
}

func NewBlocksHandler(logger *slog.Logger, svc BlocksService, timeout time.Duration) *BlocksHandler {
	if logger == nil {
		log.Fatal("nil logger")
	}
	if svc == nil {
		log.Fatal("nil service")
	}
	if timeout <= 0 {
		timeout = time.Second * 3
	}
	return &BlocksHandler{
		logger:  logger,
		svc:     svc,
		timeout: timeout,
	}
}

func (h *BlocksHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/providers/", h.ListProviders)
	g.GET("/list", h.ListBlocks)
	g.GET("/fast_list/", h.ListBlocksFast)
	g.GET("/", h.GetBlock)
}

func (h *BlocksHandler) ListProviders(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	items, err := h.svc.ListProviders(ctx)
	if err != nil {
		return writeError(c, h.logger, "ListProviders", err)
	}
	if items == nil {
		items = []domain.Provider{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *BlocksHandler) ListBlocks(c echo.Context) error {
	providerID, err := optionalInt(c, "provider_id")
	if err != nil {
		return writeError(c, h.logger, "ListBlocks", err)
	}
	page, err := boundedInt(c, "page", 1, 1, math.MaxInt32)
	if err != nil {
		return writeError(c, h.logger, "ListBlocks", err)
	}
	perPage, err := boundedInt(c, "per_page", blocks.DefaultPerPage, 1, blocks.MaxPerPage)
	if err != nil {
		return writeError(c, h.logger, "ListBlocks", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	items, err := h.svc.ListBlocks(ctx, blocks.ListParams{
		Currency:   optionalString(c, "currency"),
		ProviderID: providerID,
		Page:       page,
		PerPage:    perPage,
	})
	if err != nil {
		return writeError(c, h.logger, "ListBlocks", err)
	}
	return c.JSON(http.StatusOK, orEmpty(items))
}

func (h *BlocksHandler) ListBlocksFast(c echo.Context) error {
	cursor, err := optionalInt(c, "cursor")
	if err != nil {
		return writeError(c, h.logger, "ListBlocksFast", err)
	}
	if cursor != nil && *cursor < 0 {
		return writeError(c, h.logger, "ListBlocksFast", badParam("cursor", "out of range"))
	}
	perPage, err := boundedInt(c, "per_page", blocks.DefaultPerPage, 1, blocks.MaxPerPage)
	if err != nil {
		return writeError(c, h.logger, "ListBlocksFast", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	items, err := h.svc.ListBlocksFast(ctx, blocks.FastListParams{
		Currency: optionalString(c, "currency"),
		Cursor:   cursor,
		PerPage:  perPage,
	})
	if err != nil {
		return writeError(c, h.logger, "ListBlocksFast", err)
	}
	return c.JSON(http.StatusOK, orEmpty(items))
}

func (h *BlocksHandler) GetBlock(c echo.Context) error {
	blockID, err := optionalInt(c, "block_id")
	if err != nil {
		return writeError(c, h.logger, "GetBlock", err)
	}
	number, err := optionalInt(c, "number")
	if err != nil {
		return writeError(c, h.logger, "GetBlock", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	b, err := h.svc.GetBlock(ctx, blocks.Lookup{
		BlockID:  blockID,
		Currency: optionalString(c, "currency"),
		Number:   number,
	})
	if err != nil {
		return writeError(c, h.logger, "GetBlock", err)
	}
	return c.JSON(http.StatusOK, b)
}

func orEmpty(items []domain.Block) []domain.Block {
	if items == nil {
		return []domain.Block{}
	}
	return items
}
