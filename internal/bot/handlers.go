package bot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gopkg.in/telebot.v4"
)

const latestBlocksLimit = 10

const (
	msgInternal = "Не удалось получить данные, попробуйте позже"
	msgNoBlocks = "Блоков пока нет"
)

// handleStart - отправляет справку по доступным командам бота
func (b *Bot) handleStart(c telebot.Context) error {
	return c.Send("Привет! Доступные команды:\n" +
		"/providers - список провайдеров\n" +
		"/blocks - последние блоки по всем валютам\n" +
		"/blocks {currency} - последние блоки по валюте (bitcoin/ethereum)")
}

func (b *Bot) handleProviders(c telebot.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return c.Send(b.providersReply(ctx))
}

func (b *Bot) handleBlocks(c telebot.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	b.logger.Debug("bot: /blocks received",
		slog.Int64("chat_id", c.Chat().ID),
		slog.Int("args_len", len(c.Args())),
	)
	return c.Send(b.blocksReply(ctx, c.Args()))
}

func (b *Bot) providersReply(ctx context.Context) string {
	list, err := b.blocks.ListProviders(ctx)
	if err != nil {
		b.logger.Error("bot: list providers failed", slog.Any("err", err))
		return msgInternal
	}
	if len(list) == 0 {
		return "Провайдеры не настроены"
	}
	return formatProviders(list)
}

// blocksReply - без аргументов последние блоки по всем валютам, с аргументом только по указанной
func (b *Bot) blocksReply(ctx context.Context, args []string) string {
	currency := ""
	if len(args) > 0 {
		currency = strings.ToLower(strings.TrimSpace(args[0]))
	}

	list, err := b.blocks.LatestBlocks(ctx, currency, latestBlocksLimit)
	if err != nil {
		b.logger.Error("bot: latest blocks failed", slog.String("currency", currency), slog.Any("err", err))
		return msgInternal
	}
	if len(list) == 0 {
		return msgNoBlocks
	}
	return formatBlocks(list)
}
