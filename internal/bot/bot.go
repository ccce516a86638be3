package bot

import (
	"context"
	"log/slog"
	"time"

	"gopkg.in/telebot.v4"
)

// Config - конфигурация бота
type Config struct {
	Token           string
	LongPollTimeout time.Duration
}

// ProviderDTO - провайдер для вывода в чат
type ProviderDTO struct {
	ID   int64
	Name string
}

// BlockDTO - сохранённый блок для вывода в чат
type BlockDTO struct {
	Currency  string
	Provider  string
	Number    int64
	CreatedAt *time.Time
	StoredAt  time.Time
}

// BlocksReader - чтение провайдеров и последних блоков
type BlocksReader interface {
	ListProviders(ctx context.Context) ([]ProviderDTO, error)
	LatestBlocks(ctx context.Context, currency string, limit int) ([]BlockDTO, error)
}

// Bot - телеграм-бот только для чтения
type Bot struct {
	bot    *telebot.Bot
	blocks BlocksReader
	logger *slog.Logger
}

// New создаёт бота и регистрирует команды
func New(cfg Config, blocks BlocksReader, logger *slog.Logger) (*Bot, error) {
	if cfg.LongPollTimeout <= 0 {
		cfg.LongPollTimeout = 10 * time.Second
	}

	b, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.Token,
		Poller: &telebot.LongPoller{Timeout: cfg.LongPollTimeout},
	})
	if err != nil {
		return nil, err
	}

	bot := &Bot{
		bot:    b,
		blocks: blocks,
		logger: logger,
	}

	// маршруты команд
	b.Handle("/start", bot.handleStart)
	b.Handle("/providers", bot.handleProviders)
	b.Handle("/blocks", bot.handleBlocks)
	return bot, nil
}

// Start запускает long polling и блокируется до отмены ctx
func (b *Bot) Start(ctx context.Context) {
	go b.bot.Start()
	<-ctx.Done()
	b.bot.Stop()
}
