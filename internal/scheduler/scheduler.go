package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/NastyaGoryachaya/block-aggregator/internal/infra/lock"
	"github.com/robfig/cron/v3"
)

// Runner - одна итерация фоновой задачи (цикл загрузки блоков)
type Runner interface {
	RunCycle(ctx context.Context) error
}

type Locker interface {
	TryLock(ctx context.Context) (lock.ReleaseFunc, bool, error)
}

type Scheduler struct {
	runner   Runner
	interval time.Duration
	locker   Locker
	logger   *slog.Logger
}

// NewScheduler - конструктор планировщика фоновой загрузки блоков
func NewScheduler(runner Runner, interval time.Duration, locker Locker, logger *slog.Logger) *Scheduler {
	if locker == nil {
		locker = lock.NoopLocker{}
	}
	return &Scheduler{
		runner:   runner,
		interval: interval,
		locker:   locker,
		logger:   logger,
	}
}

// Start - запускает периодическое выполнение задачи до остановки контекста.
// Тик, пришедший во время незавершённого цикла, пропускается.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("scheduler started")
	s.logger.Debug("scheduler interval configured", slog.Duration("interval", s.interval))

	cl := cronLogger{s.logger}
	job := cron.NewChain(cron.SkipIfStillRunning(cl)).Then(cron.FuncJob(func() {
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Error("tick: ingestion cycle failed", slog.Any("err", err))
		}
	}))

	c := cron.New(cron.WithLogger(cl))
	c.Schedule(cron.Every(s.interval), job)

	// первый запуск сразу, через ту же обёртку, чтобы не пересечься с тиком
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		job.Run()
	}()

	c.Start()
	<-ctx.Done()

	<-c.Stop().Done()
	wg.Wait()
	s.logger.Info("scheduler stopped")
}

// RunOnce - одна итерация под блокировкой; если блокировку держит другой процесс, цикл пропускается
func (s *Scheduler) RunOnce(ctx context.Context) error {
	release, ok, err := s.locker.TryLock(ctx)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Debug("tick: ingestion cycle is running elsewhere, skipping")
		return nil
	}
	defer func() {
		// контекст может быть уже отменён, а лок надо снять
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("tick: failed to release lock", slog.Any("err", err))
		}
	}()

	s.logger.Debug("tick: running ingestion cycle")
	if err := s.runner.RunCycle(ctx); err != nil {
		return err
	}
	s.logger.Debug("tick: completed")
	return nil
}

// cronLogger - cron.Logger поверх slog
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}
