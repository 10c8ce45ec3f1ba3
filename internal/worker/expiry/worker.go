package expiry

import (
	"context"
	"time"
)

// Worker фоновый воркер авто-истечения неоплаченных бронирований.
// Периодически отменяет pending/pending брони с прошедшим временем
// консультации. Ошибка одного прохода не останавливает воркер.
type Worker struct {
	svc      ExpiryService
	interval time.Duration
	metrics  Metrics
	logger   Logger
}

// NewWorker создает новый воркер авто-истечения
func NewWorker(svc ExpiryService, interval time.Duration, metrics Metrics, logger Logger) *Worker {
	return &Worker{
		svc:      svc,
		interval: interval,
		metrics:  metrics,
		logger:   logger,
	}
}

// Run запускает цикл очистки. Блокирует до отмены контекста.
// Первый проход выполняется сразу, не дожидаясь тикера.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("expiry worker: started, interval=%s", w.interval)

	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("expiry worker: stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep выполняет один проход очистки с изоляцией ошибок
func (w *Worker) sweep(ctx context.Context) {
	expired, err := w.svc.ExpireStale(ctx)
	if err != nil {
		w.logger.Error("expiry worker: sweep failed: %v", err)
		if w.metrics != nil {
			w.metrics.ObserveSweepFailure()
		}
		return
	}

	if expired > 0 {
		w.logger.Info("expiry worker: expired %d stale bookings", expired)
	}
	if w.metrics != nil {
		w.metrics.ObserveExpired(expired)
	}
}
