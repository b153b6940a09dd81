package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/geo_mesh_sync/internal/metrics"
	"github.com/shenikar/geo_mesh_sync/internal/models"
)

// Repeater периодически пересылает пирам случайный сохраненный инцидент,
// чтобы данные доходили до узлов, подключившихся позже.
type Repeater struct {
	store       RecordStore
	broadcaster *Broadcaster
	interval    time.Duration
	logger      *logrus.Logger

	// randN возвращает число из [0, n)
	randN func(n int64) int64

	cycles   atomic.Int64
	stopOnce sync.Once
	done     chan struct{}
}

func NewRepeater(store RecordStore, broadcaster *Broadcaster, interval time.Duration, logger *logrus.Logger) *Repeater {
	return &Repeater{
		store:       store,
		broadcaster: broadcaster,
		interval:    interval,
		logger:      logger,
		randN:       rand.Int64N,
		done:        make(chan struct{}),
	}
}

// RunOnce выполняет один цикл: выбирает id из [1, max] и пересылает инцидент как есть.
// Возвращает выбранный id или 0, если инцидентов нет.
func (r *Repeater) RunOnce(ctx context.Context) (int64, error) {
	log := r.logger.WithFields(logrus.Fields{
		"component": "repeater",
		"method":    "RunOnce",
	})
	r.cycles.Add(1)

	maxID, err := r.store.MaxIncidentID(ctx)
	if err != nil {
		metrics.RepeaterCycles.WithLabelValues("failed").Inc()
		return 0, fmt.Errorf("repeater: %w", err)
	}
	if maxID <= 0 {
		metrics.RepeaterCycles.WithLabelValues("idle").Inc()
		return 0, nil
	}

	id := r.randN(maxID) + 1
	_, err = r.broadcaster.BuildAndSend(ctx, models.KindIncident, id, false)
	switch {
	case err == nil:
		metrics.RepeaterCycles.WithLabelValues("sent").Inc()
	case errors.Is(err, models.ErrRecordNotFound):
		log.WithField("record_id", id).Debug("Selected incident is missing, skipping cycle")
		metrics.RepeaterCycles.WithLabelValues("missing").Inc()
		return 0, nil
	default:
		metrics.RepeaterCycles.WithLabelValues("failed").Inc()
		return id, fmt.Errorf("repeater: %w", err)
	}
	return id, nil
}

// Run выполняет циклы с заданным интервалом до отмены контекста или остановки
func (r *Repeater) Run(ctx context.Context) {
	log := r.logger.WithFields(logrus.Fields{
		"component": "repeater",
		"method":    "Run",
	})
	log.WithField("interval", r.interval.String()).Info("Repeater started")
	defer log.Info("Repeater stopped")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.done:
			return
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil {
				log.WithError(err).Warn("Repeater cycle failed")
			}
		}
	}
}

// RequestStop просит цикл Run завершиться
func (r *Repeater) RequestStop() {
	r.stopOnce.Do(func() { close(r.done) })
}

// Cycles возвращает число выполненных циклов
func (r *Repeater) Cycles() int64 {
	return r.cycles.Load()
}
