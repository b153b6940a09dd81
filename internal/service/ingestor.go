package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/geo_mesh_sync/internal/metrics"
	"github.com/shenikar/geo_mesh_sync/internal/models"
	"github.com/shenikar/geo_mesh_sync/internal/packet"
)

// IngestStats - счетчики результатов обработки пакетов
type IngestStats struct {
	Stored     int64 `json:"stored"`
	Duplicates int64 `json:"duplicates"`
	Invalid    int64 `json:"invalid"`
	Failed     int64 `json:"failed"`
}

// Ingestor разбирает, проверяет и сохраняет пакеты, принятые коллекторами.
// Повторная доставка того же пакета ничего не меняет.
type Ingestor struct {
	store  RecordStore
	signer Signer
	ports  Ports
	in     <-chan models.Datagram
	seen   *lru.Cache
	logger *logrus.Logger

	stored     atomic.Int64
	duplicates atomic.Int64
	invalid    atomic.Int64
	failed     atomic.Int64

	stopOnce sync.Once
	done     chan struct{}
}

// NewIngestor создает обработчик. cacheSize - число недавно виденных ключей,
// проверяемых без обращения к хранилищу.
func NewIngestor(store RecordStore, signer Signer, ports Ports, in <-chan models.Datagram, cacheSize int, logger *logrus.Logger) (*Ingestor, error) {
	seen, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("ingestor: dedup cache: %w", err)
	}
	return &Ingestor{
		store:  store,
		signer: signer,
		ports:  ports,
		in:     in,
		seen:   seen,
		logger: logger,
		done:   make(chan struct{}),
	}, nil
}

// Run обрабатывает датаграммы до отмены контекста, остановки или закрытия канала.
// Ошибка отдельного пакета не прерывает цикл.
func (i *Ingestor) Run(ctx context.Context) {
	log := i.logger.WithFields(logrus.Fields{
		"component": "ingestor",
		"method":    "Run",
	})
	log.Info("Ingestor started")
	defer log.Info("Ingestor stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case <-i.done:
			return
		case d, ok := <-i.in:
			if !ok {
				return
			}
			err := i.Handle(ctx, d)
			if err == nil {
				continue
			}
			entry := log.WithError(err).WithFields(logrus.Fields{
				"port":   d.Port,
				"source": d.Source,
			})
			switch {
			case errors.Is(err, models.ErrDuplicateRecord):
				entry.Debug("Duplicate packet dropped")
			case errors.Is(err, models.ErrStoreFailure):
				entry.Error("Failed to store packet")
			default:
				entry.Warn("Packet rejected")
			}
		}
	}
}

// RequestStop просит цикл Run завершиться, повторный вызов безопасен
func (i *Ingestor) RequestStop() {
	i.stopOnce.Do(func() { close(i.done) })
}

// Handle обрабатывает одну датаграмму. Дубликат возвращается как ErrDuplicateRecord.
func (i *Ingestor) Handle(ctx context.Context, d models.Datagram) error {
	var (
		kind models.RecordKind
		err  error
	)
	switch d.Port {
	case i.ports.Location:
		kind = models.KindLocation
	case i.ports.Incident:
		kind = models.KindIncident
	default:
		i.invalid.Add(1)
		return fmt.Errorf("ingestor: %w: no channel on port %d", models.ErrMalformedPacket, d.Port)
	}

	err = i.handle(ctx, kind, d)
	i.account(kind, err)
	return err
}

func (i *Ingestor) handle(ctx context.Context, kind models.RecordKind, d models.Datagram) error {
	if len(d.Payload) > packet.MaxDatagramSize {
		return fmt.Errorf("ingestor: %w: datagram is %d bytes", models.ErrMalformedPacket, len(d.Payload))
	}
	fields, err := packet.Decode(d.Payload)
	if err != nil {
		return fmt.Errorf("ingestor: %w", err)
	}

	if kind == models.KindLocation {
		return i.ingestLocation(ctx, fields, d.Source)
	}
	return i.ingestIncident(ctx, fields, d.Source)
}

func (i *Ingestor) ingestLocation(ctx context.Context, fields []string, source string) error {
	rec, err := packet.ValidateLocation(fields)
	if err != nil {
		return fmt.Errorf("ingestor: %w", err)
	}
	if err := i.verify(fields, rec.Signature); err != nil {
		return err
	}
	rec.Source = source

	key := fmt.Sprintf("location/%s/%s/%d", rec.Phone, rec.Source, rec.Timestamp)
	if i.seen.Contains(key) {
		return models.ErrDuplicateRecord
	}
	exists, err := i.store.LocationExists(ctx, rec.Phone, rec.Source, rec.Timestamp)
	if err != nil {
		return fmt.Errorf("ingestor: %w", err)
	}
	if exists {
		i.seen.Add(key, struct{}{})
		return models.ErrDuplicateRecord
	}
	if _, err := i.store.InsertLocation(ctx, rec); err != nil {
		return fmt.Errorf("ingestor: %w", err)
	}
	i.seen.Add(key, struct{}{})
	return nil
}

func (i *Ingestor) ingestIncident(ctx context.Context, fields []string, source string) error {
	rec, err := packet.ValidateIncident(fields)
	if err != nil {
		return fmt.Errorf("ingestor: %w", err)
	}
	if err := i.verify(fields, rec.Signature); err != nil {
		return err
	}
	rec.Source = source

	key := fmt.Sprintf("incident/%s/%d", rec.Phone, rec.Timestamp)
	if i.seen.Contains(key) {
		return models.ErrDuplicateRecord
	}
	exists, err := i.store.IncidentExists(ctx, rec.Phone, rec.Timestamp)
	if err != nil {
		return fmt.Errorf("ingestor: %w", err)
	}
	if exists {
		i.seen.Add(key, struct{}{})
		return models.ErrDuplicateRecord
	}
	if _, err := i.store.InsertIncident(ctx, rec); err != nil {
		return fmt.Errorf("ingestor: %w", err)
	}
	i.seen.Add(key, struct{}{})
	return nil
}

func (i *Ingestor) verify(fields []string, signature string) error {
	if !i.signer.Verify(packet.SignedContent(fields), signature) {
		return fmt.Errorf("ingestor: %w", models.Invalid("signature rejected"))
	}
	return nil
}

func (i *Ingestor) account(kind models.RecordKind, err error) {
	var result string
	switch {
	case err == nil:
		i.stored.Add(1)
		result = "stored"
	case errors.Is(err, models.ErrDuplicateRecord):
		i.duplicates.Add(1)
		result = "duplicate"
	case errors.Is(err, models.ErrMalformedPacket), errors.Is(err, models.ErrValidationFailed):
		i.invalid.Add(1)
		result = "invalid"
	default:
		i.failed.Add(1)
		result = "failed"
	}
	metrics.PacketsIngested.WithLabelValues(string(kind), result).Inc()
}

// Stats возвращает снимок счетчиков
func (i *Ingestor) Stats() IngestStats {
	return IngestStats{
		Stored:     i.stored.Load(),
		Duplicates: i.duplicates.Load(),
		Invalid:    i.invalid.Load(),
		Failed:     i.failed.Load(),
	}
}
