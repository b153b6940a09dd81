package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/shenikar/geo_mesh_sync/internal/models"
)

// RecordStore определяет контракт хранилища записей.
// Хранилище само упорядочивает конкурентные записи.
type RecordStore interface {
	InsertLocation(ctx context.Context, rec *models.LocationRecord) (int64, error)
	InsertIncident(ctx context.Context, rec *models.IncidentRecord) (int64, error)
	GetLocation(ctx context.Context, id int64) (*models.LocationRecord, error)
	GetIncident(ctx context.Context, id int64) (*models.IncidentRecord, error)
	// LocationExists ищет запись по ключу (устройство, источник, время)
	LocationExists(ctx context.Context, phone, source string, timestamp int64) (bool, error)
	// IncidentExists ищет запись по ключу (устройство, время)
	IncidentExists(ctx context.Context, phone string, timestamp int64) (bool, error)
	// LatestLocationTimestamp возвращает самое новое время записи устройства, ok=false если записей нет
	LatestLocationTimestamp(ctx context.Context, phone string) (ts int64, ok bool, err error)
	LatestIncidentTimestamp(ctx context.Context, phone string) (ts int64, ok bool, err error)
	// MaxIncidentID возвращает наибольший id инцидента или 0
	MaxIncidentID(ctx context.Context) (int64, error)
	// AttachLocationSignature записывает подпись только если ее еще нет
	AttachLocationSignature(ctx context.Context, id int64, signature string) error
	AttachIncidentSignature(ctx context.Context, id int64, signature string) error
	// ApplyBatch применяет все вставки пакета или ни одной
	ApplyBatch(ctx context.Context, batch *models.Batch) error
}

// PeerSource отдает снимок адресов пиров, доступных сейчас
type PeerSource interface {
	CurrentPeers(ctx context.Context) ([]string, error)
}

// Sender отправляет одну датаграмму по адресу host:port
type Sender interface {
	Send(ctx context.Context, addr string, payload []byte) error
}

// Signer подписывает содержимое пакета и проверяет подпись
type Signer interface {
	Sign(content []byte) (string, error)
	Verify(content []byte, signature string) bool
}

// Exporter дописывает собственные записи в локальный файл обмена
type Exporter interface {
	AppendLocation(rec *models.LocationRecord) error
	AppendIncident(rec *models.IncidentRecord) error
}

// Collector - цикл приема датаграмм одного логического канала
type Collector interface {
	Run(ctx context.Context)
	RequestStop()
	Name() string
	Port() int
	Received() int64
	Running() bool
}
