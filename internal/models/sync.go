package models

import "time"

// Datagram - принятый UDP-пакет вместе с логическим портом назначения
type Datagram struct {
	// Port различает каналы, когда несколько сборщиков пишут в одну очередь
	Port       int
	Source     string
	Payload    []byte
	ReceivedAt time.Time
}

// Batch - вставки, накопленные за один проход по файлу обмена
type Batch struct {
	Locations []*LocationRecord
	Incidents []*IncidentRecord
}

func (b *Batch) Len() int {
	return len(b.Locations) + len(b.Incidents)
}

// RecordKind - тип записи, определяет канал и таблицу
type RecordKind string

const (
	KindLocation RecordKind = "location"
	KindIncident RecordKind = "incident"
)
