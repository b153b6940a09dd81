package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/shenikar/geo_mesh_sync/internal/models"
	"github.com/shenikar/geo_mesh_sync/internal/service"
)

// MemoryStore - хранилище записей в памяти процесса для автономного устройства без Postgres.
// Идентификаторы выдаются плотно, начиная с 1.
type MemoryStore struct {
	mu        sync.RWMutex
	locations []models.LocationRecord
	incidents []models.IncidentRecord
}

var _ service.RecordStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) InsertLocation(_ context.Context, rec *models.LocationRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocation(rec), nil
}

func (s *MemoryStore) InsertIncident(_ context.Context, rec *models.IncidentRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertIncident(rec), nil
}

func (s *MemoryStore) insertLocation(rec *models.LocationRecord) int64 {
	stored := *rec
	stored.ID = int64(len(s.locations) + 1)
	s.locations = append(s.locations, stored)
	rec.ID = stored.ID
	return stored.ID
}

func (s *MemoryStore) insertIncident(rec *models.IncidentRecord) int64 {
	stored := *rec
	stored.ID = int64(len(s.incidents) + 1)
	s.incidents = append(s.incidents, stored)
	rec.ID = stored.ID
	return stored.ID
}

func (s *MemoryStore) GetLocation(_ context.Context, id int64) (*models.LocationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id < 1 || id > int64(len(s.locations)) {
		return nil, fmt.Errorf("location with id %d: %w", id, models.ErrRecordNotFound)
	}
	rec := s.locations[id-1]
	return &rec, nil
}

func (s *MemoryStore) GetIncident(_ context.Context, id int64) (*models.IncidentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id < 1 || id > int64(len(s.incidents)) {
		return nil, fmt.Errorf("incident with id %d: %w", id, models.ErrRecordNotFound)
	}
	rec := s.incidents[id-1]
	return &rec, nil
}

func (s *MemoryStore) LocationExists(_ context.Context, phone, source string, timestamp int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.locations {
		r := &s.locations[i]
		if r.Phone == phone && r.Source == source && r.Timestamp == timestamp {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) IncidentExists(_ context.Context, phone string, timestamp int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.incidents {
		if s.incidents[i].Phone == phone && s.incidents[i].Timestamp == timestamp {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) LatestLocationTimestamp(_ context.Context, phone string) (int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest int64
	found := false
	for i := range s.locations {
		if r := &s.locations[i]; r.Phone == phone && (!found || r.Timestamp > latest) {
			latest, found = r.Timestamp, true
		}
	}
	return latest, found, nil
}

func (s *MemoryStore) LatestIncidentTimestamp(_ context.Context, phone string) (int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest int64
	found := false
	for i := range s.incidents {
		if r := &s.incidents[i]; r.Phone == phone && (!found || r.Timestamp > latest) {
			latest, found = r.Timestamp, true
		}
	}
	return latest, found, nil
}

func (s *MemoryStore) MaxIncidentID(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.incidents)), nil
}

func (s *MemoryStore) AttachLocationSignature(_ context.Context, id int64, signature string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 1 || id > int64(len(s.locations)) {
		return fmt.Errorf("location with id %d: %w", id, models.ErrRecordNotFound)
	}
	if s.locations[id-1].Signature == "" {
		s.locations[id-1].Signature = signature
	}
	return nil
}

func (s *MemoryStore) AttachIncidentSignature(_ context.Context, id int64, signature string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 1 || id > int64(len(s.incidents)) {
		return fmt.Errorf("incident with id %d: %w", id, models.ErrRecordNotFound)
	}
	if s.incidents[id-1].Signature == "" {
		s.incidents[id-1].Signature = signature
	}
	return nil
}

// ApplyBatch вставляет все записи пакета под одной блокировкой
func (s *MemoryStore) ApplyBatch(_ context.Context, batch *models.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range batch.Locations {
		s.insertLocation(rec)
	}
	for _, rec := range batch.Incidents {
		s.insertIncident(rec)
	}
	return nil
}

// Counts возвращает число записей в таблицах
func (s *MemoryStore) Counts() (locations, incidents int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.locations), len(s.incidents)
}
