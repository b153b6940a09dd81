package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/geo_mesh_sync/internal/models"
	"github.com/shenikar/geo_mesh_sync/internal/service"
)

// incidentCacheTTL - время жизни инцидента в кэше Redis
const incidentCacheTTL = 10 * time.Minute

type RecordRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

// NewRecordRepository создает хранилище записей в Postgres. redisClient может быть nil, тогда кэш выключен.
func NewRecordRepository(db *pgxpool.Pool, redisClient *redis.Client) service.RecordStore {
	return &RecordRepository{
		db:          db,
		redisClient: redisClient,
	}
}

const insertLocationQuery = `
	INSERT INTO locations (phone, subscriber_id, location, altitude, accuracy, ts, timezone, origin, source, signature)
	VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326), $5, $6, $7, $8, $9, $10, $11) RETURNING id;
`

const insertIncidentQuery = `
	INSERT INTO incidents (phone, subscriber_id, title, description, category, location, ts, timezone, origin, source, signature)
	VALUES ($1, $2, $3, $4, $5, ST_SetSRID(ST_MakePoint($6, $7), 4326), $8, $9, $10, $11, $12) RETURNING id;
`

func locationArgs(rec *models.LocationRecord) []any {
	return []any{
		rec.Phone,
		rec.SubscriberID,
		rec.Longitude,
		rec.Latitude,
		rec.Altitude,
		rec.Accuracy,
		rec.Timestamp,
		rec.Timezone,
		string(rec.Origin),
		rec.Source,
		rec.Signature,
	}
}

func incidentArgs(rec *models.IncidentRecord) []any {
	return []any{
		rec.Phone,
		rec.SubscriberID,
		rec.Title,
		rec.Description,
		rec.Category,
		rec.Longitude,
		rec.Latitude,
		rec.Timestamp,
		rec.Timezone,
		string(rec.Origin),
		rec.Source,
		rec.Signature,
	}
}

// InsertLocation создает новую запись местоположения в бд
func (r *RecordRepository) InsertLocation(ctx context.Context, rec *models.LocationRecord) (int64, error) {
	if err := r.db.QueryRow(ctx, insertLocationQuery, locationArgs(rec)...).Scan(&rec.ID); err != nil {
		return 0, fmt.Errorf("failed to insert location: %w: %v", models.ErrStoreFailure, err)
	}
	return rec.ID, nil
}

// InsertIncident создает новую запись инцидента в бд
func (r *RecordRepository) InsertIncident(ctx context.Context, rec *models.IncidentRecord) (int64, error) {
	if err := r.db.QueryRow(ctx, insertIncidentQuery, incidentArgs(rec)...).Scan(&rec.ID); err != nil {
		return 0, fmt.Errorf("failed to insert incident: %w: %v", models.ErrStoreFailure, err)
	}
	return rec.ID, nil
}

// GetLocation возвращает запись местоположения по id
func (r *RecordRepository) GetLocation(ctx context.Context, id int64) (*models.LocationRecord, error) {
	rec := &models.LocationRecord{}
	var origin string
	query := `
		SELECT
			id,
			phone,
			subscriber_id,
			ST_Y(location::geometry) as latitude,
			ST_X(location::geometry) as longitude,
			altitude,
			accuracy,
			ts,
			timezone,
			origin,
			source,
			signature
		FROM locations
		WHERE id = $1;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rec.ID,
		&rec.Phone,
		&rec.SubscriberID,
		&rec.Latitude,
		&rec.Longitude,
		&rec.Altitude,
		&rec.Accuracy,
		&rec.Timestamp,
		&rec.Timezone,
		&origin,
		&rec.Source,
		&rec.Signature,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("location with id %d: %w", id, models.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get location by id: %w: %v", models.ErrStoreFailure, err)
	}
	rec.Origin = models.Origin(origin)
	return rec, nil
}

// GetIncident возвращает инцидент по id, сначала заглядывая в кэш Redis
func (r *RecordRepository) GetIncident(ctx context.Context, id int64) (*models.IncidentRecord, error) {
	if cached, err := r.getIncidentFromCache(ctx, id); err == nil && cached != nil {
		return cached, nil
	}

	rec := &models.IncidentRecord{}
	var origin string
	query := `
		SELECT
			id,
			phone,
			subscriber_id,
			title,
			description,
			category,
			ST_Y(location::geometry) as latitude,
			ST_X(location::geometry) as longitude,
			ts,
			timezone,
			origin,
			source,
			signature
		FROM incidents
		WHERE id = $1;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rec.ID,
		&rec.Phone,
		&rec.SubscriberID,
		&rec.Title,
		&rec.Description,
		&rec.Category,
		&rec.Latitude,
		&rec.Longitude,
		&rec.Timestamp,
		&rec.Timezone,
		&origin,
		&rec.Source,
		&rec.Signature,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %d: %w", id, models.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w: %v", models.ErrStoreFailure, err)
	}
	rec.Origin = models.Origin(origin)

	// Ошибка кэша не мешает вернуть запись из бд
	_ = r.setIncidentCache(ctx, rec)
	return rec, nil
}

func (r *RecordRepository) LocationExists(ctx context.Context, phone, source string, timestamp int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM locations WHERE phone = $1 AND source = $2 AND ts = $3);`
	var exists bool
	if err := r.db.QueryRow(ctx, query, phone, source, timestamp).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check location: %w: %v", models.ErrStoreFailure, err)
	}
	return exists, nil
}

func (r *RecordRepository) IncidentExists(ctx context.Context, phone string, timestamp int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM incidents WHERE phone = $1 AND ts = $2);`
	var exists bool
	if err := r.db.QueryRow(ctx, query, phone, timestamp).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check incident: %w: %v", models.ErrStoreFailure, err)
	}
	return exists, nil
}

// LatestLocationTimestamp возвращает отметку высокой воды для устройства
func (r *RecordRepository) LatestLocationTimestamp(ctx context.Context, phone string) (int64, bool, error) {
	return r.latestTimestamp(ctx, `SELECT MAX(ts) FROM locations WHERE phone = $1;`, phone)
}

func (r *RecordRepository) LatestIncidentTimestamp(ctx context.Context, phone string) (int64, bool, error) {
	return r.latestTimestamp(ctx, `SELECT MAX(ts) FROM incidents WHERE phone = $1;`, phone)
}

func (r *RecordRepository) latestTimestamp(ctx context.Context, query, phone string) (int64, bool, error) {
	var ts *int64
	if err := r.db.QueryRow(ctx, query, phone).Scan(&ts); err != nil {
		return 0, false, fmt.Errorf("failed to get latest timestamp: %w: %v", models.ErrStoreFailure, err)
	}
	if ts == nil {
		return 0, false, nil
	}
	return *ts, true, nil
}

func (r *RecordRepository) MaxIncidentID(ctx context.Context) (int64, error) {
	var id int64
	if err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) FROM incidents;`).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to get max incident id: %w: %v", models.ErrStoreFailure, err)
	}
	return id, nil
}

func (r *RecordRepository) AttachLocationSignature(ctx context.Context, id int64, signature string) error {
	return r.attachSignature(ctx, "locations", id, signature)
}

// AttachIncidentSignature подписывает инцидент и сбрасывает его кэш
func (r *RecordRepository) AttachIncidentSignature(ctx context.Context, id int64, signature string) error {
	if err := r.attachSignature(ctx, "incidents", id, signature); err != nil {
		return err
	}
	return r.invalidateIncidentCache(ctx, id)
}

// attachSignature записывает подпись один раз: уже подписанная запись не меняется
func (r *RecordRepository) attachSignature(ctx context.Context, table string, id int64, signature string) error {
	query := fmt.Sprintf(`UPDATE %s SET signature = $1 WHERE id = $2 AND signature = '';`, table)
	cmdTag, err := r.db.Exec(ctx, query, signature, id)
	if err != nil {
		return fmt.Errorf("failed to attach signature: %w: %v", models.ErrStoreFailure, err)
	}
	if cmdTag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	existsQuery := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1);`, table)
	if err := r.db.QueryRow(ctx, existsQuery, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check record: %w: %v", models.ErrStoreFailure, err)
	}
	if !exists {
		return fmt.Errorf("%s id %d: %w", table, id, models.ErrRecordNotFound)
	}
	return nil
}

// ApplyBatch вставляет все записи пакета в одной транзакции
func (r *RecordRepository) ApplyBatch(ctx context.Context, b *models.Batch) error {
	if b.Len() == 0 {
		return nil
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin batch: %w: %v", models.ErrStoreFailure, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, rec := range b.Locations {
		batch.Queue(insertLocationQuery, locationArgs(rec)...)
	}
	for _, rec := range b.Incidents {
		batch.Queue(insertIncidentQuery, incidentArgs(rec)...)
	}

	results := tx.SendBatch(ctx, batch)
	for _, rec := range b.Locations {
		if err := results.QueryRow().Scan(&rec.ID); err != nil {
			results.Close()
			return fmt.Errorf("failed to apply location insert: %w: %v", models.ErrStoreFailure, err)
		}
	}
	for _, rec := range b.Incidents {
		if err := results.QueryRow().Scan(&rec.ID); err != nil {
			results.Close()
			return fmt.Errorf("failed to apply incident insert: %w: %v", models.ErrStoreFailure, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w: %v", models.ErrStoreFailure, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit batch: %w: %v", models.ErrStoreFailure, err)
	}
	return nil
}

func incidentCacheKey(id int64) string {
	return fmt.Sprintf("incident:%d", id)
}

// getIncidentFromCache пытается получить инцидент из Redis
func (r *RecordRepository) getIncidentFromCache(ctx context.Context, id int64) (*models.IncidentRecord, error) {
	if r.redisClient == nil {
		return nil, nil
	}
	val, err := r.redisClient.Get(ctx, incidentCacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	rec := &models.IncidentRecord{}
	if err := json.Unmarshal(val, rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return rec, nil
}

// setIncidentCache сохраняет инцидент в Redis
func (r *RecordRepository) setIncidentCache(ctx context.Context, rec *models.IncidentRecord) error {
	if r.redisClient == nil {
		return nil
	}
	val, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, incidentCacheKey(rec.ID), val, incidentCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// invalidateIncidentCache удаляет инцидент из Redis кэша
func (r *RecordRepository) invalidateIncidentCache(ctx context.Context, id int64) error {
	if r.redisClient == nil {
		return nil
	}
	if err := r.redisClient.Del(ctx, incidentCacheKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}
