package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/geo_mesh_sync/internal/models"
)

// Identity - данные этого устройства, которыми подписываются собственные записи
type Identity struct {
	DeviceID     string
	SubscriberID string
	Timezone     string
}

// FixResult - итог обработки фикса
type FixResult struct {
	Accepted  bool             `json:"accepted"`
	RecordID  int64            `json:"record_id,omitempty"`
	Broadcast *BroadcastReport `json:"-"`
}

// LocationService определяет контракт для собственных местоположений устройства
type LocationService interface {
	ReportFix(ctx context.Context, fix models.Fix) (*FixResult, error)
	GetLocation(ctx context.Context, id int64) (*models.LocationRecord, error)
	CurrentFix() (models.Fix, bool)
}

type locationService struct {
	selector    *FixSelector
	store       RecordStore
	exporter    Exporter
	broadcaster *Broadcaster
	identity    Identity
	logger      *logrus.Logger
}

// NewLocationService создает сервис. exporter может быть nil, тогда записи не выгружаются в файлы обмена.
func NewLocationService(selector *FixSelector, store RecordStore, exporter Exporter, broadcaster *Broadcaster, identity Identity, logger *logrus.Logger) LocationService {
	return &locationService{
		selector:    selector,
		store:       store,
		exporter:    exporter,
		broadcaster: broadcaster,
		identity:    identity,
		logger:      logger,
	}
}

// ReportFix передает фикс селектору. Принятый фикс сохраняется как собственная запись,
// выгружается в файл обмена и рассылается пирам с подписью.
func (s *locationService) ReportFix(ctx context.Context, fix models.Fix) (*FixResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "location",
		"method":   "ReportFix",
		"provider": fix.Provider,
	})

	if fix.Time.IsZero() {
		fix.Time = time.Now()
	}
	revert, ok := s.selector.OfferRevertible(fix)
	if !ok {
		log.Debug("Fix rejected by selector")
		return &FixResult{}, nil
	}

	rec := &models.LocationRecord{
		Phone:        s.identity.DeviceID,
		SubscriberID: s.identity.SubscriberID,
		Latitude:     fix.Latitude,
		Longitude:    fix.Longitude,
		Altitude:     fix.Altitude,
		Accuracy:     fix.Accuracy,
		Timestamp:    fix.Time.Unix(),
		Timezone:     s.identity.Timezone,
		Origin:       models.OriginSelf,
	}
	id, err := s.store.InsertLocation(ctx, rec)
	if err != nil {
		revert()
		log.WithError(err).Error("Failed to store location")
		return nil, fmt.Errorf("service: could not store location: %w", err)
	}
	rec.ID = id
	result := &FixResult{Accepted: true, RecordID: id}

	report, err := s.broadcaster.BuildAndSend(ctx, models.KindLocation, id, true)
	result.Broadcast = report
	if err != nil {
		if !errors.Is(err, models.ErrTransportFailed) {
			log.WithError(err).Error("Failed to broadcast location")
			return result, fmt.Errorf("service: could not broadcast location: %w", err)
		}
		log.WithError(err).Warn("Location broadcast incomplete")
	}

	s.export(ctx, log, id)
	log.WithField("record_id", id).Info("Location recorded")
	return result, nil
}

// export выгружает запись после того, как к ней прикреплена подпись
func (s *locationService) export(ctx context.Context, log *logrus.Entry, id int64) {
	if s.exporter == nil {
		return
	}
	signed, err := s.store.GetLocation(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to reload location for export")
		return
	}
	if err := s.exporter.AppendLocation(signed); err != nil {
		log.WithError(err).Warn("Failed to export location")
	}
}

// GetLocation возвращает запись местоположения по id
func (s *locationService) GetLocation(ctx context.Context, id int64) (*models.LocationRecord, error) {
	rec, err := s.store.GetLocation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get location: %w", err)
	}
	return rec, nil
}

// CurrentFix возвращает текущий лучший фикс
func (s *locationService) CurrentFix() (models.Fix, bool) {
	return s.selector.Current()
}
