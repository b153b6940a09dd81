package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/geo_mesh_sync/internal/models"
	"github.com/shenikar/geo_mesh_sync/internal/packet"
)

// IncidentService определяет контракт для бизнес-логики инцидентов
type IncidentService interface {
	CreateIncident(ctx context.Context, in models.NewIncident) (*models.IncidentRecord, error)
	GetIncident(ctx context.Context, id int64) (*models.IncidentRecord, error)
}

type incidentService struct {
	store       RecordStore
	exporter    Exporter
	broadcaster *Broadcaster
	identity    Identity
	now         func() time.Time
	logger      *logrus.Logger
}

func NewIncidentService(store RecordStore, exporter Exporter, broadcaster *Broadcaster, identity Identity, logger *logrus.Logger) IncidentService {
	return &incidentService{
		store:       store,
		exporter:    exporter,
		broadcaster: broadcaster,
		identity:    identity,
		now:         time.Now,
		logger:      logger,
	}
}

// CreateIncident проверяет ввод, сохраняет инцидент этого устройства и рассылает его пирам
func (s *incidentService) CreateIncident(ctx context.Context, in models.NewIncident) (*models.IncidentRecord, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "CreateIncident",
		"title":   in.Title,
	})
	log.Info("Attempting to create a new incident")

	if err := validateNewIncident(in); err != nil {
		log.WithError(err).Warn("Incident rejected")
		return nil, fmt.Errorf("service: %w", err)
	}

	ts, err := s.nextTimestamp(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to read latest incident timestamp")
		return nil, fmt.Errorf("service: could not create incident: %w", err)
	}

	rec := &models.IncidentRecord{
		Phone:        s.identity.DeviceID,
		SubscriberID: s.identity.SubscriberID,
		Title:        in.Title,
		Description:  in.Description,
		Category:     models.CategoryIncident,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		Timestamp:    ts,
		Timezone:     s.identity.Timezone,
		Origin:       models.OriginSelf,
	}
	id, err := s.store.InsertIncident(ctx, rec)
	if err != nil {
		log.WithError(err).Error("Failed to create incident in store")
		return nil, fmt.Errorf("service: could not create incident: %w", err)
	}
	rec.ID = id

	if _, err := s.broadcaster.BuildAndSend(ctx, models.KindIncident, id, true); err != nil {
		if !errors.Is(err, models.ErrTransportFailed) {
			log.WithError(err).Error("Failed to broadcast incident")
			return nil, fmt.Errorf("service: could not broadcast incident: %w", err)
		}
		log.WithError(err).Warn("Incident broadcast incomplete")
	}

	stored, err := s.store.GetIncident(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not reload incident: %w", err)
	}
	// В файл обмена попадает уже подписанная запись
	if s.exporter != nil {
		if err := s.exporter.AppendIncident(stored); err != nil {
			log.WithError(err).Warn("Failed to export incident")
		}
	}
	log.WithField("incident_id", id).Info("Incident created successfully")
	return stored, nil
}

// GetIncident получает инцидент по id
func (s *incidentService) GetIncident(ctx context.Context, id int64) (*models.IncidentRecord, error) {
	rec, err := s.store.GetIncident(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}
	return rec, nil
}

// nextTimestamp возвращает время нового инцидента. Пиры различают инциденты по (устройство, секунда),
// поэтому время собственных инцидентов строго возрастает.
func (s *incidentService) nextTimestamp(ctx context.Context) (int64, error) {
	ts := s.now().Unix()
	latest, ok, err := s.store.LatestIncidentTimestamp(ctx, s.identity.DeviceID)
	if err != nil {
		return 0, err
	}
	if ok && latest >= ts {
		ts = latest + 1
	}
	return ts, nil
}

func validateNewIncident(in models.NewIncident) error {
	if err := packet.CheckTitle(in.Title); err != nil {
		return err
	}
	if err := packet.CheckDescription(in.Description); err != nil {
		return err
	}
	if packet.ContainsDelimiter(in.Title) || packet.ContainsDelimiter(in.Description) {
		return models.Invalid("text contains reserved delimiter %q", packet.Delimiter)
	}
	if in.Latitude < -90 || in.Latitude > 90 || in.Longitude < -180 || in.Longitude > 180 {
		return models.Invalid("coordinates out of range")
	}
	return nil
}
