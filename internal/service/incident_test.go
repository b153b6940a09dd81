package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shenikar/geo_mesh_sync/internal/models"
	"github.com/shenikar/geo_mesh_sync/internal/service/mocks"
)

// newTestIncidentService создает сервис инцидентов с мокированными зависимостями и фиксированным временем
func newTestIncidentService(t *testing.T) (*incidentService, broadcasterDeps, *mocks.MockExporter) {
	b, deps := newTestBroadcaster(t)
	exporter := mocks.NewMockExporter(gomock.NewController(t))
	svc := NewIncidentService(deps.store, exporter, b, testIdentity, newTestLogger()).(*incidentService)
	svc.now = func() time.Time { return time.Unix(1714564900, 0) }
	return svc, deps, exporter
}

func TestIncidentService_CreateIncident(t *testing.T) {
	svc, deps, exporter := newTestIncidentService(t)
	ctx := context.Background()

	// Подготовка
	input := models.NewIncident{Title: "Flood", Description: "Road under water", Latitude: 59.93, Longitude: 30.31}
	var stored *models.IncidentRecord

	// Ожидания
	deps.store.EXPECT().LatestIncidentTimestamp(ctx, "device-1").Return(int64(0), false, nil)
	deps.store.EXPECT().InsertIncident(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, rec *models.IncidentRecord) (int64, error) {
			assert.Equal(t, "device-1", rec.Phone)
			assert.Equal(t, models.CategoryIncident, rec.Category)
			assert.Equal(t, int64(1714564900), rec.Timestamp)
			assert.Empty(t, rec.Signature)
			stored = rec
			return 9, nil
		})
	deps.store.EXPECT().GetIncident(ctx, int64(9)).DoAndReturn(func(context.Context, int64) (*models.IncidentRecord, error) {
		return stored, nil
	}).Times(2)
	deps.signer.EXPECT().Sign(gomock.Any()).Return(testSignature, nil)
	deps.store.EXPECT().AttachIncidentSignature(ctx, int64(9), testSignature).DoAndReturn(func(context.Context, int64, string) error {
		stored.Signature = testSignature
		return nil
	})
	deps.peers.EXPECT().CurrentPeers(ctx).Return([]string{"10.0.0.1"}, nil)
	deps.sender.EXPECT().Send(ctx, "10.0.0.1:5556", gomock.Any()).Return(nil)
	// В файл обмена уходит запись с уже прикрепленной подписью
	exporter.EXPECT().AppendIncident(gomock.Any()).DoAndReturn(func(rec *models.IncidentRecord) error {
		assert.Equal(t, testSignature, rec.Signature)
		return nil
	})

	// Действие
	rec, err := svc.CreateIncident(ctx, input)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, int64(9), rec.ID)
	assert.Equal(t, testSignature, rec.Signature)
}

func TestIncidentService_CreateIncidentRejectsInput(t *testing.T) {
	tests := []struct {
		name  string
		input models.NewIncident
	}{
		{"empty title", models.NewIncident{Title: ""}},
		{"title too long", models.NewIncident{Title: strings.Repeat("t", models.MaxTitleLength+1)}},
		{"description too long", models.NewIncident{Title: "Fire", Description: strings.Repeat("d", models.MaxDescriptionLength+1)}},
		{"delimiter in title", models.NewIncident{Title: "Fire|smoke"}},
		{"delimiter in description", models.NewIncident{Title: "Fire", Description: "a|b"}},
		{"latitude out of range", models.NewIncident{Title: "Fire", Latitude: 91}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps, _ := newTestIncidentService(t)
			deps.store.EXPECT().InsertIncident(gomock.Any(), gomock.Any()).Times(0)

			_, err := svc.CreateIncident(context.Background(), tt.input)
			assert.ErrorIs(t, err, models.ErrValidationFailed)
		})
	}
}

func TestIncidentService_CreateIncidentSameSecondGetsNextTimestamp(t *testing.T) {
	svc, deps, exporter := newTestIncidentService(t)
	ctx := context.Background()

	// Подготовка: в эту же секунду устройство уже создало инцидент
	deps.store.EXPECT().LatestIncidentTimestamp(ctx, "device-1").Return(int64(1714564900), true, nil)

	// Ожидания
	deps.store.EXPECT().InsertIncident(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, rec *models.IncidentRecord) (int64, error) {
			assert.Equal(t, int64(1714564901), rec.Timestamp)
			return 3, nil
		})
	deps.store.EXPECT().GetIncident(ctx, int64(3)).Return(testIncident(3), nil).Times(2)
	deps.peers.EXPECT().CurrentPeers(ctx).Return(nil, nil)
	exporter.EXPECT().AppendIncident(gomock.Any()).Return(nil)

	// Действие
	_, err := svc.CreateIncident(ctx, models.NewIncident{Title: "Second", Latitude: 1, Longitude: 1})

	// Проверки
	require.NoError(t, err)
}

func TestIncidentService_CreateIncidentStoreFailureOnTimestamp(t *testing.T) {
	svc, deps, _ := newTestIncidentService(t)
	ctx := context.Background()

	deps.store.EXPECT().LatestIncidentTimestamp(ctx, "device-1").Return(int64(0), false, models.ErrStoreFailure)
	deps.store.EXPECT().InsertIncident(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.CreateIncident(ctx, models.NewIncident{Title: "Fire", Latitude: 1, Longitude: 1})
	assert.ErrorIs(t, err, models.ErrStoreFailure)
}
