package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shenikar/geo_mesh_sync/internal/models"
	"github.com/shenikar/geo_mesh_sync/internal/service/mocks"
)

func TestEngine_CollectorLifecycleAndStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	collector := mocks.NewMockCollector(ctrl)
	selector := NewFixSelector(30*time.Second, 200)
	fix := models.Fix{Latitude: 1, Longitude: 2, Provider: "gps", Time: time.Unix(1714564800, 0)}
	require.True(t, selector.Offer(fix))

	// Ожидания
	stopped := make(chan struct{})
	collector.EXPECT().Name().Return("incident").AnyTimes()
	collector.EXPECT().Port().Return(5556).AnyTimes()
	collector.EXPECT().Received().Return(int64(7)).AnyTimes()
	collector.EXPECT().Running().Return(true).AnyTimes()
	collector.EXPECT().Run(gomock.Any()).Do(func(ctx context.Context) {
		select {
		case <-ctx.Done():
		case <-stopped:
		}
	})
	collector.EXPECT().RequestStop().Do(func() { close(stopped) })

	engine := NewEngine(EngineParts{Collectors: []Collector{collector}, Selector: selector}, newTestLogger())

	// Действие
	require.NoError(t, engine.Start(context.Background()))
	status := engine.Status()

	// Проверки
	assert.True(t, status.Running)
	require.Len(t, status.Channels, 1)
	assert.Equal(t, ChannelStatus{Name: "incident", Port: 5556, Received: 7, Running: true}, status.Channels[0])
	assert.True(t, status.Loops["collector:incident"])
	require.NotNil(t, status.CurrentFix)
	assert.Equal(t, fix, *status.CurrentFix)

	engine.Stop()
	status = engine.Status()
	assert.False(t, status.Running)
	assert.False(t, status.Loops["collector:incident"])
}

func TestEngine_ScanInboxWithoutFileSync(t *testing.T) {
	engine := NewEngine(EngineParts{}, newTestLogger())

	report, err := engine.ScanInbox(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Files)
}
