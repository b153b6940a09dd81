package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shenikar/geo_mesh_sync/internal/models"
	"github.com/shenikar/geo_mesh_sync/internal/packet"
)

func newTestRepeater(t *testing.T, pick int64) (*Repeater, broadcasterDeps) {
	b, deps := newTestBroadcaster(t)
	r := NewRepeater(deps.store, b, 0, newTestLogger())
	r.randN = func(n int64) int64 {
		require.Less(t, pick, n)
		return pick
	}
	return r, deps
}

func TestRepeater_RebroadcastsSampledIncidentAsIs(t *testing.T) {
	// Подготовка: в хранилище три инцидента, генератор выбирает id 2
	r, deps := newTestRepeater(t, 1)
	ctx := context.Background()

	rec := testIncident(2)
	want, err := packet.EncodeIncident(rec)
	require.NoError(t, err)

	// Ожидания
	deps.store.EXPECT().MaxIncidentID(ctx).Return(int64(3), nil)
	deps.store.EXPECT().GetIncident(ctx, int64(2)).Return(rec, nil)
	deps.peers.EXPECT().CurrentPeers(ctx).Return([]string{"192.168.1.5"}, nil)
	deps.sender.EXPECT().Send(ctx, "192.168.1.5:5556", want).Return(nil).Times(1)
	deps.store.EXPECT().AttachIncidentSignature(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	deps.signer.EXPECT().Sign(gomock.Any()).Times(0)

	// Действие
	id, err := r.RunOnce(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
	assert.Equal(t, int64(1), r.Cycles())
}

func TestRepeater_SamplesUpToMaxID(t *testing.T) {
	r, deps := newTestRepeater(t, 4)
	ctx := context.Background()

	deps.store.EXPECT().MaxIncidentID(ctx).Return(int64(5), nil)
	deps.store.EXPECT().GetIncident(ctx, int64(5)).Return(testIncident(5), nil)
	deps.peers.EXPECT().CurrentPeers(ctx).Return(nil, nil)

	id, err := r.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
}

func TestRepeater_IdleWhenStoreEmpty(t *testing.T) {
	r, deps := newTestRepeater(t, 0)
	ctx := context.Background()

	deps.store.EXPECT().MaxIncidentID(ctx).Return(int64(0), nil)
	deps.store.EXPECT().GetIncident(gomock.Any(), gomock.Any()).Times(0)

	id, err := r.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestRepeater_MissingIncidentIsNoop(t *testing.T) {
	r, deps := newTestRepeater(t, 0)
	ctx := context.Background()

	deps.store.EXPECT().MaxIncidentID(ctx).Return(int64(1), nil)
	deps.store.EXPECT().GetIncident(ctx, int64(1)).Return(nil, fmt.Errorf("incident 1: %w", models.ErrRecordNotFound))
	deps.peers.EXPECT().CurrentPeers(gomock.Any()).Times(0)

	id, err := r.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestRepeater_StoreFailure(t *testing.T) {
	r, deps := newTestRepeater(t, 0)
	ctx := context.Background()

	deps.store.EXPECT().MaxIncidentID(ctx).Return(int64(0), fmt.Errorf("%w: connection refused", models.ErrStoreFailure))

	_, err := r.RunOnce(ctx)
	assert.ErrorIs(t, err, models.ErrStoreFailure)
}
