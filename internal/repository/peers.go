package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/geo_mesh_sync/internal/service"
)

// RedisPeerSource читает множество доступных пиров, которое ведет внешний сервис обнаружения
type RedisPeerSource struct {
	redisClient *redis.Client
	key         string
}

func NewRedisPeerSource(client *redis.Client, key string) service.PeerSource {
	return &RedisPeerSource{redisClient: client, key: key}
}

// CurrentPeers возвращает снимок множества пиров в стабильном порядке
func (p *RedisPeerSource) CurrentPeers(ctx context.Context) ([]string, error) {
	peers, err := p.redisClient.SMembers(ctx, p.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read peers from Redis: %w", err)
	}
	sort.Strings(peers)
	return peers, nil
}

// StaticPeerSource - фиксированный список пиров из конфигурации
type StaticPeerSource struct {
	peers []string
}

func NewStaticPeerSource(peers []string) service.PeerSource {
	return &StaticPeerSource{peers: append([]string(nil), peers...)}
}

func (p *StaticPeerSource) CurrentPeers(_ context.Context) ([]string, error) {
	return append([]string(nil), p.peers...), nil
}

// MergedPeerSource объединяет несколько источников без повторов.
// Недоступный источник пропускается, если хотя бы один ответил.
type MergedPeerSource struct {
	sources []service.PeerSource
}

func NewMergedPeerSource(sources ...service.PeerSource) service.PeerSource {
	return &MergedPeerSource{sources: sources}
}

func (p *MergedPeerSource) CurrentPeers(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var (
		out      []string
		firstErr error
		answered bool
	)
	for _, src := range p.sources {
		peers, err := src.CurrentPeers(ctx)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		answered = true
		for _, peer := range peers {
			if _, ok := seen[peer]; ok {
				continue
			}
			seen[peer] = struct{}{}
			out = append(out, peer)
		}
	}
	if !answered && firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
