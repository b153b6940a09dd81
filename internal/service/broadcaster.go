package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/geo_mesh_sync/internal/metrics"
	"github.com/shenikar/geo_mesh_sync/internal/models"
	"github.com/shenikar/geo_mesh_sync/internal/packet"
)

// Ports - UDP-порты логических каналов
type Ports struct {
	Location int
	Incident int
}

// PortFor возвращает порт канала для типа записи
func (p Ports) PortFor(kind models.RecordKind) (int, bool) {
	switch kind {
	case models.KindLocation:
		return p.Location, true
	case models.KindIncident:
		return p.Incident, true
	}
	return 0, false
}

// BroadcastReport - итог одной рассылки
type BroadcastReport struct {
	Kind       models.RecordKind
	RecordID   int64
	PacketSize int
	Peers      int
	// Failed - ошибки отправки по адресам пиров
	Failed map[string]error
}

// Broadcaster собирает пакет из сохраненной записи и рассылает его текущим пирам
type Broadcaster struct {
	store  RecordStore
	peers  PeerSource
	sender Sender
	signer Signer
	ports  Ports
	logger *logrus.Logger
}

func NewBroadcaster(store RecordStore, peers PeerSource, sender Sender, signer Signer, ports Ports, logger *logrus.Logger) *Broadcaster {
	return &Broadcaster{
		store:  store,
		peers:  peers,
		sender: sender,
		signer: signer,
		ports:  ports,
		logger: logger,
	}
}

// BuildAndSend загружает запись, сериализует ее один раз и отправляет каждому пиру из снимка.
// При attachSignature неподписанная запись подписывается и подпись сохраняется.
// Отказ одного пира не мешает отправке остальным; повторов нет.
func (b *Broadcaster) BuildAndSend(ctx context.Context, kind models.RecordKind, id int64, attachSignature bool) (*BroadcastReport, error) {
	log := b.logger.WithFields(logrus.Fields{
		"component": "broadcaster",
		"method":    "BuildAndSend",
		"kind":      kind,
		"record_id": id,
	})

	port, ok := b.ports.PortFor(kind)
	if !ok {
		return nil, fmt.Errorf("broadcaster: unknown record kind %q", kind)
	}

	var (
		payload []byte
		err     error
	)
	switch kind {
	case models.KindLocation:
		payload, err = b.buildLocation(ctx, id, attachSignature)
	case models.KindIncident:
		payload, err = b.buildIncident(ctx, id, attachSignature)
	}
	if err != nil {
		return nil, err
	}

	report := &BroadcastReport{Kind: kind, RecordID: id, PacketSize: len(payload), Failed: map[string]error{}}

	peers, err := b.peers.CurrentPeers(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to get current peers")
		return report, fmt.Errorf("broadcaster: %w: peer list unavailable: %v", models.ErrTransportFailed, err)
	}
	report.Peers = len(peers)
	if len(peers) == 0 {
		log.Debug("No reachable peers, nothing sent")
		return report, nil
	}

	var errs []error
	for _, peer := range peers {
		addr := net.JoinHostPort(peer, strconv.Itoa(port))
		if err := b.sender.Send(ctx, addr, payload); err != nil {
			metrics.PeerSends.WithLabelValues(string(kind), "failed").Inc()
			log.WithError(err).WithField("peer", addr).Warn("Failed to send packet to peer")
			report.Failed[peer] = err
			errs = append(errs, err)
			continue
		}
		metrics.PeerSends.WithLabelValues(string(kind), "sent").Inc()
	}

	if len(errs) > 0 {
		return report, fmt.Errorf("broadcaster: %w: %d of %d peers failed: %w", models.ErrTransportFailed, len(errs), len(peers), errors.Join(errs...))
	}
	log.WithField("peers", len(peers)).Debug("Packet broadcast")
	return report, nil
}

func (b *Broadcaster) buildLocation(ctx context.Context, id int64, attachSignature bool) ([]byte, error) {
	rec, err := b.store.GetLocation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("broadcaster: load location: %w", err)
	}
	return b.serialize(packet.LocationFields(rec), rec.Signature, attachSignature, func(sig string) error {
		return b.store.AttachLocationSignature(ctx, id, sig)
	})
}

func (b *Broadcaster) buildIncident(ctx context.Context, id int64, attachSignature bool) ([]byte, error) {
	rec, err := b.store.GetIncident(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("broadcaster: load incident: %w", err)
	}
	return b.serialize(packet.IncidentFields(rec), rec.Signature, attachSignature, func(sig string) error {
		return b.store.AttachIncidentSignature(ctx, id, sig)
	})
}

// serialize кодирует содержимое и добавляет подпись. Подпись вычисляется и сохраняется
// только для еще не подписанной записи.
func (b *Broadcaster) serialize(fields []string, signature string, attachSignature bool, persist func(string) error) ([]byte, error) {
	content, err := packet.Encode(fields, "")
	if err != nil {
		return nil, fmt.Errorf("broadcaster: %w", err)
	}

	if signature == "" && attachSignature {
		sig, err := b.signer.Sign(content)
		if err != nil {
			return nil, fmt.Errorf("broadcaster: %w: sign: %v", models.ErrSerializationFailed, err)
		}
		if err := persist(sig); err != nil {
			return nil, fmt.Errorf("broadcaster: attach signature: %w", err)
		}
		signature = sig
	}
	if signature == "" {
		return content, nil
	}

	payload, err := packet.AppendSignature(content, signature)
	if err != nil {
		return nil, fmt.Errorf("broadcaster: %w", err)
	}
	return payload, nil
}
