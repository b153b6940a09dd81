// Package udp содержит UDP-каналы движка: сборщик входящих пакетов и отправитель
package udp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/geo_mesh_sync/internal/metrics"
	"github.com/shenikar/geo_mesh_sync/internal/models"
)

const (
	minPort = 1024
	maxPort = 65535

	// UDP отдает датаграмму целиком, буфер рассчитан на максимальный размер
	readBufferSize = 64 * 1024
)

// CollectorConfig - параметры одного логического канала
type CollectorConfig struct {
	Name string
	// Host - адрес привязки, пустой означает все интерфейсы
	Host        string
	Port        int
	ReadTimeout time.Duration
}

// Collector владеет сокетом одного канала и передает принятые датаграммы в общую очередь.
// Полная очередь блокирует сборщик: потери и так ожидаются на уровне UDP.
type Collector struct {
	cfg     CollectorConfig
	conn    *net.UDPConn
	out     chan<- models.Datagram
	logger  *logrus.Logger
	counter prometheus.Counter

	stop     atomic.Bool
	done     chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
	received atomic.Int64
}

// NewCollector привязывает сокет канала. Порт должен быть в диапазоне 1024..65535.
func NewCollector(cfg CollectorConfig, out chan<- models.Datagram, logger *logrus.Logger) (*Collector, error) {
	if cfg.Port < minPort || cfg.Port > maxPort {
		return nil, fmt.Errorf("%w: port %d outside %d..%d", models.ErrBindFailed, cfg.Port, minPort, maxPort)
	}
	if cfg.ReadTimeout <= 0 {
		return nil, fmt.Errorf("%w: read timeout must be positive", models.ErrBindFailed)
	}

	addr := &net.UDPAddr{Port: cfg.Port}
	if cfg.Host != "" {
		addr.IP = net.ParseIP(cfg.Host)
		if addr.IP == nil {
			return nil, fmt.Errorf("%w: invalid bind host %q", models.ErrBindFailed, cfg.Host)
		}
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: listen %s on port %d: %v", models.ErrBindFailed, cfg.Name, cfg.Port, err)
	}

	return &Collector{
		cfg:     cfg,
		conn:    conn,
		out:     out,
		logger:  logger,
		counter: metrics.PacketsReceived.WithLabelValues(cfg.Name),
		done:    make(chan struct{}),
	}, nil
}

// Run читает датаграммы, пока не отменен контекст или не вызван RequestStop.
// Чтение ограничено таймаутом, поэтому флаг остановки проверяется хотя бы раз за ReadTimeout.
func (c *Collector) Run(ctx context.Context) {
	log := c.logger.WithFields(logrus.Fields{
		"component": "collector",
		"channel":   c.cfg.Name,
		"port":      c.cfg.Port,
	})
	c.running.Store(true)
	defer c.running.Store(false)
	defer c.conn.Close()
	log.Info("Collector started")

	buf := make([]byte, readBufferSize)
	for !c.stop.Load() && ctx.Err() == nil {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout)); err != nil {
			log.WithError(err).Warn("Failed to set read deadline")
		}
		n, from, err := c.conn.ReadFromUDP(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				break
			}
			log.WithError(err).Warn("Receive failed")
			continue
		}

		c.received.Add(1)
		c.counter.Inc()

		payload := make([]byte, n)
		copy(payload, buf[:n])
		d := models.Datagram{
			Port:       c.cfg.Port,
			Source:     from.IP.String(),
			Payload:    payload,
			ReceivedAt: time.Now(),
		}

		select {
		case c.out <- d:
		case <-ctx.Done():
		case <-c.done:
		}
	}
	log.WithField("received", c.received.Load()).Info("Collector stopped")
}

// RequestStop выставляет флаг остановки и будит заблокированное чтение
func (c *Collector) RequestStop() {
	c.stopOnce.Do(func() {
		c.stop.Store(true)
		close(c.done)
		_ = c.conn.SetReadDeadline(time.Now())
	})
}

func (c *Collector) Name() string { return c.cfg.Name }

func (c *Collector) Port() int { return c.cfg.Port }

// Received возвращает число принятых датаграмм
func (c *Collector) Received() int64 { return c.received.Load() }

func (c *Collector) Running() bool { return c.running.Load() }
