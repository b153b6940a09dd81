package udp

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/shenikar/geo_mesh_sync/internal/models"
)

// Sender отправляет датаграммы пирам с одного неподключенного сокета
type Sender struct {
	conn         *net.UDPConn
	writeTimeout time.Duration
	mu           sync.Mutex
}

func NewSender(writeTimeout time.Duration) (*Sender, error) {
	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: open send socket: %v", models.ErrBindFailed, err)
	}
	return &Sender{conn: conn, writeTimeout: writeTimeout}, nil
}

// Send пишет одну датаграмму по адресу host:port без повторов
func (s *Sender) Send(ctx context.Context, addr string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrTransportFailed, err)
	}
	ra, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return fmt.Errorf("%w: resolve %s: %v", models.ErrTransportFailed, addr, err)
	}

	deadline := time.Now().Add(s.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("%w: set deadline: %v", models.ErrTransportFailed, err)
	}
	if _, err := s.conn.WriteToUDP(payload, ra); err != nil {
		return fmt.Errorf("%w: write to %s: %v", models.ErrTransportFailed, addr, err)
	}
	return nil
}

func (s *Sender) Close() error {
	return s.conn.Close()
}
