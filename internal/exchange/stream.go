package exchange

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"
)

// maxMessageSize ограничивает одно сообщение в потоке
const maxMessageSize = 64 << 10

// ErrMalformedStream - поток обрывается посреди сообщения или содержит неверный префикс длины
var ErrMalformedStream = errors.New("malformed exchange stream")

// Frame добавляет к сообщению префикс длины
func Frame(msg []byte) []byte {
	out := make([]byte, 0, protowire.SizeVarint(uint64(len(msg)))+len(msg))
	out = protowire.AppendVarint(out, uint64(len(msg)))
	return append(out, msg...)
}

// Reader читает сообщения из потока по одному
type Reader struct {
	br *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// Next возвращает очередное сообщение. io.EOF означает чистый конец потока.
func (r *Reader) Next() ([]byte, error) {
	n, err := binary.ReadUvarint(r.br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: read length: %v", ErrMalformedStream, err)
	}
	if n > maxMessageSize {
		return nil, fmt.Errorf("%w: message of %d bytes exceeds %d", ErrMalformedStream, n, maxMessageSize)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.br, buf); err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrMalformedStream, err)
	}
	return buf, nil
}
