package exchange

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/shenikar/geo_mesh_sync/internal/models"
)

// Kind - тип записей в файле обмена
type Kind string

const (
	KindLocation Kind = "locations"
	KindIncident Kind = "incidents"
)

const fileExt = ".pb"

// NormalizeDeviceID оставляет в идентификаторе только строчные латинские буквы и цифры
func NormalizeDeviceID(id string) string {
	var b strings.Builder
	for _, c := range strings.ToLower(id) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// FileName строит имя файла обмена: <устройство>_<ГГГГММДД>.<тип>.pb
func FileName(deviceID string, day time.Time, kind Kind) string {
	return fmt.Sprintf("%s_%s.%s%s", NormalizeDeviceID(deviceID), day.UTC().Format("20060102"), kind, fileExt)
}

// ParseFileName извлекает нормализованный идентификатор устройства и тип записей из имени файла
func ParseFileName(name string) (device string, kind Kind, ok bool) {
	base := filepath.Base(name)
	if !strings.HasSuffix(base, fileExt) {
		return "", "", false
	}
	stem := strings.TrimSuffix(base, fileExt)
	dot := strings.LastIndex(stem, ".")
	if dot < 0 {
		return "", "", false
	}
	kind = Kind(stem[dot+1:])
	if kind != KindLocation && kind != KindIncident {
		return "", "", false
	}
	prefix := stem[:dot]
	us := strings.LastIndex(prefix, "_")
	if us <= 0 {
		return "", "", false
	}
	if _, err := time.Parse("20060102", prefix[us+1:]); err != nil {
		return "", "", false
	}
	return prefix[:us], kind, true
}

// Writer дописывает собственные записи устройства в файлы обмена. Файлы никогда не перезаписываются.
type Writer struct {
	dir      string
	deviceID string
	mu       sync.Mutex
}

// NewWriter создает каталог обмена, если его нет
func NewWriter(dir, deviceID string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create exchange dir: %w", err)
	}
	return &Writer{dir: dir, deviceID: deviceID}, nil
}

func (w *Writer) AppendLocation(r *models.LocationRecord) error {
	return w.append(KindLocation, r.Timestamp, MarshalLocation(r))
}

func (w *Writer) AppendIncident(r *models.IncidentRecord) error {
	return w.append(KindIncident, r.Timestamp, MarshalIncident(r))
}

func (w *Writer) append(kind Kind, ts int64, msg []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	path := filepath.Join(w.dir, FileName(w.deviceID, time.Unix(ts, 0), kind))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open exchange file: %w", err)
	}
	if _, err := f.Write(Frame(msg)); err != nil {
		f.Close()
		return fmt.Errorf("append to exchange file: %w", err)
	}
	return f.Close()
}
