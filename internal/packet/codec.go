package packet

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shenikar/geo_mesh_sync/internal/models"
)

const (
	// Delimiter - зарезервированный разделитель полей, не экранируется
	Delimiter = "|"
	// MaxDatagramSize - предельный размер одной датаграммы
	MaxDatagramSize = 1024
)

// LocationFields возвращает поля пакета местоположения без подписи
func LocationFields(r *models.LocationRecord) []string {
	return []string{
		strconv.Itoa(models.LocationTypeCode),
		r.Phone,
		r.SubscriberID,
		formatFloat(r.Latitude),
		formatFloat(r.Longitude),
		strconv.FormatInt(r.Timestamp, 10),
		r.Timezone,
	}
}

// IncidentFields возвращает поля пакета инцидента без подписи
func IncidentFields(r *models.IncidentRecord) []string {
	return []string{
		r.Phone,
		r.SubscriberID,
		r.Title,
		r.Description,
		r.Category,
		formatFloat(r.Latitude),
		formatFloat(r.Longitude),
		strconv.FormatInt(r.Timestamp, 10),
		r.Timezone,
	}
}

// Encode склеивает поля через разделитель. Подпись добавляется последним полем, если не пуста.
func Encode(fields []string, signature string) ([]byte, error) {
	for i, f := range fields {
		if strings.Contains(f, Delimiter) {
			return nil, fmt.Errorf("%w: field %d contains delimiter %q", models.ErrSerializationFailed, i, Delimiter)
		}
	}
	out := []byte(strings.Join(fields, Delimiter))
	if signature == "" {
		return checkSize(out)
	}
	return AppendSignature(out, signature)
}

// AppendSignature дописывает подпись к уже сериализованному содержимому
func AppendSignature(content []byte, signature string) ([]byte, error) {
	if strings.Contains(signature, Delimiter) {
		return nil, fmt.Errorf("%w: signature contains delimiter %q", models.ErrSerializationFailed, Delimiter)
	}
	out := make([]byte, 0, len(content)+len(Delimiter)+len(signature))
	out = append(out, content...)
	out = append(out, Delimiter...)
	out = append(out, signature...)
	return checkSize(out)
}

// EncodeLocation сериализует запись местоположения вместе с ее подписью
func EncodeLocation(r *models.LocationRecord) ([]byte, error) {
	return Encode(LocationFields(r), r.Signature)
}

// EncodeIncident сериализует запись инцидента вместе с ее подписью
func EncodeIncident(r *models.IncidentRecord) ([]byte, error) {
	return Encode(IncidentFields(r), r.Signature)
}

// Decode разбивает датаграмму на поля без семантической проверки
func Decode(b []byte) ([]string, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty datagram", models.ErrMalformedPacket)
	}
	if !utf8.Valid(b) {
		return nil, fmt.Errorf("%w: datagram is not valid UTF-8", models.ErrMalformedPacket)
	}
	return strings.Split(string(b), Delimiter), nil
}

// SignedContent возвращает байты, покрытые подписью: все поля, кроме последнего
func SignedContent(fields []string) []byte {
	if len(fields) < 2 {
		return nil
	}
	return []byte(strings.Join(fields[:len(fields)-1], Delimiter))
}

func checkSize(b []byte) ([]byte, error) {
	if len(b) > MaxDatagramSize {
		return nil, fmt.Errorf("%w: packet is %d bytes, limit %d", models.ErrSerializationFailed, len(b), MaxDatagramSize)
	}
	return b, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ContainsDelimiter сообщает, содержит ли текст разделитель протокола
func ContainsDelimiter(s string) bool {
	return strings.Contains(s, Delimiter)
}
