package packet

import (
	"math"
	"strconv"
	"time"
	_ "time/tzdata"
	"unicode/utf8"

	"github.com/shenikar/geo_mesh_sync/internal/models"
)

const (
	LocationFieldCount = 8
	IncidentFieldCount = 10

	// SubscriberIDLength - 32-байтовый идентификатор в hex
	SubscriberIDLength = 64
	// SignatureLength - 128-байтовая подпись в hex
	SignatureLength = 256
)

// ValidateLocation проверяет поля пакета местоположения и собирает из них запись.
// Проверка все-или-ничего: первое нарушение возвращается как ValidationError.
func ValidateLocation(fields []string) (*models.LocationRecord, error) {
	if len(fields) != LocationFieldCount {
		return nil, models.Invalid("location packet has %d fields, want %d", len(fields), LocationFieldCount)
	}
	typeCode, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, models.Invalid("type code %q is not an integer", fields[0])
	}
	if typeCode != models.LocationTypeCode {
		return nil, models.Invalid("unknown type code %d", typeCode)
	}
	if fields[1] == "" {
		return nil, models.Invalid("phone is empty")
	}
	if err := checkHex("subscriber id", fields[2], SubscriberIDLength); err != nil {
		return nil, err
	}
	lat, lon, err := parseCoordinates(fields[3], fields[4])
	if err != nil {
		return nil, err
	}
	ts, err := parseTimestamp(fields[5])
	if err != nil {
		return nil, err
	}
	if err := CheckTimezone(fields[6]); err != nil {
		return nil, err
	}
	if err := checkHex("signature", fields[7], SignatureLength); err != nil {
		return nil, err
	}

	return &models.LocationRecord{
		Phone:        fields[1],
		SubscriberID: fields[2],
		Latitude:     lat,
		Longitude:    lon,
		Timestamp:    ts,
		Timezone:     fields[6],
		Origin:       models.OriginPeer,
		Signature:    fields[7],
	}, nil
}

// ValidateIncident проверяет поля пакета инцидента и собирает из них запись
func ValidateIncident(fields []string) (*models.IncidentRecord, error) {
	if len(fields) != IncidentFieldCount {
		return nil, models.Invalid("incident packet has %d fields, want %d", len(fields), IncidentFieldCount)
	}
	if fields[0] == "" {
		return nil, models.Invalid("phone is empty")
	}
	if err := checkHex("subscriber id", fields[1], SubscriberIDLength); err != nil {
		return nil, err
	}
	if err := CheckTitle(fields[2]); err != nil {
		return nil, err
	}
	if err := CheckDescription(fields[3]); err != nil {
		return nil, err
	}
	if fields[4] != models.CategoryIncident {
		return nil, models.Invalid("unknown category %q", fields[4])
	}
	lat, lon, err := parseCoordinates(fields[5], fields[6])
	if err != nil {
		return nil, err
	}
	ts, err := parseTimestamp(fields[7])
	if err != nil {
		return nil, err
	}
	if err := CheckTimezone(fields[8]); err != nil {
		return nil, err
	}
	if err := checkHex("signature", fields[9], SignatureLength); err != nil {
		return nil, err
	}

	return &models.IncidentRecord{
		Phone:        fields[0],
		SubscriberID: fields[1],
		Title:        fields[2],
		Description:  fields[3],
		Category:     fields[4],
		Latitude:     lat,
		Longitude:    lon,
		Timestamp:    ts,
		Timezone:     fields[8],
		Origin:       models.OriginPeer,
		Signature:    fields[9],
	}, nil
}

// CheckTimezone принимает только идентификаторы из базы часовых поясов
func CheckTimezone(tz string) error {
	if tz == "" || tz == "Local" {
		return models.Invalid("timezone %q is not a known zone id", tz)
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return models.Invalid("timezone %q is not a known zone id", tz)
	}
	return nil
}

func CheckTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n == 0 || n > models.MaxTitleLength {
		return models.Invalid("title length %d outside 1..%d", n, models.MaxTitleLength)
	}
	return nil
}

func CheckDescription(description string) error {
	if n := utf8.RuneCountInString(description); n > models.MaxDescriptionLength {
		return models.Invalid("description length %d exceeds %d", n, models.MaxDescriptionLength)
	}
	return nil
}

func checkHex(name, v string, want int) error {
	if len(v) != want {
		return models.Invalid("%s has %d chars, want %d hex chars", name, len(v), want)
	}
	for i := 0; i < len(v); i++ {
		c := v[i]
		isHex := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
		if !isHex {
			return models.Invalid("%s contains non-hex char %q", name, c)
		}
	}
	return nil
}

func parseCoordinates(latStr, lonStr string) (float64, float64, error) {
	lat, err := parseFloat("latitude", latStr)
	if err != nil {
		return 0, 0, err
	}
	lon, err := parseFloat("longitude", lonStr)
	if err != nil {
		return 0, 0, err
	}
	if err := checkCoordinates(lat, lon); err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

func checkCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return models.Invalid("latitude %v out of range", lat)
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return models.Invalid("longitude %v out of range", lon)
	}
	return nil
}

func parseFloat(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, models.Invalid("%s %q is not a number", name, s)
	}
	return v, nil
}

func parseTimestamp(s string) (int64, error) {
	ts, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ts < 0 {
		return 0, models.Invalid("timestamp %q is not epoch seconds", s)
	}
	return ts, nil
}
