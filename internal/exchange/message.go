// Package exchange реализует формат файлов обмена для передачи записей с задержкой:
// поток protobuf-сообщений, каждое с префиксом длины в виде varint.
package exchange

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/shenikar/geo_mesh_sync/internal/models"
)

// Номера полей сообщения местоположения
const (
	locPhone        protowire.Number = 1
	locSubscriberID protowire.Number = 2
	locLatitude     protowire.Number = 3
	locLongitude    protowire.Number = 4
	locAltitude     protowire.Number = 5
	locAccuracy     protowire.Number = 6
	locTimestamp    protowire.Number = 7
	locTimezone     protowire.Number = 8
	locSignature    protowire.Number = 9
)

// Номера полей сообщения точки интереса
const (
	incPhone        protowire.Number = 1
	incSubscriberID protowire.Number = 2
	incTitle        protowire.Number = 3
	incDescription  protowire.Number = 4
	incCategory     protowire.Number = 5
	incLatitude     protowire.Number = 6
	incLongitude    protowire.Number = 7
	incTimestamp    protowire.Number = 8
	incTimezone     protowire.Number = 9
	incSignature    protowire.Number = 10
)

// MarshalLocation кодирует запись местоположения в protobuf
func MarshalLocation(r *models.LocationRecord) []byte {
	var b []byte
	b = appendString(b, locPhone, r.Phone)
	b = appendString(b, locSubscriberID, r.SubscriberID)
	b = appendDouble(b, locLatitude, r.Latitude)
	b = appendDouble(b, locLongitude, r.Longitude)
	if r.Altitude != nil {
		b = appendDouble(b, locAltitude, *r.Altitude)
	}
	if r.Accuracy != nil {
		b = appendDouble(b, locAccuracy, *r.Accuracy)
	}
	b = appendInt64(b, locTimestamp, r.Timestamp)
	b = appendString(b, locTimezone, r.Timezone)
	b = appendString(b, locSignature, r.Signature)
	return b
}

// UnmarshalLocation разбирает сообщение местоположения. Неизвестные поля пропускаются.
func UnmarshalLocation(b []byte) (*models.LocationRecord, error) {
	r := &models.LocationRecord{Origin: models.OriginPeer}
	err := walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case locPhone:
			return consumeString(typ, v, &r.Phone)
		case locSubscriberID:
			return consumeString(typ, v, &r.SubscriberID)
		case locLatitude:
			return consumeDouble(typ, v, &r.Latitude)
		case locLongitude:
			return consumeDouble(typ, v, &r.Longitude)
		case locAltitude:
			var alt float64
			n, err := consumeDouble(typ, v, &alt)
			r.Altitude = &alt
			return n, err
		case locAccuracy:
			var acc float64
			n, err := consumeDouble(typ, v, &acc)
			r.Accuracy = &acc
			return n, err
		case locTimestamp:
			return consumeInt64(typ, v, &r.Timestamp)
		case locTimezone:
			return consumeString(typ, v, &r.Timezone)
		case locSignature:
			return consumeString(typ, v, &r.Signature)
		}
		return skip(num, typ, v)
	})
	if err != nil {
		return nil, fmt.Errorf("decode location message: %w", err)
	}
	return r, nil
}

// MarshalIncident кодирует запись инцидента в protobuf
func MarshalIncident(r *models.IncidentRecord) []byte {
	var b []byte
	b = appendString(b, incPhone, r.Phone)
	b = appendString(b, incSubscriberID, r.SubscriberID)
	b = appendString(b, incTitle, r.Title)
	b = appendString(b, incDescription, r.Description)
	b = appendString(b, incCategory, r.Category)
	b = appendDouble(b, incLatitude, r.Latitude)
	b = appendDouble(b, incLongitude, r.Longitude)
	b = appendInt64(b, incTimestamp, r.Timestamp)
	b = appendString(b, incTimezone, r.Timezone)
	b = appendString(b, incSignature, r.Signature)
	return b
}

// UnmarshalIncident разбирает сообщение точки интереса
func UnmarshalIncident(b []byte) (*models.IncidentRecord, error) {
	r := &models.IncidentRecord{Origin: models.OriginPeer}
	err := walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case incPhone:
			return consumeString(typ, v, &r.Phone)
		case incSubscriberID:
			return consumeString(typ, v, &r.SubscriberID)
		case incTitle:
			return consumeString(typ, v, &r.Title)
		case incDescription:
			return consumeString(typ, v, &r.Description)
		case incCategory:
			return consumeString(typ, v, &r.Category)
		case incLatitude:
			return consumeDouble(typ, v, &r.Latitude)
		case incLongitude:
			return consumeDouble(typ, v, &r.Longitude)
		case incTimestamp:
			return consumeInt64(typ, v, &r.Timestamp)
		case incTimezone:
			return consumeString(typ, v, &r.Timezone)
		case incSignature:
			return consumeString(typ, v, &r.Signature)
		}
		return skip(num, typ, v)
	})
	if err != nil {
		return nil, fmt.Errorf("decode incident message: %w", err)
	}
	return r, nil
}

type fieldFunc func(num protowire.Number, typ protowire.Type, v []byte) (int, error)

func walk(b []byte, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		m, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		b = b[m:]
	}
	return nil
}

func skip(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, v)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	return n, nil
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendInt64(b []byte, num protowire.Number, v int64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func consumeString(typ protowire.Type, b []byte, dst *string) (int, error) {
	if typ != protowire.BytesType {
		return 0, fmt.Errorf("unexpected wire type %d for string field", typ)
	}
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = v
	return n, nil
}

func consumeDouble(typ protowire.Type, b []byte, dst *float64) (int, error) {
	if typ != protowire.Fixed64Type {
		return 0, fmt.Errorf("unexpected wire type %d for double field", typ)
	}
	v, n := protowire.ConsumeFixed64(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = math.Float64frombits(v)
	return n, nil
}

func consumeInt64(typ protowire.Type, b []byte, dst *int64) (int, error) {
	if typ != protowire.VarintType {
		return 0, fmt.Errorf("unexpected wire type %d for int64 field", typ)
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = int64(v)
	return n, nil
}
