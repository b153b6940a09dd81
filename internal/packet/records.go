package packet

import (
	"github.com/shenikar/geo_mesh_sync/internal/models"
)

// CheckLocationRecord применяет к готовой записи те же правила, что и ValidateLocation к пакету.
// Используется для записей, пришедших не по сети, например из файлов обмена.
func CheckLocationRecord(rec *models.LocationRecord) error {
	if err := checkPhone(rec.Phone); err != nil {
		return err
	}
	if err := checkHex("subscriber id", rec.SubscriberID, SubscriberIDLength); err != nil {
		return err
	}
	if err := checkCoordinates(rec.Latitude, rec.Longitude); err != nil {
		return err
	}
	if rec.Accuracy != nil && *rec.Accuracy < 0 {
		return models.Invalid("accuracy %v is negative", *rec.Accuracy)
	}
	if rec.Timestamp < 0 {
		return models.Invalid("timestamp %d is negative", rec.Timestamp)
	}
	if err := CheckTimezone(rec.Timezone); err != nil {
		return err
	}
	return checkHex("signature", rec.Signature, SignatureLength)
}

// CheckIncidentRecord - аналог ValidateIncident для готовой записи
func CheckIncidentRecord(rec *models.IncidentRecord) error {
	if err := checkPhone(rec.Phone); err != nil {
		return err
	}
	if err := checkHex("subscriber id", rec.SubscriberID, SubscriberIDLength); err != nil {
		return err
	}
	if err := CheckTitle(rec.Title); err != nil {
		return err
	}
	if err := CheckDescription(rec.Description); err != nil {
		return err
	}
	if ContainsDelimiter(rec.Title) || ContainsDelimiter(rec.Description) {
		return models.Invalid("text contains reserved delimiter %q", Delimiter)
	}
	if rec.Category != models.CategoryIncident {
		return models.Invalid("unknown category %q", rec.Category)
	}
	if err := checkCoordinates(rec.Latitude, rec.Longitude); err != nil {
		return err
	}
	if rec.Timestamp < 0 {
		return models.Invalid("timestamp %d is negative", rec.Timestamp)
	}
	if err := CheckTimezone(rec.Timezone); err != nil {
		return err
	}
	return checkHex("signature", rec.Signature, SignatureLength)
}

func checkPhone(phone string) error {
	if phone == "" {
		return models.Invalid("phone is empty")
	}
	if ContainsDelimiter(phone) {
		return models.Invalid("phone contains reserved delimiter %q", Delimiter)
	}
	return nil
}
