package v1

import (
	"time"

	"github.com/shenikar/geo_mesh_sync/internal/models"
	"github.com/shenikar/geo_mesh_sync/internal/service"
)

// DTOToFix преобразует DTO фикса в доменную модель. Без времени фикс считается полученным сейчас.
func DTOToFix(dto ReportFixRequest, now time.Time) models.Fix {
	fix := models.Fix{
		Latitude:  dto.Latitude,
		Longitude: dto.Longitude,
		Altitude:  dto.Altitude,
		Accuracy:  dto.Accuracy,
		Provider:  dto.Provider,
		Time:      now,
	}
	if dto.Time != nil {
		fix.Time = *dto.Time
	}
	return fix
}

// FixResultToResponse преобразует результат обработки фикса в DTO
func FixResultToResponse(res *service.FixResult) *FixResponse {
	resp := &FixResponse{Accepted: res.Accepted, RecordID: res.RecordID}
	if res.Broadcast != nil {
		resp.PeersNotified = res.Broadcast.Peers - len(res.Broadcast.Failed)
		resp.PeersFailed = len(res.Broadcast.Failed)
	}
	return resp
}

// DTOToNewIncident преобразует DTO создания в ввод сервиса
func DTOToNewIncident(dto CreateIncidentRequest) models.NewIncident {
	return models.NewIncident{
		Title:       dto.Title,
		Description: dto.Description,
		Latitude:    dto.Latitude,
		Longitude:   dto.Longitude,
	}
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.IncidentRecord) *IncidentResponse {
	return &IncidentResponse{
		ID:          model.ID,
		Phone:       model.Phone,
		Title:       model.Title,
		Description: model.Description,
		Category:    model.Category,
		Latitude:    model.Latitude,
		Longitude:   model.Longitude,
		Timestamp:   model.Timestamp,
		Timezone:    model.Timezone,
		Origin:      string(model.Origin),
		Source:      model.Source,
		Signed:      model.Signature != "",
		CreatedAt:   time.Unix(model.Timestamp, 0).UTC(),
	}
}

// ModelToLocationResponse преобразует запись местоположения в DTO для ответа
func ModelToLocationResponse(model *models.LocationRecord) *LocationResponse {
	return &LocationResponse{
		ID:        model.ID,
		Phone:     model.Phone,
		Latitude:  model.Latitude,
		Longitude: model.Longitude,
		Altitude:  model.Altitude,
		Accuracy:  model.Accuracy,
		Timestamp: model.Timestamp,
		Timezone:  model.Timezone,
		Origin:    string(model.Origin),
		Source:    model.Source,
		Signed:    model.Signature != "",
		CreatedAt: time.Unix(model.Timestamp, 0).UTC(),
	}
}
