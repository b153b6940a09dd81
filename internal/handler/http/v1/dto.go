package v1

import "time"

// ReportFixRequest DTO для передачи фикса местоположения
// @Description DTO для передачи фикса местоположения
type ReportFixRequest struct {
	Latitude  float64    `json:"latitude" validate:"latitude"`
	Longitude float64    `json:"longitude" validate:"longitude"`
	Altitude  *float64   `json:"altitude,omitempty"`
	Accuracy  *float64   `json:"accuracy,omitempty" validate:"omitempty,gte=0"`
	Provider  string     `json:"provider" validate:"required,max=32"`
	Time      *time.Time `json:"time,omitempty"`
}

// FixResponse DTO для ответа на переданный фикс
// @Description DTO для ответа на переданный фикс
type FixResponse struct {
	Accepted      bool  `json:"accepted"`
	RecordID      int64 `json:"record_id,omitempty"`
	PeersNotified int   `json:"peers_notified"`
	PeersFailed   int   `json:"peers_failed"`
}

// CreateIncidentRequest DTO для создания инцидента
// @Description DTO для создания инцидента
type CreateIncidentRequest struct {
	Title       string  `json:"title" validate:"required,max=30,excludes=0x7C"`
	Description string  `json:"description,omitempty" validate:"max=480,excludes=0x7C"`
	Latitude    float64 `json:"latitude" validate:"latitude"`
	Longitude   float64 `json:"longitude" validate:"longitude"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID          int64     `json:"id"`
	Phone       string    `json:"phone"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Timestamp   int64     `json:"timestamp"`
	Timezone    string    `json:"timezone"`
	Origin      string    `json:"origin"`
	Source      string    `json:"source,omitempty"`
	Signed      bool      `json:"signed"`
	CreatedAt   time.Time `json:"created_at"`
}

// LocationResponse DTO для ответа с записью местоположения
// @Description DTO для ответа с записью местоположения
type LocationResponse struct {
	ID        int64     `json:"id"`
	Phone     string    `json:"phone"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Altitude  *float64  `json:"altitude,omitempty"`
	Accuracy  *float64  `json:"accuracy,omitempty"`
	Timestamp int64     `json:"timestamp"`
	Timezone  string    `json:"timezone"`
	Origin    string    `json:"origin"`
	Source    string    `json:"source,omitempty"`
	Signed    bool      `json:"signed"`
	CreatedAt time.Time `json:"created_at"`
}
