package models

const (
	// CategoryIncident - единственная допустимая категория
	CategoryIncident = "incident"

	MaxTitleLength       = 30
	MaxDescriptionLength = 480
)

// IncidentRecord - происшествие или точка интереса, созданная пользователем
type IncidentRecord struct {
	ID           int64   `json:"id"`
	Phone        string  `json:"phone"`
	SubscriberID string  `json:"subscriber_id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Timestamp    int64   `json:"timestamp"`
	Timezone     string  `json:"timezone"`
	Origin       Origin  `json:"origin"`
	Source       string  `json:"source,omitempty"`
	Signature    string  `json:"signature,omitempty"`
}

// NewIncident - данные инцидента, вводимые пользователем
type NewIncident struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}
