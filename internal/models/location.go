package models

import "time"

// LocationTypeCode - единственный определенный код типа пакета местоположения
const LocationTypeCode = 1

// Origin показывает, создана ли запись на этом устройстве или получена от пира
type Origin string

const (
	OriginSelf Origin = "self"
	OriginPeer Origin = "peer"
)

// LocationRecord - зафиксированное местоположение устройства
type LocationRecord struct {
	ID           int64    `json:"id"`
	Phone        string   `json:"phone"`
	SubscriberID string   `json:"subscriber_id"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	Altitude     *float64 `json:"altitude,omitempty"`
	Accuracy     *float64 `json:"accuracy,omitempty"`
	Timestamp    int64    `json:"timestamp"`
	Timezone     string   `json:"timezone"`
	Origin       Origin   `json:"origin"`
	// Source - IP пира или имя файла обмена, пусто для собственных записей
	Source    string `json:"source,omitempty"`
	Signature string `json:"signature,omitempty"`
}

// Fix - сырое показание датчика местоположения
type Fix struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Altitude  *float64  `json:"altitude,omitempty"`
	Accuracy  *float64  `json:"accuracy,omitempty"`
	Provider  string    `json:"provider"`
	Time      time.Time `json:"time"`
}
