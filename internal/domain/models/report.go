package models

import "time"

// AlertEntry is the persisted form of one alert inside a snapshot.
type AlertEntry struct {
	ItemCode string `bson:"item_code" json:"item_code"`
	ItemName string `bson:"item_name" json:"item_name"`
	Quantity int    `bson:"quantity" json:"quantity"`
	Unit     string `bson:"unit" json:"unit"`
	Level    string `bson:"level" json:"level"`
	Message  string `bson:"message" json:"message"`
}

// AlertSnapshot records the outcome of one alert scan.
type AlertSnapshot struct {
	ID       string       `bson:"_id" json:"id"`
	TakenAt  time.Time    `bson:"taken_at" json:"taken_at"`
	Source   string       `bson:"source" json:"source"`
	Critical int          `bson:"critical" json:"critical"`
	Urgent   int          `bson:"urgent" json:"urgent"`
	Warning  int          `bson:"warning" json:"warning"`
	Total    int          `bson:"total" json:"total"`
	Alerts   []AlertEntry `bson:"alerts" json:"alerts"`
}
