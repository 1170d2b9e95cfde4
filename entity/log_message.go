package entity

import "time"

// LogMessage is one service log record, persisted to the log collection
// when a database sink is configured.
type LogMessage struct {
	Time   time.Time `json:"time" bson:"time"`
	Level  string    `json:"level" bson:"level"`
	Module string    `json:"module" bson:"module"`
	Text   string    `json:"text" bson:"text"`
}

func (l *LogMessage) DataType() string {
	return "log"
}
