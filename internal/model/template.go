package model

import "time"

// MessageTemplate is a named message body selectable at dispatch time.
type MessageTemplate struct {
	ID          string    `db:"id"          json:"id"`
	Name        string    `db:"name"        json:"name"`
	Description string    `db:"description" json:"description"`
	Content     string    `db:"content"     json:"content"`
	CreatedAt   time.Time `db:"created_at"  json:"created_at"`
}

type NewTemplate struct {
	Name        string
	Description string
	Content     string
}
