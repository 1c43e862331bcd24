package model

import "time"

const EventNewCustomer = "new_customer"

// CustomerEvent is the body of the new-customer notification webhook.
type CustomerEvent struct {
	Event     string    `json:"event"`
	Customer  Customer  `json:"customer"`
	Timestamp time.Time `json:"timestamp"`
}

// Envelope carries a notification through Kafka to the notifier worker.
type Envelope struct {
	ID    string        `json:"id"`  // ULID
	URL   string        `json:"url"` // webhook target resolved at publish time
	Event CustomerEvent `json:"event"`
}
