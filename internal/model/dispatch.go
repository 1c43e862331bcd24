package model

import "time"

// DispatchResult tallies one dispatch run. It is reported, not stored.
type DispatchResult struct {
	Success int `json:"success"`
	Total   int `json:"total"`
}

// Failed is the number of targets whose delivery did not succeed.
func (r DispatchResult) Failed() int { return r.Total - r.Success }

// DispatchCustomer is the customer subset sent to the dispatch webhook.
type DispatchCustomer struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Email     *string `json:"email"`
	BirthDate *Date   `json:"birth_date"`
	Unit      Unit    `json:"unit"`
}

// DispatchPayload is the JSON body posted once per target customer.
type DispatchPayload struct {
	Template  string           `json:"template"`
	Customer  DispatchCustomer `json:"customer"`
	Timestamp time.Time        `json:"timestamp"`
	Source    string           `json:"source"`
}

func NewDispatchPayload(templateID string, c Customer, now time.Time, source string) DispatchPayload {
	return DispatchPayload{
		Template: templateID,
		Customer: DispatchCustomer{
			ID:        c.ID,
			Name:      c.Name,
			Phone:     c.Phone,
			Email:     c.Email,
			BirthDate: c.BirthDate,
			Unit:      c.Unit,
		},
		Timestamp: now,
		Source:    source,
	}
}
