package domain

import "time"

type Team struct {
	ID        string        `json:"id"`
	EventID   string        `json:"event_id"`
	Name      string        `json:"name"`
	Members   []Participant `json:"members,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
