// Package person defines the Person record kept by zpeople.
package person

import "time"

// Person is a stored record. Name and Gender are optional; the empty string
// means unset.
type Person struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Age       int64     `json:"age"`
	Gender    string    `json:"gender,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName returns the row text for the person, or fallback when the
// name is unset.
func (p Person) DisplayName(fallback string) string {
	if p.Name == "" {
		return fallback
	}
	return p.Name
}
