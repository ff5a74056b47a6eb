package domain

import "time"

// Exchange es un par prompt/respuesta persistido, inmutable una vez creado.
type Exchange struct {
	ID        int64     `json:"id"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	OwnerID   string    `json:"ownerId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
