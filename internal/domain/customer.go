package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer represents a registered customer. Address is the default shipping
// address and may be absent.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Address   *Address  `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
