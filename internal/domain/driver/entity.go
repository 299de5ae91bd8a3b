package driver

import (
	"time"

	"github.com/frotaops/frota-backend-go/internal/domain/settlement"
)

// Driver - the identity the settlement engine computes for.
type Driver struct {
	ID           string
	Name         string
	Code         string
	DefaultModel settlement.Model
	Active       bool
	HiredAt      time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
