package certification

import "time"

// Certification authorizes one requester to book one certification-required
// machine. ExpiresAt is optional; once past, the pair no longer authorizes.
type Certification struct {
	ID        int        `db:"id" json:"id"`
	Requester string     `db:"requester" json:"requester"`
	MachineID string     `db:"machine_id" json:"machine_id"`
	GrantedAt time.Time  `db:"granted_at" json:"granted_at"`
	ExpiresAt *time.Time `db:"expires_at" json:"expires_at,omitempty"`
}

func (c *Certification) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}

type GrantRequest struct {
	Requester string     `json:"requester" binding:"required,email"`
	MachineID string     `json:"machine_id" binding:"required"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
