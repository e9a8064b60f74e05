package resource

import "time"

const (
	KindMachine = "machine"
	KindSpace   = "space"
	KindTrainer = "trainer"
)

// Resource is a bookable catalog entry. ID is an admin-chosen slug and is
// stable for the life of the resource; capacity and the certification flag
// may be edited without touching existing reservations.
type Resource struct {
	ID                    string    `db:"id" json:"id"`
	Name                  string    `db:"name" json:"name"`
	Kind                  string    `db:"kind" json:"kind"`
	Capacity              int       `db:"capacity" json:"capacity"`
	CertificationRequired bool      `db:"certification_required" json:"certification_required"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
}

func (r *Resource) Exclusive() bool {
	return r.Capacity == 1
}

type RegisterResourceRequest struct {
	ID                    string `json:"id" binding:"required"`
	Name                  string `json:"name" binding:"required"`
	Kind                  string `json:"kind" binding:"required,oneof=machine space trainer"`
	Capacity              int    `json:"capacity" binding:"required,min=1"`
	CertificationRequired bool   `json:"certification_required"`
}

type UpdateCapacityRequest struct {
	Capacity int `json:"capacity" binding:"required,min=1"`
}

type SetCertificationRequiredRequest struct {
	CertificationRequired *bool `json:"certification_required" binding:"required"`
}
