package schedule

import (
	"context"
	"database/sql"
	"errors"

	"makerslot/internal/certification"
	"makerslot/internal/resource"
)

// Detector decides admissibility for one booking request. It has no side
// effects and may be called speculatively; only Book gives a binding answer.
type Detector struct {
	resources resource.Repository
	gate      certification.Gate
	index     *AvailabilityIndex
}

func NewDetector(resources resource.Repository, gate certification.Gate, index *AvailabilityIndex) *Detector {
	return &Detector{
		resources: resources,
		gate:      gate,
		index:     index,
	}
}

// Evaluate runs the checks in a fixed order so the rejection reason is
// deterministic: resource exists, slot well-formed, requester certified,
// capacity free. The capacity answer is as-of-now; Book serializes the
// evaluate-then-commit sequence per resource to close the race.
func (d *Detector) Evaluate(ctx context.Context, req BookingRequest) (Decision, error) {
	res, err := d.resources.GetByID(ctx, req.ResourceID)
	if err != nil {
		// Only a missing row is a policy answer; a store fault is not a
		// decision about the request.
		if errors.Is(err, sql.ErrNoRows) {
			return Reject(ReasonNotFound), nil
		}
		return Decision{}, err
	}

	if !req.Slot.Valid() {
		return Reject(ReasonInvalidSlot), nil
	}

	if res.Kind == resource.KindMachine && res.CertificationRequired {
		authorized, err := d.gate.IsAuthorized(ctx, req.Requester, req.ResourceID)
		if err != nil {
			return Decision{}, err
		}
		if !authorized {
			return Reject(ReasonNotCertified), nil
		}
	}

	if d.index.CountOverlapping(req.ResourceID, req.Slot, req.ExcludeReservationID) >= res.Capacity {
		return Reject(ReasonCapacityExceeded), nil
	}

	return Admit(), nil
}
