package allocation

import "github.com/anisurarzu/hotelseashore/internal/domain"

// Occupancy is one reservation's claim on a room.
type Occupancy struct {
	BookingID string
	GuestName string
	Status    domain.ReservationStatus
	Interval  domain.Interval
}

func occupancyOf(r domain.Reservation) Occupancy {
	return Occupancy{
		BookingID: r.ID,
		GuestName: r.Guest.Name,
		Status:    r.Status,
		Interval:  r.Interval(),
	}
}

// FindConflict returns the first occupancy that overlaps candidate.
// The excluded booking (an edit comparing against itself) and cancelled
// entries are skipped. An empty exclude excludes nothing.
func FindConflict(candidate domain.Interval, existing []Occupancy, exclude string) (Occupancy, bool) {
	for _, o := range existing {
		if exclude != "" && o.BookingID == exclude {
			continue
		}
		if o.Status == domain.ReservationStatusCancelled {
			continue
		}
		if domain.Overlaps(candidate, o.Interval) {
			return o, true
		}
	}
	return Occupancy{}, false
}

func HasConflict(candidate domain.Interval, existing []Occupancy, exclude string) bool {
	_, ok := FindConflict(candidate, existing, exclude)
	return ok
}

func conflictError(o Occupancy) *domain.ConflictError {
	return &domain.ConflictError{BookingID: o.BookingID, GuestName: o.GuestName, Interval: o.Interval}
}
