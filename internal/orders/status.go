package orders

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusDelivered Status = "DELIVERED"
	StatusCanceled  Status = "CANCELED"
)

// Valid reports membership in the closed status set. Transitions between
// members are unrestricted; only the set itself is enforced.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusDelivered, StatusCanceled:
		return true
	}
	return false
}
