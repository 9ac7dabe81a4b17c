package worker

// Availability ranks workers on the assignment screen. Lower values sort first.
type Availability int

const (
	Available Availability = iota
	Busy
	Offline
)

func (a Availability) String() string {
	switch a {
	case Available:
		return "available"
	case Busy:
		return "busy"
	case Offline:
		return "offline"
	default:
		return "unknown"
	}
}
