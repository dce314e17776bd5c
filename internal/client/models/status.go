package models

// Status is the lifecycle of the latest request of a given kind.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}
