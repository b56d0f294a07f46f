package domain

// Status is the closed set of lifecycle states for a loan application.
// Transition logic matches on these values only; nothing else constructs one.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusRejected  Status = "Rejected"
	StatusDisbursed Status = "Disbursed"
)

// Valid reports whether s is one of the four lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusDisbursed:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}
