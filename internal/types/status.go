package types

// Status is a type for the row-level status of a resource in the database.
// This is used to track the lifecycle of a resource and to determine if it
// should be included in queries. A subscription row that has been superseded
// by an immediate upgrade is marked inactive while its subscription status
// records why it ended.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDeleted  Status = "deleted"
)

func (s Status) String() string {
	return string(s)
}
