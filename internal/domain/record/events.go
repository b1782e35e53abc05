package record

import "time"

// ChangeType classifies a record mutation published on the event bus.
type ChangeType string

const (
	ChangeTypeCreated     ChangeType = "created"
	ChangeTypeUpdated     ChangeType = "updated"
	ChangeTypeIncremented ChangeType = "incremented"
)

// TopicForChangeType maps a change type to its event bus topic.
func TopicForChangeType(ct ChangeType) string {
	return "record." + string(ct)
}

// ChangeEvent is published after a successful store mutation.
type ChangeEvent struct {
	Kind       string
	RecordID   string
	ChangeType ChangeType
	OccurredAt time.Time
}
