package enum

// SyncState is where a sale record sits in its sync lifecycle. The state is
// encoded by the directory holding the record file, never by a field.
type SyncState string

const (
	SyncStateNew     SyncState = "new"
	SyncStatePending SyncState = "pending"
	SyncStateSuccess SyncState = "success"
)

// Dir returns the directory name under the data root for terminal states.
// New records live in their month directory, so Dir returns "" for them.
func (s SyncState) Dir() string {
	switch s {
	case SyncStatePending:
		return "pending"
	case SyncStateSuccess:
		return "success"
	}
	return ""
}
