package domain

import "time"

// EntryKind is the type of a clock event.
type EntryKind string

const (
	KindStartWork  EntryKind = "START_WORK"
	KindStartLunch EntryKind = "START_LUNCH"
	KindEndLunch   EntryKind = "END_LUNCH"
	KindEndWork    EntryKind = "END_WORK"
)

var entryKinds = map[EntryKind]struct{}{
	KindStartWork:  {},
	KindStartLunch: {},
	KindEndLunch:   {},
	KindEndWork:    {},
}

// ParseEntryKind reports whether s names one of the known entry kinds.
func ParseEntryKind(s string) (EntryKind, bool) {
	k := EntryKind(s)
	_, ok := entryKinds[k]
	return k, ok
}

// TimestampLayout is the wire format used for entry timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// TimeEntry is a single timestamped work event logged by an employee.
// Version is assigned by the repository and grows with every save.
type TimeEntry struct {
	ID          int64     `json:"id"`
	Version     int64     `json:"version"`
	EmployeeID  int64     `json:"employee_id"`
	Timestamp   time.Time `json:"timestamp"`
	Kind        EntryKind `json:"kind"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Clone returns a copy that shares no memory with e.
func (e *TimeEntry) Clone() *TimeEntry {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}
