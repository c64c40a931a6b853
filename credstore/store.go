// Package credstore persists the current credential and the profile
// attributes that travel with it.
//
// A Store is a blind key/value layer: it never validates what it holds.
// Every operation is synchronous and total. Storage faults are logged and
// reported to callers as "absent", never as errors.
package credstore

// Slot names. The four slots of a profile are written and cleared as one unit.
const (
	SlotToken          = "token"
	SlotRole           = "role"
	SlotID             = "id"
	SlotProfilePicture = "profile_picture"
)

// Attributes are the non-claim identity fields persisted alongside the
// credential.
type Attributes struct {
	Role           string `json:"role"`
	ID             string `json:"id"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// Record is the content of one profile's slots.
type Record struct {
	Credential string     `json:"token"`
	Attributes Attributes `json:"attributes"`
}

// Store is durable, synchronous persistence for one profile's Record.
type Store interface {
	// Put replaces the credential and all of its attributes.
	Put(rec Record)
	// Get returns the stored record, or false when no credential is stored
	// or the backing storage cannot be read.
	Get() (Record, bool)
	// Clear removes the credential and all of its attributes.
	Clear()
}

// Slots flattens a record into its slot map.
func (r Record) Slots() map[string]string {
	return map[string]string{
		SlotToken:          r.Credential,
		SlotRole:           r.Attributes.Role,
		SlotID:             r.Attributes.ID,
		SlotProfilePicture: r.Attributes.ProfilePicture,
	}
}

// RecordFromSlots rebuilds a record from a slot map. A missing or empty
// token slot means no record.
func RecordFromSlots(slots map[string]string) (Record, bool) {
	credential := slots[SlotToken]
	if credential == "" {
		return Record{}, false
	}
	return Record{
		Credential: credential,
		Attributes: Attributes{
			Role:           slots[SlotRole],
			ID:             slots[SlotID],
			ProfilePicture: slots[SlotProfilePicture],
		},
	}, true
}
