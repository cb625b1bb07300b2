package domain

// SSE event names, one per broadcastable content table. The ticker and the
// contact inbox are admin-only data and are intentionally not broadcast.
const (
	EventSharingRates = "sharing_rates:update"
	EventChairmen     = "chairmen:update"
	EventNews         = "news:update"
	EventProjects     = "projects:update"
)

// ChangeType tells listeners what happened to an item.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// Change is the payload of a content change event. Created and updated
// changes carry the full post-mutation item; deletions carry only the id.
// Changes are ephemeral: they exist only for the duration of one fan-out.
type Change struct {
	Type ChangeType `json:"type"`
	Item any        `json:"item,omitempty"`
	ID   int64      `json:"id,omitempty"`
}

// Created builds a change payload for a freshly created item.
func Created(item any) Change { return Change{Type: ChangeCreated, Item: item} }

// Updated builds a change payload for an updated item.
func Updated(item any) Change { return Change{Type: ChangeUpdated, Item: item} }

// Deleted builds a change payload for a deleted item.
func Deleted(id int64) Change { return Change{Type: ChangeDeleted, ID: id} }

// Broadcaster fans a named event out to every connected streaming client,
// best-effort. Implementations must never block or return delivery failures
// to the caller.
type Broadcaster interface {
	Broadcast(event string, payload any)
}
