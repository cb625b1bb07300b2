// Package sse implements the server-sent-events fan-out that pushes content
// change notifications to open browser tabs.
//
// Delivery is fire-and-forget: there is no backlog, no replay and no ack. A
// client that misses an event (slow consumer, reconnect) recovers by
// re-fetching current state over the REST API.
package sse
