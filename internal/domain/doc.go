// Package domain contains the content entities served by the website API,
// the repository interfaces the HTTP layer depends on, and the change events
// pushed to connected browsers.
package domain
