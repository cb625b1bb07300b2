package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/AhemdNada/alx-company/internal/sse"
)

// streamPingInterval is how often an idle stream gets a comment frame so
// proxies keep the connection open.
const streamPingInterval = 30 * time.Second

// handleStream serves the SSE endpoint. Headers are flushed before any event
// so the client sees the connection as open immediately; afterwards the
// handler just pumps frames from the hub until the client goes away.
func (s *Server) handleStream(c echo.Context) error {
	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	client := s.hub.Register()
	defer s.hub.Unregister(client)

	ticker := s.clock.NewTicker(streamPingInterval)
	defer ticker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case frame := <-client.Frames():
			if _, err := resp.Write(frame); err != nil {
				return nil
			}
			resp.Flush()
		case <-ticker.Chan():
			if _, err := resp.Write(sse.PingFrame); err != nil {
				return nil
			}
			resp.Flush()
		}
	}
}
