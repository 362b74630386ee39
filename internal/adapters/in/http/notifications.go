package http

import (
	"fmt"
	"net/http"
	"time"

	"inflight/internal/eventbus"

	"github.com/labstack/echo/v4"
)

// DefaultHeartbeat keeps idle connections open through proxies.
const DefaultHeartbeat = 15 * time.Second

// Notifier hands out event subscriptions.
type Notifier interface {
	Subscribe() *eventbus.Subscription
	Unsubscribe(sub *eventbus.Subscription)
}

// StreamNotifications handles GET /api/v1/notifications. Each event is one
// "data:" frame; comment frames keep the connection alive. The subscription
// lives exactly as long as the request.
func (s *Server) StreamNotifications(ctx echo.Context) error {
	sub := s.notifier.Subscribe()
	defer s.notifier.Unsubscribe(sub)

	w := ctx.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	reqCtx := ctx.Request().Context()
	log := s.logger.With("subscription", sub.ID())
	log.DebugContext(reqCtx, "notification stream opened")
	defer func() {
		log.DebugContext(reqCtx, "notification stream closed", "dropped", sub.Dropped())
	}()

	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-reqCtx.Done():
			return nil
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return nil
			}
			w.Flush()
		case env, ok := <-sub.Events():
			if !ok {
				return nil
			}
			frame, err := env.MarshalFrame()
			if err != nil {
				log.ErrorContext(reqCtx, "encode event", "error", err)
				continue
			}
			if _, err = fmt.Fprintf(w, "data: %s\n\n", frame); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
