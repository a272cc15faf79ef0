package jellyfin

import (
	"context"
	"net/http"
	"time"
)

// Session is one active playback session on the server.
type Session struct {
	SessionKey int64
	RatingKey  int64
	Key        string
	Type       string
	Title      string
	ViewOffset time.Duration
	Duration   time.Duration

	UserID    int64
	UserName  string
	UserThumb string

	PlayerTitle             string
	PlayerProduct           string
	PlayerAddress           string
	PlayerState             string
	PlayerMachineIdentifier string
}

// Sessions returns the sessions currently playing on the server.
func (s *Server) Sessions(ctx context.Context) ([]*Session, error) {
	c, err := s.queryContainer(ctx, http.MethodGet, "/status/sessions", nil, nil)
	if err != nil {
		return nil, err
	}
	sessions := make([]*Session, 0, len(c.Children))
	for _, entry := range c.elements() {
		el := entry.el
		session := &Session{
			SessionKey: atoi64(el.SessionKey),
			RatingKey:  atoi64(el.RatingKey),
			Key:        el.Key,
			Type:       el.Type,
			Title:      el.Title,
			ViewOffset: toDuration(el.ViewOffset),
			Duration:   toDuration(el.Duration),
		}
		if el.User != nil {
			session.UserID = atoi64(el.User.ID)
			session.UserName = el.User.Title
			session.UserThumb = el.User.Thumb
		}
		if el.Player != nil {
			session.PlayerTitle = el.Player.Title
			session.PlayerProduct = el.Player.Product
			session.PlayerAddress = el.Player.Address
			session.PlayerState = el.Player.State
			session.PlayerMachineIdentifier = el.Player.MachineIdentifier
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}
