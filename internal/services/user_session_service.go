package services

import (
	"context"
	"fmt"
	"time"

	"amonic/skydesk/internal/auth"
	"amonic/skydesk/internal/logging"
	"amonic/skydesk/internal/models/dtos"
)

type UserSessionAPI interface {
	ListUserSessions(ctx context.Context, token string) ([]dtos.UserSession, error)
}

// UserPanel is the user's login history. Current is the session without a
// logout time, if any.
type UserPanel struct {
	Sessions []dtos.UserSession
	Current  *dtos.UserSession
}

type UserSessionService struct {
	api UserSessionAPI
	now func() time.Time
}

func NewUserSessionService(api UserSessionAPI) *UserSessionService {
	return &UserSessionService{api: api, now: time.Now}
}

func (s *UserSessionService) Panel(ctx context.Context) (*UserPanel, error) {
	sessions, err := s.api.ListUserSessions(ctx, auth.AccessToken(ctx))
	if err != nil {
		logging.Error("Failed to load user sessions", "error", err)
		return nil, err
	}
	panel := &UserPanel{Sessions: sessions}
	for i := range sessions {
		if sessions[i].Open() {
			panel.Current = &sessions[i]
			break
		}
	}
	return panel, nil
}

// Elapsed is the time since loginAt, never negative.
func (s *UserSessionService) Elapsed(loginAt time.Time) time.Duration {
	d := s.now().Sub(loginAt)
	if d < 0 {
		return 0
	}
	return d
}

// FormatElapsed renders a duration as hours, minutes and seconds.
func FormatElapsed(d time.Duration) string {
	d = d.Truncate(time.Second)
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	sec := int(d/time.Second) % 60
	return fmt.Sprintf("%d hours %d minutes %d seconds", h, m, sec)
}
