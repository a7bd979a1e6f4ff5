package auth

import (
	"amonic/skydesk/internal/common"
	"amonic/skydesk/internal/constants"
)

// UserClaims identifies the signed-in user for handlers and middleware.
type UserClaims interface {
	UserID() int
	Email() string
	Role() constants.Role
	Source() string
}

// SessionClaims are the claims of a portal session.
type SessionClaims struct {
	Session *common.Session
}

func (c *SessionClaims) UserID() int          { return c.Session.UserID() }
func (c *SessionClaims) Email() string        { return c.Session.Email() }
func (c *SessionClaims) Role() constants.Role { return c.Session.Role() }
func (c *SessionClaims) Source() string       { return "SESSION" }
