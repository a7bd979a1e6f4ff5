package dtos

import (
	"strconv"
	"time"
)

// User is a row of /api/users/ and the body of /api/current_user/.
type User struct {
	ID         int    `json:"id"`
	FirstName  string `json:"firstname"`
	LastName   string `json:"lastname"`
	Email      string `json:"email"`
	Birthdate  string `json:"birthdate"`
	RoleID     int    `json:"roleid"`
	OfficeName string `json:"office_name"`
	Active     int    `json:"active"`
}

func (u User) Validate() error {
	if u.ID <= 0 {
		return invalid("user without id")
	}
	if u.Email == "" {
		return invalid("user %d without email", u.ID)
	}
	return nil
}

func (u User) Key() string { return strconv.Itoa(u.ID) }

func (u User) IsActive() bool { return u.Active == 1 }

// Age is the difference of calendar years, or "Unknown" without a valid
// birthdate.
func (u User) Age(now time.Time) string {
	if len(u.Birthdate) < 4 {
		return "Unknown"
	}
	year, err := strconv.Atoi(u.Birthdate[:4])
	if err != nil {
		return "Unknown"
	}
	return strconv.Itoa(now.Year() - year)
}

// NewUserRequest is the body of POST /api/add_user/.
type NewUserRequest struct {
	Email      string `json:"email"`
	FirstName  string `json:"firstname"`
	LastName   string `json:"lastname"`
	OfficeName string `json:"office_name"`
	Birthdate  string `json:"birthdate"`
	Password   string `json:"password"`
	RoleID     int    `json:"roleid"`
	Active     int    `json:"active"`
}

// UserSession is a row of /api/user_sessions/.
type UserSession struct {
	ID           int        `json:"id"`
	LoginTime    time.Time  `json:"login_time"`
	LogoutTime   *time.Time `json:"logout_time"`
	Duration     *string    `json:"duration"`
	LogoutReason *string    `json:"logout_reason"`
}

func (s UserSession) Validate() error {
	if s.ID <= 0 {
		return invalid("user session without id")
	}
	if s.LoginTime.IsZero() {
		return invalid("user session %d without login time", s.ID)
	}
	return nil
}

func (s UserSession) Open() bool { return s.LogoutTime == nil }
