package dtos

type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the simplejwt pair returned by /api/token/.
type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (t TokenResponse) Validate() error {
	if t.Access == "" {
		return invalid("token response without access token")
	}
	if t.Refresh == "" {
		return invalid("token response without refresh token")
	}
	return nil
}
