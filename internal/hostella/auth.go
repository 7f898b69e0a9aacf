package hostella

import (
	"context"
	"net/http"
)

// Admin is the signed-in administrator.
type Admin struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
}

// Credentials is the login request.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is the login response.
type Session struct {
	Token string `json:"token"`
	Admin *Admin `json:"admin,omitempty"`
}

// ProfileUpdate holds editable profile fields.
type ProfileUpdate struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
}

// Login calls POST /auth/login. The admin is accepted under either "admin" or "user".
func (c *Client) Login(ctx context.Context, creds Credentials) (*Session, error) {
	var resp struct {
		Token string `json:"token"`
		Admin *Admin `json:"admin"`
		User  *Admin `json:"user"`
	}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: creds}, &resp); err != nil {
		return nil, err
	}
	s := &Session{Token: resp.Token, Admin: resp.Admin}
	if s.Admin == nil {
		s.Admin = resp.User
	}
	return s, nil
}

// Me calls GET /auth/me.
func (c *Client) Me(ctx context.Context) (*Admin, error) {
	var a Admin
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me"}, &a, "admin", "user"); err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateProfile calls PUT /auth/profile.
func (c *Client) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*Admin, error) {
	var a Admin
	if err := c.do(ctx, request{method: http.MethodPut, path: "/auth/profile", body: upd}, &a, "admin", "user"); err != nil {
		return nil, err
	}
	return &a, nil
}
