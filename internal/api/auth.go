package api

import (
	"context"

	"github.com/okuznetsova/newsdesk/internal/model"
)

// LoginResult is the body of a successful POST /login.
type LoginResult struct {
	Token string `json:"token"`
	User  struct {
		ID   string     `json:"userID"`
		Nick string     `json:"nick"`
		Role model.Role `json:"role"`
	} `json:"user"`
}

// Login authenticates with nick and password.
// A wrong password surfaces as KindAuthExpired (the server answers 401).
func (c *Client) Login(ctx context.Context, nick, password string) (*LoginResult, error) {
	body := map[string]string{"nick": nick, "password": password}
	var out LoginResult
	if err := c.Post(ctx, "/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
