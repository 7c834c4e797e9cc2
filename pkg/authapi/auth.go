// Package authapi exposes the account endpoints of the pets API. Login and
// registration write the returned token into the injected session.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samvad-hq/pawfinder/pkg/httpclient"
)

const (
	pathRegister = "/register"
	pathLogin    = "/login"
	pathUsers    = "/users"
)

// Client calls the auth endpoints and owns the session writes.
type Client struct {
	api  API
	sess httpclient.Session
}

// New returns a Client. sess receives the token on login and registration.
func New(api API, sess httpclient.Session) (*Client, error) {
	if api == nil {
		return nil, errors.New("authapi: api is required")
	}
	if sess == nil {
		return nil, errors.New("authapi: session is required")
	}
	return &Client{api: api, sess: sess}, nil
}

// authData is the part of a login/register data object the client reads.
type authData struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// Register creates an account. When the response carries data.token it is
// persisted the same way Login does. A data object that does not decode is a
// *httpclient.DecodeError.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*httpclient.Response, error) {
	resp, err := c.api.Post(ctx, pathRegister, req)
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Data == nil {
		return resp, nil
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := resp.Decode(&envelope); err != nil || !isObject(envelope.Data) {
		// registration succeeded; the body just carries no session
		return resp, nil
	}
	data, err := httpclient.DecodeData[authData](resp, "auth.register")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(data.Token) != "" {
		if err := c.persist(data.Token, data.User); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// Login exchanges credentials for a token. The token is stored in the
// session before Login returns. A response without data.token is a
// *httpclient.DecodeError and nothing is stored.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	resp, err := c.api.Post(ctx, pathLogin, creds)
	if err != nil {
		return nil, err
	}
	data, err := httpclient.DecodeData[authData](resp, "auth.login")
	if err != nil {
		return nil, err
	}
	token := strings.TrimSpace(data.Token)
	if token == "" {
		return nil, &httpclient.DecodeError{Endpoint: "auth.login", Reason: "missing data.token"}
	}

	var user *User
	if len(data.User) > 0 && string(data.User) != "null" {
		user = &User{}
		if err := json.Unmarshal(data.User, user); err != nil {
			return nil, &httpclient.DecodeError{Endpoint: "auth.login", Reason: "data.user", Err: err}
		}
	}

	if err := c.persist(token, data.User); err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user, Response: resp}, nil
}

// Logout forgets the token and the current user. No request is sent.
func (c *Client) Logout(_ context.Context) error {
	var errs []error
	if err := c.sess.ClearToken(); err != nil {
		errs = append(errs, fmt.Errorf("clear token: %w", err))
	}
	if rec, ok := c.sess.(UserRecorder); ok {
		if err := rec.ClearCurrentUser(); err != nil {
			errs = append(errs, fmt.Errorf("clear current user: %w", err))
		}
	}
	return errors.Join(errs...)
}

// GetUser fetches a profile (data.user).
func (c *Client) GetUser(ctx context.Context, id int) (*User, error) {
	resp, err := c.api.Get(ctx, userPath(id))
	if err != nil {
		return nil, err
	}
	user, err := httpclient.DecodeField[User](resp, "auth.user", "user")
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePhone changes the phone number of a user.
func (c *Client) UpdatePhone(ctx context.Context, id int, phone string) (*httpclient.Response, error) {
	return c.api.Patch(ctx, userPath(id)+"/phone", map[string]string{"phone": phone})
}

// UpdateEmail changes the email address of a user.
func (c *Client) UpdateEmail(ctx context.Context, id int, email string) (*httpclient.Response, error) {
	return c.api.Patch(ctx, userPath(id)+"/email", map[string]string{"email": email})
}

func (c *Client) persist(token string, user json.RawMessage) error {
	if err := c.sess.SetToken(token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	rec, ok := c.sess.(UserRecorder)
	if !ok || len(user) == 0 || string(user) == "null" {
		return nil
	}
	if err := rec.SetCurrentUser(user); err != nil {
		return fmt.Errorf("persist current user: %w", err)
	}
	return nil
}

func userPath(id int) string {
	return pathUsers + "/" + strconv.Itoa(id)
}

func isObject(raw json.RawMessage) bool {
	return bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{"))
}
