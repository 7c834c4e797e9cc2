package authapi

import (
	"context"

	"github.com/samvad-hq/pawfinder/pkg/httpclient"
)

// API is the subset of *httpclient.Client the auth endpoints use.
type API interface {
	Get(ctx context.Context, path string) (*httpclient.Response, error)
	Post(ctx context.Context, path string, body any) (*httpclient.Response, error)
	Patch(ctx context.Context, path string, body any) (*httpclient.Response, error)
}

// UserRecorder is implemented by sessions that also keep the current user.
type UserRecorder interface {
	SetCurrentUser(raw []byte) error
	ClearCurrentUser() error
}
