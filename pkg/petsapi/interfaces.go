package petsapi

import (
	"context"

	"github.com/samvad-hq/pawfinder/pkg/httpclient"
)

// API is the subset of *httpclient.Client the pets endpoints use.
type API interface {
	Get(ctx context.Context, path string) (*httpclient.Response, error)
	Post(ctx context.Context, path string, body any) (*httpclient.Response, error)
	PostMultipart(ctx context.Context, path string, form *httpclient.Multipart) (*httpclient.Response, error)
	PatchMultipart(ctx context.Context, path string, form *httpclient.Multipart) (*httpclient.Response, error)
	Delete(ctx context.Context, path string) (*httpclient.Response, error)
}
