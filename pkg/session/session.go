// Package session persists the client-side auth state: the bearer token
// and the current user's JSON record.
package session

import (
	"fmt"
	"strings"
)

const (
	// KeyToken is the storage key of the bearer token.
	KeyToken = "authToken"
	// KeyCurrentUser is the storage key of the current user record.
	KeyCurrentUser = "currentUser"
)

// Store keeps the auth token and current user. Implementations are safe for
// concurrent use. Values never expire; they are removed only by Clear*.
type Store interface {
	Token() (string, error)
	SetToken(token string) error
	ClearToken() error
	CurrentUser() ([]byte, error)
	SetCurrentUser(raw []byte) error
	ClearCurrentUser() error
	Close() error
}

// Store types accepted by NewStore.
const (
	TypeMemory = "memory"
	TypeBBolt  = "bbolt"
	TypeNone   = "none"
)

// NewStore creates the configured session backend.
func NewStore(typ, path string) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))

	switch typ {
	case "", TypeMemory:
		return NewMemory(), nil
	case TypeNone, "disabled":
		return noopStore{}, nil
	case TypeBBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt session store requires a path")
		}
		return openBolt(path)
	default:
		return nil, fmt.Errorf("unsupported session store type %q", typ)
	}
}

// noopStore never remembers anything; every request goes out anonymous.
type noopStore struct{}

func (noopStore) Token() (string, error)       { return "", nil }
func (noopStore) SetToken(string) error        { return nil }
func (noopStore) ClearToken() error            { return nil }
func (noopStore) CurrentUser() ([]byte, error) { return nil, nil }
func (noopStore) SetCurrentUser([]byte) error  { return nil }
func (noopStore) ClearCurrentUser() error      { return nil }
func (noopStore) Close() error                 { return nil }
