package httpclient

// Session owns the bearer token attached to outgoing requests.
// The client only ever calls Token; SetToken and ClearToken belong to the
// login/logout paths of the resource clients.
type Session interface {
	Token() (string, error)
	SetToken(token string) error
	ClearToken() error
}

// anonymousSession is used when no session is injected.
type anonymousSession struct{}

func (anonymousSession) Token() (string, error) { return "", nil }
func (anonymousSession) SetToken(string) error  { return nil }
func (anonymousSession) ClearToken() error      { return nil }
