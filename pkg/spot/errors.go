// ABOUTME: Error taxonomy reported to the delegate
// ABOUTME: Every command failure maps to one of three kinds
package spot

// ErrorKind classifies a command failure
type ErrorKind int

const (
	// LoginFailed means no endpoint accepted the credentials
	LoginFailed ErrorKind = iota
	// TokenFailed means the access token request failed
	TokenFailed
	// PlayerNotReady means the command needs a session or player that is absent
	PlayerNotReady
)

func (k ErrorKind) String() string {
	switch k {
	case LoginFailed:
		return "login failed"
	case TokenFailed:
		return "token retrieval failed"
	case PlayerNotReady:
		return "player is not responding"
	default:
		return "unknown error"
	}
}

// Error is a classified command failure with an optional cause
type Error struct {
	Kind ErrorKind
	Err  error
}

// Sentinels for errors.Is
var (
	ErrLoginFailed    = &Error{Kind: LoginFailed}
	ErrTokenFailed    = &Error{Kind: TokenFailed}
	ErrPlayerNotReady = &Error{Kind: PlayerNotReady}
)

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func loginFailed(err error) error {
	return &Error{Kind: LoginFailed, Err: err}
}

func tokenFailed(err error) error {
	return &Error{Kind: TokenFailed, Err: err}
}

func notReady(err error) error {
	return &Error{Kind: PlayerNotReady, Err: err}
}
