// ABOUTME: Login credentials for the access point
// ABOUTME: Password and bearer-token variants, reusable across connect attempts
package session

// AuthType selects how AuthData is interpreted
type AuthType int

const (
	AuthPassword AuthType = iota
	AuthToken
)

func (a AuthType) String() string {
	if a == AuthToken {
		return "token"
	}
	return "password"
}

// Credentials authenticate a session. Treat as immutable.
type Credentials struct {
	Username string
	AuthType AuthType
	AuthData []byte
}

// WithPassword builds username+password credentials
func WithPassword(username, password string) Credentials {
	return Credentials{Username: username, AuthType: AuthPassword, AuthData: []byte(password)}
}

// WithToken builds username+bearer-token credentials
func WithToken(username, token string) Credentials {
	return Credentials{Username: username, AuthType: AuthToken, AuthData: []byte(token)}
}

// Clone returns a copy that shares no memory with c
func (c Credentials) Clone() Credentials {
	c.AuthData = append([]byte(nil), c.AuthData...)
	return c
}

func (c Credentials) wire() LoginCredentials {
	return LoginCredentials{Username: c.Username, AuthType: c.AuthType.String(), AuthData: c.AuthData}
}
