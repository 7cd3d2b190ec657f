// ABOUTME: Access token retrieval over the session
// ABOUTME: Uses a fixed client identity and scope list for every request
package spot

import (
	"context"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// ClientID is the client identity sent with every token request
const ClientID = "782ae96ea60f4cdf986a766049607005"

// Scopes is the comma-joined permission list sent with every token request
var Scopes = strings.Join([]string{
	"user-read-private",
	"playlist-read-private",
	"playlist-read-collaborative",
	"user-library-read",
	"user-library-modify",
	"user-top-read",
	"user-read-recently-played",
	"playlist-modify-public",
	"playlist-modify-private",
	"streaming",
}, ",")

// fetchAccessToken asks the session's keymaster for a token. Expiry is
// absolute: now plus the reported lifetime.
func fetchAccessToken(ctx context.Context, s Session) (*oauth2.Token, error) {
	resp, err := s.Keymaster(ctx, ClientID, Scopes)
	if err != nil {
		return nil, tokenFailed(err)
	}
	return &oauth2.Token{
		AccessToken: resp.AccessToken,
		TokenType:   resp.TokenType,
		Expiry:      time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}, nil
}
