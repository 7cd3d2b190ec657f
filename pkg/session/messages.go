// ABOUTME: Access point message type definitions
// ABOUTME: Defines the JSON envelopes exchanged over the session websocket
package session

import "encoding/json"

// Message types
const (
	TypeClientHello     = "client/hello"
	TypeClientGoodbye   = "client/goodbye"
	TypeWelcome         = "ap/welcome"
	TypeLoginFailed     = "ap/login_failed"
	TypeCountry         = "ap/country"
	TypePing            = "ap/ping"
	TypePong            = "ap/pong"
	TypeKeymasterReq    = "keymaster/request"
	TypeKeymasterToken  = "keymaster/token"
	TypeKeymasterError  = "keymaster/error"
	TypeAudioRequest    = "audio/request"
	TypeAudioHeader     = "audio/header"
	TypeAudioEnd        = "audio/end"
	TypeAudioError      = "audio/error"
	AudioChunkFrameType = 4
)

// audio frame header: 1 type byte + 16 byte request uuid
const audioFrameHeaderSize = 1 + 16

// Message is the top-level wrapper for all outbound messages
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// inbound defers payload decoding until the type is known
type inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func (m inbound) decode(v interface{}) error {
	return json.Unmarshal(m.Payload, v)
}

// ClientHello opens a session
type ClientHello struct {
	DeviceID    string           `json:"device_id"`
	DeviceName  string           `json:"device_name"`
	Version     int              `json:"version"`
	DeviceInfo  DeviceInfo       `json:"device_info"`
	Credentials LoginCredentials `json:"credentials"`
}

// DeviceInfo contains device identification
type DeviceInfo struct {
	ProductName     string `json:"product_name"`
	Manufacturer    string `json:"manufacturer"`
	SoftwareVersion string `json:"software_version"`
}

// LoginCredentials carries the user's secret. AuthData is base64 on the wire.
type LoginCredentials struct {
	Username string `json:"username"`
	AuthType string `json:"auth_type"`
	AuthData []byte `json:"auth_data"`
}

// Welcome confirms authentication
type Welcome struct {
	Username  string `json:"username"`
	Country   string `json:"country"`
	SessionID string `json:"session_id"`
}

// LoginFailed rejects the credentials
type LoginFailed struct {
	ErrorCode int    `json:"error_code"`
	Reason    string `json:"reason"`
}

// CountryCode updates the account country
type CountryCode struct {
	Country string `json:"country"`
}

// Ping is a keepalive; the payload is echoed in the pong
type Ping struct {
	Timestamp int64 `json:"timestamp"`
}

// ClientGoodbye is sent before disconnecting
type ClientGoodbye struct {
	Reason string `json:"reason"`
}

// KeymasterRequest asks for an access token
type KeymasterRequest struct {
	RequestID string `json:"request_id"`
	ClientID  string `json:"client_id"`
	Scopes    string `json:"scopes"`
}

// KeymasterToken is an access token grant
type KeymasterToken struct {
	RequestID   string   `json:"request_id"`
	AccessToken string   `json:"access_token"`
	ExpiresIn   int      `json:"expires_in"` // seconds
	TokenType   string   `json:"token_type"`
	Scope       []string `json:"scope"`
}

// KeymasterError rejects a token request
type KeymasterError struct {
	RequestID string `json:"request_id"`
	Reason    string `json:"reason"`
}

// AudioRequest asks for an encoded track file
type AudioRequest struct {
	RequestID string `json:"request_id"`
	TrackID   string `json:"track_id"`
	Bitrate   int    `json:"bitrate"` // kbps
}

// AudioHeader precedes the binary frames of a track
type AudioHeader struct {
	RequestID  string `json:"request_id"`
	Codec      string `json:"codec"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
	BitDepth   int    `json:"bit_depth"`
	DurationMs int64  `json:"duration_ms"`
}

// AudioEnd marks the last frame of a track
type AudioEnd struct {
	RequestID string `json:"request_id"`
}

// AudioError aborts a track transfer
type AudioError struct {
	RequestID string `json:"request_id"`
	Reason    string `json:"reason"`
}

// requestID extracts the correlation id shared by request/response payloads
func (m inbound) requestID() string {
	var p struct {
		RequestID string `json:"request_id"`
	}
	_ = json.Unmarshal(m.Payload, &p)
	return p.RequestID
}
