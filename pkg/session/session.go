// ABOUTME: Authenticated session with a streaming access point
// ABOUTME: Handles connection, login handshake and message routing
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/Resonate-Protocol/resonate-spot/internal/version"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// ProtocolVersion is the access point protocol version we speak
	ProtocolVersion = 1

	DefaultHandshakeTimeout = 10 * time.Second
	DefaultPath             = "/ap"

	// writeTimeout bounds every frame written after the handshake
	writeTimeout = 10 * time.Second
)

// goodbyeTimeout bounds the goodbye and any write still pending at Close
var goodbyeTimeout = time.Second

// Config holds session configuration
type Config struct {
	// Host is the access point host, optionally with a port
	Host string

	// Port overrides the port in Host when set
	Port *uint16

	// Path is the websocket path (default: /ap)
	Path string

	// DeviceID identifies this client, a random id when empty
	DeviceID string

	// DeviceName is the display name for this client
	DeviceName string

	// HandshakeTimeout bounds the login exchange (default: 10s)
	HandshakeTimeout time.Duration

	// Dialer is the websocket dialer, leave nil for the default one
	Dialer *websocket.Dialer

	// Log is the base logger entry to use
	Log *logrus.Entry
}

// Address returns the host:port to dial
func (c Config) Address() string {
	if c.Port == nil {
		return c.Host
	}
	host := c.Host
	if h, _, err := net.SplitHostPort(c.Host); err == nil {
		host = h
	}
	return net.JoinHostPort(host, strconv.Itoa(int(*c.Port)))
}

func (c Config) withDefaults() Config {
	if c.Path == "" {
		c.Path = DefaultPath
	}
	if c.DeviceID == "" {
		c.DeviceID = uuid.New().String()
	}
	if c.DeviceName == "" {
		c.DeviceName = version.Product
	}
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Dialer == nil {
		c.Dialer = websocket.DefaultDialer
	}
	if c.Log == nil {
		c.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	return c
}

// Session is a live authenticated connection
type Session struct {
	config   Config
	conn     *websocket.Conn
	writeMu  sync.Mutex
	log      *logrus.Entry
	username string
	id       string

	mu      sync.RWMutex
	country string
	pending map[string]chan inbound
	streams map[string]*audioPipe
	err     error

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	done      chan struct{}
}

// Connect dials the access point and logs in. Transport failures are
// returned as *IOError and credential rejections as *AuthenticationError.
func Connect(ctx context.Context, cfg Config, creds Credentials) (*Session, error) {
	cfg = cfg.withDefaults()
	u := url.URL{Scheme: "ws", Host: cfg.Address(), Path: cfg.Path}
	log := cfg.Log.WithField("ap", u.Host)
	log.Debugf("Connecting to %s", u.String())

	conn, _, err := cfg.Dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, &IOError{Op: "dial", Err: err}
	}

	welcome, err := handshake(ctx, conn, cfg, creds)
	if err != nil {
		conn.Close()
		return nil, err
	}

	sctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		config:   cfg,
		conn:     conn,
		log:      log,
		username: welcome.Username,
		id:       welcome.SessionID,
		country:  welcome.Country,
		pending:  make(map[string]chan inbound),
		streams:  make(map[string]*audioPipe),
		ctx:      sctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	if s.username == "" {
		s.username = creds.Username
	}

	log.Infof("Authenticated as %s (country %s)", s.username, s.country)
	go s.readMessages()
	return s, nil
}

// handshake sends client/hello and waits for the login verdict
func handshake(ctx context.Context, conn *websocket.Conn, cfg Config, creds Credentials) (*Welcome, error) {
	deadline := time.Now().Add(cfg.HandshakeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	conn.SetWriteDeadline(deadline)
	conn.SetReadDeadline(deadline)
	defer conn.SetWriteDeadline(time.Time{})
	defer conn.SetReadDeadline(time.Time{})

	hello := Message{
		Type: TypeClientHello,
		Payload: ClientHello{
			DeviceID:   cfg.DeviceID,
			DeviceName: cfg.DeviceName,
			Version:    ProtocolVersion,
			DeviceInfo: DeviceInfo{
				ProductName:     version.Product,
				Manufacturer:    version.Manufacturer,
				SoftwareVersion: version.Version,
			},
			Credentials: creds.wire(),
		},
	}
	if err := conn.WriteJSON(hello); err != nil {
		return nil, &IOError{Op: "write", Err: err}
	}

	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, &IOError{Op: "read", Err: err}
	}

	var msg inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, &IOError{Op: "decode", Err: err}
	}

	switch msg.Type {
	case TypeWelcome:
		var welcome Welcome
		if err := msg.decode(&welcome); err != nil {
			return nil, &IOError{Op: "decode", Err: err}
		}
		return &welcome, nil

	case TypeLoginFailed:
		var failed LoginFailed
		if err := msg.decode(&failed); err != nil {
			return nil, &IOError{Op: "decode", Err: err}
		}
		return nil, &AuthenticationError{Code: failed.ErrorCode, Reason: failed.Reason}

	default:
		return nil, &IOError{Op: "handshake", Err: fmt.Errorf("expected %s, got %s", TypeWelcome, msg.Type)}
	}
}

// Username returns the canonical account name
func (s *Session) Username() string {
	return s.username
}

// Country returns the account country code
func (s *Session) Country() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.country
}

// Done is closed when the connection ends
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Keymaster requests an access token for clientID with comma-joined scopes
func (s *Session) Keymaster(ctx context.Context, clientID, scopes string) (*KeymasterToken, error) {
	id := uuid.New().String()
	resp, err := s.request(ctx, id, Message{
		Type:    TypeKeymasterReq,
		Payload: KeymasterRequest{RequestID: id, ClientID: clientID, Scopes: scopes},
	})
	if err != nil {
		return nil, err
	}

	switch resp.Type {
	case TypeKeymasterToken:
		var token KeymasterToken
		if err := resp.decode(&token); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", resp.Type, err)
		}
		return &token, nil
	case TypeKeymasterError:
		var kerr KeymasterError
		_ = resp.decode(&kerr)
		return nil, fmt.Errorf("keymaster: %s", kerr.Reason)
	default:
		return nil, fmt.Errorf("keymaster: unexpected %s", resp.Type)
	}
}

// request sends msg and waits for the response carrying id
func (s *Session) request(ctx context.Context, id string, msg Message) (inbound, error) {
	ch := make(chan inbound, 1)
	s.mu.Lock()
	if s.err != nil {
		s.mu.Unlock()
		return inbound{}, s.err
	}
	s.pending[id] = ch
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
	}()

	if err := s.sendJSON(msg); err != nil {
		return inbound{}, err
	}

	select {
	case resp := <-ch:
		return resp, nil
	case <-ctx.Done():
		return inbound{}, ctx.Err()
	case <-s.done:
		return inbound{}, s.closedErr()
	}
}

func (s *Session) closedErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return s.err
	}
	return ErrClosed
}

// sendJSON sends a JSON message
func (s *Session) sendJSON(msg Message) error {
	return s.sendJSONWithin(msg, writeTimeout)
}

func (s *Session) sendJSONWithin(msg Message, timeout time.Duration) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	select {
	case <-s.done:
		return s.closedErr()
	default:
	}
	s.conn.SetWriteDeadline(time.Now().Add(timeout))
	if err := s.conn.WriteJSON(msg); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	return nil
}

// readMessages reads and routes incoming messages until the connection ends
func (s *Session) readMessages() {
	var readErr error
	defer func() { s.shutdown(readErr) }()

	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.ctx.Done():
				readErr = ErrClosed
			default:
				s.log.Warnf("Read error: %v", err)
				readErr = &IOError{Op: "read", Err: err}
			}
			return
		}

		switch messageType {
		case websocket.BinaryMessage:
			s.handleBinaryMessage(data)
		case websocket.TextMessage:
			s.handleJSONMessage(data)
		default:
			s.log.Debugf("Unknown WebSocket message type: %d", messageType)
		}
	}
}

// handleJSONMessage routes JSON messages
func (s *Session) handleJSONMessage(data []byte) {
	var msg inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		s.log.Warnf("Failed to parse JSON message: %v", err)
		return
	}

	switch msg.Type {
	case TypePing:
		var ping Ping
		_ = msg.decode(&ping)
		if err := s.sendJSON(Message{Type: TypePong, Payload: ping}); err != nil {
			s.log.Warnf("Failed to answer ping: %v", err)
		}

	case TypeCountry:
		var cc CountryCode
		if err := msg.decode(&cc); err != nil {
			s.log.Warnf("Failed to parse %s: %v", msg.Type, err)
			return
		}
		s.mu.Lock()
		s.country = cc.Country
		s.mu.Unlock()

	case TypeAudioEnd, TypeAudioError:
		s.finishStream(msg)

	case TypeKeymasterToken, TypeKeymasterError, TypeAudioHeader:
		s.deliver(msg)

	default:
		s.log.Debugf("Unknown message type: %s", msg.Type)
	}
}

// deliver hands a response to the request waiting for it
func (s *Session) deliver(msg inbound) {
	id := msg.requestID()
	s.mu.RLock()
	ch, ok := s.pending[id]
	s.mu.RUnlock()
	if !ok {
		s.log.Debugf("Dropping %s for unknown request %s", msg.Type, id)
		return
	}
	select {
	case ch <- msg:
	default:
	}
}

// Close sends a goodbye and closes the connection. Safe to call repeatedly.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		// a peer that stopped reading must not hold writeMu past the deadline
		s.conn.NetConn().SetWriteDeadline(time.Now().Add(goodbyeTimeout))
		if err := s.sendJSONWithin(Message{Type: TypeClientGoodbye, Payload: ClientGoodbye{Reason: "shutdown"}}, goodbyeTimeout); err != nil {
			s.log.Debugf("goodbye: %v", err)
		}
		s.cancel()
		s.conn.Close()
	})
	<-s.done
	return nil
}

// shutdown fails outstanding work once the reader stops
func (s *Session) shutdown(err error) {
	if err == nil {
		err = ErrClosed
	}

	s.mu.Lock()
	s.err = err
	streams := s.streams
	s.streams = make(map[string]*audioPipe)
	s.mu.Unlock()

	for _, p := range streams {
		p.finish(err)
	}

	s.cancel()
	s.conn.Close()
	close(s.done)
	if !errors.Is(err, ErrClosed) {
		s.log.Warnf("Session ended: %v", err)
	} else {
		s.log.Infof("Session closed")
	}
}
