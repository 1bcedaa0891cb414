package protocol

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Conn is the minimal surface HandshakeDriver needs from the transport
// layer: send a framed message, and read the next one with a timeout.
// transport.Communicator satisfies this.
type Conn interface {
	SendMessage(msg *Message) error
	ReadMessage(timeout time.Duration) (*Message, error)
}

// DefaultPostHandshakeDelay is the settle delay after the initialized
// notification, before the first test is dispatched. Load-bearing for
// some servers that need a moment after the handshake before they're
// ready to handle requests; left tunable via HandshakeDriver.SettleDelay.
const DefaultPostHandshakeDelay = 100 * time.Millisecond

// HandshakeDriver performs the MCP initialize / initialized sequence.
type HandshakeDriver struct {
	Conn            Conn
	ClientName      string
	ClientVersion   string
	ProtocolVersion string
	SettleDelay     time.Duration
	InitTimeout     time.Duration

	// instanceID distinguishes concurrent runs in diagnostics/logs.
	instanceID string
}

// NewHandshakeDriver builds a driver with MCP Aegis defaults.
func NewHandshakeDriver(conn Conn) *HandshakeDriver {
	return &HandshakeDriver{
		Conn:            conn,
		ClientName:      "mcp-aegis",
		ClientVersion:   "1.0.0",
		ProtocolVersion: ProtocolVersion,
		SettleDelay:     DefaultPostHandshakeDelay,
		InitTimeout:     10 * time.Second,
		instanceID:      uuid.NewString(),
	}
}

// InstanceID returns the unique id minted for this handshake's run, used
// to disambiguate concurrent runs against the same server in logs.
func (h *HandshakeDriver) InstanceID() string {
	return h.instanceID
}

// Perform sends "initialize", validates the response, sends
// "notifications/initialized", and waits the settle delay.
func (h *HandshakeDriver) Perform() (*InitializeResult, error) {
	req := NewRequest("initialize", InitializeParams{
		ProtocolVersion: h.ProtocolVersion,
		ClientInfo: ClientInfo{
			Name:    h.ClientName,
			Version: fmt.Sprintf("%s+%s", h.ClientVersion, h.instanceID[:8]),
		},
		Capabilities: map[string]any{},
	}, "init-1")

	if err := h.Conn.SendMessage(req); err != nil {
		return nil, fmt.Errorf("handshake: failed to send initialize request: %w", err)
	}

	resp, err := h.Conn.ReadMessage(h.InitTimeout)
	if err != nil {
		return nil, fmt.Errorf("handshake: failed to read initialize response: %w", err)
	}

	if resp.Error != nil {
		return nil, fmt.Errorf("handshake: server returned error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("handshake: initialize response missing result")
	}

	result, err := decodeInitializeResult(resp.Result)
	if err != nil {
		return nil, fmt.Errorf("handshake: %w", err)
	}

	notification := NewNotification("notifications/initialized", map[string]any{})
	if err := h.Conn.SendMessage(notification); err != nil {
		return nil, fmt.Errorf("handshake: failed to send initialized notification: %w", err)
	}

	if h.SettleDelay > 0 {
		time.Sleep(h.SettleDelay)
	}

	return result, nil
}

func decodeInitializeResult(raw any) (*InitializeResult, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return &InitializeResult{}, nil
	}

	result := &InitializeResult{Capabilities: map[string]any{}}
	if v, ok := m["protocolVersion"].(string); ok {
		result.ProtocolVersion = v
	}
	if caps, ok := m["capabilities"].(map[string]any); ok {
		result.Capabilities = caps
	}
	if info, ok := m["serverInfo"].(map[string]any); ok {
		if name, ok := info["name"].(string); ok {
			result.ServerInfo.Name = name
		}
		if version, ok := info["version"].(string); ok {
			result.ServerInfo.Version = version
		}
	}
	return result, nil
}
