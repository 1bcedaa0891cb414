// Package protocol defines the JSON-RPC 2.0 message shapes MCP Aegis
// speaks on the wire, and the handshake sequence used to bring a server
// under test up to the "ready" state.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Version is the JSON-RPC version MCP Aegis speaks.
const Version = "2.0"

// Message is a JSON-RPC 2.0 request, response, or notification. Requests
// and responses carry an ID; notifications omit it.
type Message struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id,omitempty"`
	Method  string `json:"method,omitempty"`
	Params  any    `json:"params,omitempty"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// Error represents a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Standard JSON-RPC 2.0 error codes.
const (
	ParseErrorCode     = -32700
	InvalidRequestCode = -32600
	MethodNotFoundCode = -32601
	InvalidParamsCode  = -32602
	InternalErrorCode  = -32603
)

// IsNotification reports whether m carries no ID, i.e. is a notification.
func (m *Message) IsNotification() bool {
	return m.ID == nil
}

// IsRequest reports whether m has a method and an ID (a request expecting
// a response), as opposed to a response (method is empty).
func (m *Message) IsRequest() bool {
	return m.Method != "" && m.ID != nil
}

// IsResponse reports whether m looks like a response: no method, and
// either a result or an error.
func (m *Message) IsResponse() bool {
	return m.Method == "" && (m.Result != nil || m.Error != nil)
}

// NewRequest builds a JSON-RPC request with the given method, params and id.
func NewRequest(method string, params any, id any) *Message {
	return &Message{JSONRPC: Version, Method: method, Params: params, ID: id}
}

// NewNotification builds a JSON-RPC notification (no id).
func NewNotification(method string, params any) *Message {
	return &Message{JSONRPC: Version, Method: method, Params: params}
}

// NewResponse builds a successful JSON-RPC response.
func NewResponse(result any, id any) *Message {
	return &Message{JSONRPC: Version, Result: result, ID: id}
}

// NewErrorResponse builds a JSON-RPC error response.
func NewErrorResponse(code int, message string, data any, id any) *Message {
	return &Message{JSONRPC: Version, Error: &Error{Code: code, Message: message, Data: data}, ID: id}
}

// Marshal serializes m as a single JSON-RPC frame (no trailing newline;
// callers that write to a stream append the newline themselves so the
// framing boundary stays explicit, matching transport.MessageHandler).
func (m *Message) Marshal() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON-RPC message: %w", err)
	}
	return data, nil
}

// Parse decodes a single JSON-RPC frame.
func Parse(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse JSON-RPC message: %w", err)
	}
	return &msg, nil
}

// ClientInfo identifies the MCP Aegis client during the initialize handshake.
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeParams is the params payload for the "initialize" request.
type InitializeParams struct {
	ProtocolVersion string         `json:"protocolVersion"`
	ClientInfo      ClientInfo     `json:"clientInfo"`
	Capabilities    map[string]any `json:"capabilities"`
}

// InitializeResult is the expected shape of a successful "initialize" result.
type InitializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	ServerInfo      ClientInfo     `json:"serverInfo"`
	Capabilities    map[string]any `json:"capabilities"`
}

// ProtocolVersion is the MCP protocol version MCP Aegis negotiates.
const ProtocolVersion = "2025-06-18"
