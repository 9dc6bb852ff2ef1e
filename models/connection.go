package models

// ConnectionStatus is the push channel's observable state.
type ConnectionStatus string

// Enumerated connection statuses.
const (
	ConnectionConnected    ConnectionStatus = "connected"
	ConnectionDisconnected ConnectionStatus = "disconnected"
	ConnectionReconnecting ConnectionStatus = "reconnecting"
)

// ConnectionState describes the push connection plus its reconnect
// bookkeeping. Terminal is set once the reconnect budget is exhausted;
// only a manual connect clears it.
type ConnectionState struct {
	Status            ConnectionStatus `json:"status"`
	ReconnectAttempts int              `json:"reconnectAttempts"`
	MaxReconnects     int              `json:"maxReconnects"`
	Terminal          bool             `json:"terminal"`
}
