package multiplayer

// CloseReason describes why a room was closed.
type CloseReason int

const (
	CloseReasonEmpty    CloseReason = iota // Both seats left
	CloseReasonExpired                     // Lone occupant waited past the room timeout
	CloseReasonShutdown                    // Relay stopped
)

// String returns a human-readable name for the reason.
func (r CloseReason) String() string {
	switch r {
	case CloseReasonEmpty:
		return "empty"
	case CloseReasonExpired:
		return "expired"
	case CloseReasonShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// ParseCloseReason is the inverse of String. Unknown names map to
// CloseReasonEmpty.
func ParseCloseReason(s string) CloseReason {
	switch s {
	case "expired":
		return CloseReasonExpired
	case "shutdown":
		return CloseReasonShutdown
	default:
		return CloseReasonEmpty
	}
}
