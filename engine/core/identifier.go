package core

import "github.com/google/uuid"

// SessionID tags one renderer instance for the lifetime of its backend.
// Debug-name registries and log lines carry it so that resources from a
// torn-down backend are never confused with the active one after a
// fallback reinitialization.
type SessionID string

func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// Short returns the first uuid group, enough to disambiguate in logs.
func (s SessionID) Short() string {
	if len(s) < 8 {
		return string(s)
	}
	return string(s[:8])
}
