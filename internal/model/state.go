package model

// PlayerState is the transient per-frame message a client emits at up to
// 60 Hz. The full message is fanned out live to the other connections in
// the session; only position, health and isAlive are durably written.
//
// The server trusts these values as reported (client-authoritative): no
// server-side reconciliation or validation beyond clamping health. That
// trust boundary is a deliberate property of the system, not an omission.
type PlayerState struct {
	GameID       string   `json:"gameId"`
	GamePlayerID string   `json:"gamePlayerId"`
	PlayerID     string   `json:"playerId"`
	Username     string   `json:"username"`
	Position     Position `json:"position"`
	Velocity     Velocity `json:"velocity"`
	Rotation     float64  `json:"rotation"`
	Health       int      `json:"health"`
	IsAlive      bool     `json:"isAlive"`
	IsShooting   bool     `json:"isShooting,omitempty"`
}

// Bullets, obstacles and world geometry are computed locally by every
// client and are intentionally absent from the wire protocol; there is no
// message type for them.
