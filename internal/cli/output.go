package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/outlast-gg/arena/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case SessionDetail:
		o.printSessionDetail(v)
	case GameIdentifiers:
		o.printGameIdentifiers(v)
	case []model.PlayerState:
		o.printPlayerStates(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Session response type (matches API)
type Session struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	MaxParticipants int    `json:"max_participants"`
	CreatedAt       string `json:"created_at"`
}

// SessionParticipant response type
type SessionParticipant struct {
	ID            string         `json:"id"`
	SessionID     string         `json:"session_id"`
	ParticipantID string         `json:"participant_id"`
	Health        int            `json:"health"`
	IsAlive       bool           `json:"is_alive"`
	LastPosition  model.Position `json:"last_position"`
}

// SessionDetail response type
type SessionDetail struct {
	Session      Session              `json:"session"`
	Participants []SessionParticipant `json:"participants"`
}

// GameIdentifiers is the identity triple handed back on create/join
type GameIdentifiers struct {
	GameID       string `json:"gameId"`
	GamePlayerID string `json:"gamePlayerId"`
	PlayerID     string `json:"playerId"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printSessionDetail(s SessionDetail) {
	fmt.Printf("Session: %s\n", s.Session.ID)
	fmt.Printf("Status: %s\n", s.Session.Status)
	fmt.Printf("Capacity: %d\n", s.Session.MaxParticipants)
	fmt.Printf("Participants (%d):\n", len(s.Participants))
	for _, p := range s.Participants {
		aliveStr := "alive"
		if !p.IsAlive {
			aliveStr = "dead"
		}
		fmt.Printf("  - %s (participant %s) - %d hp, %s, at (%.1f, %.1f)\n",
			p.ID, p.ParticipantID, p.Health, aliveStr, p.LastPosition.X, p.LastPosition.Y)
	}
}

func (o *Output) printGameIdentifiers(g GameIdentifiers) {
	fmt.Printf("Game: %s\n", g.GameID)
	fmt.Printf("Game Player: %s\n", g.GamePlayerID)
	fmt.Printf("Player: %s\n", g.PlayerID)
}

func (o *Output) printPlayerStates(states []model.PlayerState) {
	if len(states) == 0 {
		fmt.Println("No player states recorded")
		return
	}
	fmt.Printf("Player States (%d):\n", len(states))
	for _, s := range states {
		aliveStr := "alive"
		if !s.IsAlive {
			aliveStr = "dead"
		}
		fmt.Printf("  - %s (%s) in %s - %d hp, %s, at (%.1f, %.1f)\n",
			s.Username, s.GamePlayerID, s.GameID, s.Health, aliveStr, s.Position.X, s.Position.Y)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
