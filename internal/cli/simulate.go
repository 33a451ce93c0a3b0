package cli

import (
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/outlast-gg/arena/internal/model"
	"github.com/outlast-gg/arena/internal/ws"
)

func newSimulateCmd() *cobra.Command {
	var username string
	var gameID string
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Drive a synthetic movement feed into a session",
		Long: `Connect to a session and emit a synthetic circular movement feed.

Creates a new session unless --game is given. The feed is generated
faster than the wire rate and throttled client-side to at most 60
updates per second, the same cap the server enforces.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return simulateSession(gameID, username, duration)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Display name to play as")
	cmd.Flags().StringVarP(&gameID, "game", "g", "", "Existing game session to join")
	cmd.Flags().DurationVarP(&duration, "duration", "d", 30*time.Second, "How long to run the feed")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func simulateSession(gameID, username string, duration time.Duration) error {
	wsURL, err := cfg.WebsocketURL()
	if err != nil {
		return err
	}

	var game *GameConn
	if gameID == "" {
		game, err = CreateGame(wsURL, username)
	} else {
		game, err = JoinGame(wsURL, gameID, username)
	}
	if err != nil {
		return err
	}
	defer func() { _ = game.Close() }()

	fmt.Printf("Simulating in game %s as %s for %s\n", game.GameID, username, duration)

	// Drain server broadcasts so the connection's read side stays live.
	go func() {
		for {
			if _, err := game.ReadEnvelope(); err != nil {
				return
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Tick well above the wire rate and let the limiter drop the excess,
	// the same shape a render loop produces.
	ticker := time.NewTicker(ws.MinUpdateInterval / 4)
	defer ticker.Stop()

	limiter := ws.NewLimiter(ws.MinUpdateInterval)
	deadline := time.Now().Add(duration)
	start := time.Now()
	sent := 0

	for {
		select {
		case <-sigCh:
			fmt.Printf("Interrupted after %d updates\n", sent)
			return nil
		case now := <-ticker.C:
			if now.After(deadline) {
				fmt.Printf("Sent %d updates in %s\n", sent, duration)
				return nil
			}
			if !limiter.Allow(now) {
				continue
			}

			// Circle of radius 100 around the origin, one lap per 10s.
			angle := now.Sub(start).Seconds() * 2 * math.Pi / 10
			state := model.PlayerState{
				GameID:       game.GameID,
				GamePlayerID: game.GamePlayerID,
				PlayerID:     game.PlayerID,
				Username:     username,
				Position:     model.Position{X: 100 * math.Cos(angle), Y: 100 * math.Sin(angle)},
				Velocity:     model.Velocity{X: -100 * math.Sin(angle), Y: 100 * math.Cos(angle)},
				Rotation:     angle,
				Health:       model.MaxHealth,
				IsAlive:      true,
			}
			if err := game.SendUpdate(state); err != nil {
				return fmt.Errorf("failed to send update after %d frames: %w", sent, err)
			}
			sent++
		}
	}
}
