package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var username string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "watch <game-id>",
		Short: "Join a session and stream its events",
		Long: `Join the given game session and print every event broadcast to it.

Events include:
  - playerJoined: Another participant joined the session
  - playerStateUpdate: A participant broadcast a movement frame
  - playerLeft: A participant disconnected

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchSession(args[0], username, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Display name to watch as")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

// watchedEvent is an event line as printed in --json mode
type watchedEvent struct {
	Time  time.Time       `json:"time"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func watchSession(gameID, username string, jsonOutput bool) error {
	wsURL, err := cfg.WebsocketURL()
	if err != nil {
		return err
	}

	game, err := JoinGame(wsURL, gameID, username)
	if err != nil {
		return err
	}
	defer func() { _ = game.Close() }()

	if !jsonOutput {
		fmt.Printf("Watching game %s as %s. Press Ctrl+C to disconnect.\n", game.GameID, username)
	}

	// Close the connection on interrupt so the read loop unblocks.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		_ = game.Close()
	}()

	for {
		env, err := game.ReadEnvelope()
		if err != nil {
			// Interrupt closes the connection, which is a clean exit here.
			return nil
		}

		if jsonOutput {
			line, err := json.Marshal(watchedEvent{
				Time:  time.Now(),
				Event: env.Event,
				Data:  env.Data,
			})
			if err != nil {
				continue
			}
			fmt.Println(string(line))
		} else {
			fmt.Printf("[%s] %s: %s\n", time.Now().Format(time.TimeOnly), env.Event, string(env.Data))
		}
	}
}
