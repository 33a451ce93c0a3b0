package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCreateCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game session",
		Long: `Create a new game session over websocket.

Prints the identifiers for the created session and disconnects. Use
'arena watch' or 'arena simulate' to stay connected to a session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wsURL, err := cfg.WebsocketURL()
			if err != nil {
				return err
			}

			game, err := CreateGame(wsURL, username)
			if err != nil {
				return err
			}
			defer func() { _ = game.Close() }()

			out := NewOutput(cfg.Output)
			out.Print(GameIdentifiers{
				GameID:       game.GameID,
				GamePlayerID: game.GamePlayerID,
				PlayerID:     game.PlayerID,
			})
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Display name to play as")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func newJoinCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "join <game-id>",
		Short: "Join an existing game session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wsURL, err := cfg.WebsocketURL()
			if err != nil {
				return err
			}

			game, err := JoinGame(wsURL, args[0], username)
			if err != nil {
				return err
			}
			defer func() { _ = game.Close() }()

			if cfg.Verbose {
				fmt.Printf("Joined game %s\n", game.GameID)
			}

			out := NewOutput(cfg.Output)
			out.Print(GameIdentifiers{
				GameID:       game.GameID,
				GamePlayerID: game.GamePlayerID,
				PlayerID:     game.PlayerID,
			})
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Display name to play as")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}
