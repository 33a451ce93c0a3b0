package cli

import (
	"github.com/spf13/cobra"

	"github.com/outlast-gg/arena/internal/model"
)

func newStatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "states",
		Short: "List the last observed state of every known player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []model.PlayerState
			if err := client.Get("/api/v1/player-state", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
