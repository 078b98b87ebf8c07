package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/matjam/layerpaper/internal/cli/cmd/utils"
	"github.com/matjam/layerpaper/internal/ipc"
	"github.com/spf13/cobra"
)

func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed wallpapers",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			resp, err := ipc.SendList()
			utils.ExitOnError("list wallpapers", err)

			if len(resp.Wallpapers) == 0 {
				log.Info("No wallpapers installed")
				return
			}
			for _, name := range resp.Wallpapers {
				log.Info(name)
			}
		},
	}
}
