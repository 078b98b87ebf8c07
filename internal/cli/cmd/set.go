package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/matjam/layerpaper/internal/cli/cmd/utils"
	"github.com/matjam/layerpaper/internal/ipc"
	"github.com/spf13/cobra"
)

func NewSetCmd() *cobra.Command {
	var monitor string

	c := &cobra.Command{
		Use:   "set <name>",
		Short: "Show an installed or loaded wallpaper",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			resp, err := ipc.SendSet(args[0], monitor)
			utils.ExitOnError("set wallpaper", err)

			target := monitor
			if target == "" {
				target = "all displays"
			}
			log.Infof("Showing %s on %s", resp.Wallpaper.Name, target)
		},
	}

	c.Flags().StringVarP(&monitor, "monitor", "m", "", "output name, e.g. DP-1 (default all)")
	return c
}
