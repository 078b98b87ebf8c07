package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/matjam/layerpaper/internal/cli/cmd/utils"
	"github.com/matjam/layerpaper/internal/ipc"
	"github.com/spf13/cobra"
)

func NewCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the current wallpaper",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			resp, err := ipc.SendCurrent()
			utils.ExitOnError("get current wallpaper", err)
			log.Infof("Current wallpaper: %s", resp.Wallpaper.Name)
			log.Infof("Path: %s", resp.Wallpaper.Path)
		},
	}
}
