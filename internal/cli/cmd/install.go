package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/matjam/layerpaper/internal/cli/cmd/utils"
	"github.com/matjam/layerpaper/internal/ipc"
	"github.com/spf13/cobra"
)

func NewInstallCmd() *cobra.Command {
	var name string

	c := &cobra.Command{
		Use:   "install <dir>",
		Short: "Copy a wallpaper directory into the wallpapers directory",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			resp, err := ipc.SendInstall(utils.CanonicalPath(args[0]), name)
			utils.ExitOnError("install wallpaper", err)
			log.Infof("Installed %s to %s", resp.Wallpaper.Name, resp.Wallpaper.Path)
		},
	}

	c.Flags().StringVarP(&name, "name", "n", "", "install under this name instead of the directory name")
	return c
}
