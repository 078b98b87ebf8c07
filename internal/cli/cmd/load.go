package cmd

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/matjam/layerpaper/internal/cli/cmd/utils"
	"github.com/matjam/layerpaper/internal/ipc"
	"github.com/matjam/layerpaper/internal/wallpaper"
	"github.com/spf13/cobra"
)

func NewLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <name|path>",
		Short: "Load a wallpaper directory, or show an installed one by name",
		Long: `With a path (anything containing a slash, or a directory here holding a
manifest), the wallpaper directory is loaded and becomes the current
wallpaper without being shown. Anything else is taken as the name of an
installed wallpaper, which is shown on every display.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			arg := args[0]

			if !isWallpaperPath(arg) {
				resp, err := ipc.SendSet(arg, "")
				utils.ExitOnError("set wallpaper", err)
				log.Infof("Showing %s on all displays", resp.Wallpaper.Name)
				return
			}

			resp, err := ipc.SendLoad(utils.CanonicalPath(arg))
			utils.ExitOnError("load wallpaper", err)
			log.Infof("Loaded %s from %s", resp.Wallpaper.Name, resp.Wallpaper.Path)
		},
	}
}

// isWallpaperPath tells a path from an installed wallpaper name. A bare
// word is a path only when it names a wallpaper directory here.
func isWallpaperPath(arg string) bool {
	if strings.ContainsRune(arg, '/') {
		return true
	}
	fi, err := os.Stat(arg)
	return err == nil && fi.IsDir() && wallpaper.HasManifest(arg)
}
