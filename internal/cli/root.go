/*
Copyright © 2025 Nathan Ollerenshaw <chrome@stupendous.net>
*/
package cli

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/matjam/layerpaper"
	"github.com/matjam/layerpaper/internal/cli/cmd"
	"github.com/matjam/layerpaper/internal/cli/cmd/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "layerpaper",
	Short: "A GPU accelerated layered wallpaper daemon for Wayland",
	Long: `Layerpaper draws layered, animated wallpapers on the background layer
of wlr-layer-shell compositors using WebGPU. Wallpapers are directories with
a manifest describing colour, image, shader effect and particle layers.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, err := cmd.Flags().GetBool("installconfig"); err == nil && v {
			utils.InstallDefaultConfig()
			return
		}

		if v, err := cmd.Flags().GetBool("show-config"); err == nil && v {
			log.Infof("Using config file: %v", viper.ConfigFileUsed())
			log.Infof("All settings:")
			utils.PrintJSONColored(viper.AllSettings())
			return
		}

		if v, err := cmd.Flags().GetBool("version"); err == nil && v {
			printVersion()
			return
		}

		cmd.Help()
	},
}

func printVersion() {
	babyBlue := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("76"))
	log.Infof("%v version %v © 2025 %v",
		babyBlue.Render("layerpaper "),
		green.Render(strings.TrimSpace(layerpaper.Version)),
		yellow.Render("Nathan Ollerenshaw"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	RegisterFlags(rootCmd)

	rootCmd.AddCommand(
		cmd.NewStartCmd(),
		cmd.NewStopCmd(),
		cmd.NewPingCmd(),
		cmd.NewLoadCmd(),
		cmd.NewCurrentCmd(),
		cmd.NewListCmd(),
		cmd.NewInstallCmd(),
		cmd.NewSetCmd(),
		cmd.NewStatusCmd(),
		cmd.NewGenManCmd(rootCmd),
	)
}
