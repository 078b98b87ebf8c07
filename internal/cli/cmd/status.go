package cmd

import (
	"github.com/matjam/layerpaper/internal/cli/cmd/utils"
	"github.com/matjam/layerpaper/internal/ipc"
	"github.com/spf13/cobra"
)

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get layerpaper status",
		Long:  `Returns the daemon version and PID, and the wallpaper and size of every display.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			resp, err := ipc.SendStatus()
			utils.ExitOnError("get status", err)
			utils.PrintJSONColored(resp)
		},
	}
}
