package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/matjam/layerpaper/internal/cli/cmd/utils"
	"github.com/matjam/layerpaper/internal/ipc"
	"github.com/spf13/cobra"
)

func NewPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the daemon is running",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			utils.ExitOnError("ping daemon", ipc.SendPing())
			log.Info("layerpaper is running")
		},
	}
}
