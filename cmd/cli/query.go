package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "query the governance rpc",
}

var pollStatusFilter = ""

func init() {
	queryCmd.AddCommand(heightCmd)
	queryCmd.AddCommand(configCmd)
	queryCmd.AddCommand(stateCmd)
	queryCmd.AddCommand(stakerCmd)
	queryCmd.AddCommand(stakersCmd)
	queryCmd.AddCommand(pollCmd)
	queryCmd.AddCommand(pollsCmd)
	pollsCmd.Flags().StringVar(&pollStatusFilter, "status", "", "only polls with this status: in_progress, passed, rejected, executed")
}

var (
	heightCmd = &cobra.Command{
		Use:   "height",
		Short: "query the ledger height of the governance node",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Height())
		},
	}
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "query the governance parameters",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Config())
		},
	}
	stateCmd = &cobra.Command{
		Use:   "state",
		Short: "query the aggregate accounting record",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.State())
		},
	}
	stakerCmd = &cobra.Command{
		Use:   "staker <address>",
		Short: "query a staker record by hex address",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Staker(args[0]))
		},
	}
	stakersCmd = &cobra.Command{
		Use:   "stakers",
		Short: "query every staker record",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Stakers())
		},
	}
	pollCmd = &cobra.Command{
		Use:   "poll <id>",
		Short: "query a poll by id",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				l.Fatal(err.Error())
			}
			writeToConsole(client.Poll(id))
		},
	}
	pollsCmd = &cobra.Command{
		Use:   "polls",
		Short: "query every poll, optionally filtered by status",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Polls(pollStatusFilter))
		},
	}
)
