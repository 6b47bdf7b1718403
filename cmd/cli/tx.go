package main

import (
	"strconv"

	"github.com/meridian-protocol/meridian/gov"
	"github.com/meridian-protocol/meridian/lib"
	"github.com/spf13/cobra"
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "submit a governance message to a development node",
	Long: "tx submits a governance message under a stated caller identity. On a production " +
		"deployment the host ledger authenticates the caller; a development node trusts the --from flag.",
}

var (
	fromAddress string
	executeTo   string
	executeWith string
	voteNo      bool
)

func init() {
	txCmd.PersistentFlags().StringVar(&fromAddress, "from", "", "hex address of the caller")
	txCmd.AddCommand(txStakeCmd)
	txCmd.AddCommand(txCreatePollCmd)
	txCmd.AddCommand(txVoteCmd)
	txCmd.AddCommand(txWithdrawCmd)
	txCmd.AddCommand(txEndPollCmd)
	txCmd.AddCommand(txExecutePollCmd)
	txCreatePollCmd.Flags().StringVar(&executeTo, "execute-target", "", "hex address the poll sub-call targets")
	txCreatePollCmd.Flags().StringVar(&executeWith, "execute-payload", "", "hex payload of the poll sub-call")
	txVoteCmd.Flags().BoolVar(&voteNo, "no", false, "vote no instead of yes")
}

var (
	txStakeCmd = &cobra.Command{
		Use:   "stake <sender> <amount>",
		Short: "deliver a stake deposit notification; the caller must be the staking asset contract",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Transaction(caller(), &gov.MessageDeposit{
				Sender: argAddress(args[0]),
				Amount: argAmount(args[1]),
				Hook:   gov.DepositHook{Stake: &gov.StakeHook{}},
			}))
		},
	}
	txCreatePollCmd = &cobra.Command{
		Use:   "create-poll <sender> <deposit> <description>",
		Short: "deliver a poll creation deposit notification; the caller must be the staking asset contract",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			hook := &gov.CreatePollHook{Description: args[2]}
			if executeTo != "" {
				hook.ExecuteData = &gov.ExecuteData{
					Target:  argAddress(executeTo),
					Payload: argAddress(executeWith),
				}
			}
			writeToConsole(client.Transaction(caller(), &gov.MessageDeposit{
				Sender: argAddress(args[0]),
				Amount: argAmount(args[1]),
				Hook:   gov.DepositHook{CreatePoll: hook},
			}))
		},
	}
	txVoteCmd = &cobra.Command{
		Use:   "vote <poll-id> <share>",
		Short: "cast a yes vote (or no with --no) on an open poll",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			option := gov.VoteYes
			if voteNo {
				option = gov.VoteNo
			}
			writeToConsole(client.Transaction(caller(), &gov.MessageCastVote{
				Address: caller(),
				PollId:  argAmount(args[0]),
				Option:  option,
				Share:   argAmount(args[1]),
			}))
		},
	}
	txWithdrawCmd = &cobra.Command{
		Use:   "withdraw [amount]",
		Short: "withdraw unlocked staked share; omit the amount to withdraw everything unlocked",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			msg := &gov.MessageWithdraw{Address: caller()}
			if len(args) == 1 {
				amount := argAmount(args[0])
				msg.Amount = &amount
			}
			writeToConsole(client.Transaction(caller(), msg))
		},
	}
	txEndPollCmd = &cobra.Command{
		Use:   "end-poll <poll-id>",
		Short: "close a poll whose voting window has expired",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Transaction(caller(), &gov.MessageEndPoll{PollId: argAmount(args[0])}))
		},
	}
	txExecutePollCmd = &cobra.Command{
		Use:   "execute-poll <poll-id>",
		Short: "dispatch the stored sub-call of a passed poll",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Transaction(caller(), &gov.MessageExecutePoll{PollId: argAmount(args[0])}))
		},
	}
)

// caller() resolves the --from flag into the stated caller identity
func caller() lib.HexBytes {
	if fromAddress == "" {
		l.Fatal("a --from address is required")
	}
	return argAddress(fromAddress)
}

// argAddress() parses a hex argument, exiting on malformed input
func argAddress(arg string) lib.HexBytes {
	bz, err := lib.StringToBytes(arg)
	if err != nil {
		l.Fatal(err.Error())
	}
	return bz
}

// argAmount() parses an unsigned integer argument, exiting on malformed input
func argAmount(arg string) uint64 {
	u, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		l.Fatal(err.Error())
	}
	return u
}
