package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/model/flow"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/utils/logging"
)

var (
	flagSelf       string
	flagRoot       int
	flagOrigin     string
	flagOriginator bool
)

var fanoutCmd = &cobra.Command{
	Use:   "fanout",
	Short: "Print the peers a node forwards a broadcast to",
	Long: `Print the peers a node forwards a broadcast to, one per line as
<position in the membership> <identifier>.

The broadcast round is rooted at --root, or at the position of --origin when given.`,
	Args: cobra.NoArgs,
	RunE: fanout,
}

func init() {
	addSelectionFlags(fanoutCmd)
	fanoutCmd.Flags().BoolVar(&flagOriginator, "originator", false, "the node is the originator of the broadcast")
}

// addSelectionFlags registers the flags shared by the selection commands.
func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagSelf, "self", "", "hex identifier of the local node")
	cmd.Flags().IntVar(&flagRoot, "root", 0, "virtual root position of the broadcast round")
	cmd.Flags().StringVar(&flagOrigin, "origin", "", "hex identifier of the broadcast originator, overrides --root")
	cmd.MarkFlagsMutuallyExclusive("root", "origin")
	_ = cmd.MarkFlagRequired("self")
}

func fanout(cmd *cobra.Command, _ []string) error {
	me, err := flow.HexStringToIdentifier(flagSelf)
	if err != nil {
		return fmt.Errorf("invalid local node identifier: %w", err)
	}

	members, err := loadMembers(flagMembers)
	if err != nil {
		return err
	}
	peers, err := peerSnapshot(members, flagOffline)
	if err != nil {
		return err
	}
	top, err := loadTopology(me, members, nil)
	if err != nil {
		return err
	}

	var selected flow.IdentifierList
	if flagOrigin != "" {
		origin, err := flow.HexStringToIdentifier(flagOrigin)
		if err != nil {
			return fmt.Errorf("invalid originator identifier: %w", err)
		}
		selected = top.SelectNodesByIdentity(peers, origin, flagOriginator)
	} else {
		selected = top.SelectNodes(peers, flagRoot, flagOriginator)
	}

	log.Debug().
		Hex("node_id", logging.ID(me)).
		Int("peers", len(peers)).
		Int("selected", len(selected)).
		Msg("fanout computed")

	printSelection(cmd.OutOrStdout(), members, selected)
	return nil
}
