package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/model/flow"
)

var flagAll bool

var parentCmd = &cobra.Command{
	Use:   "parent",
	Short: "Print the upstream peers of a node",
	Long: `Print the nearest reachable ancestor of a node in the broadcast tree, or every
reachable ancestor up to the root with --all. The output has the same format as fanout.`,
	Args: cobra.NoArgs,
	RunE: parent,
}

func init() {
	addSelectionFlags(parentCmd)
	parentCmd.Flags().BoolVar(&flagAll, "all", false, "print every reachable ancestor, nearest first")
}

func parent(cmd *cobra.Command, _ []string) error {
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
		if flagAll {
			return fmt.Errorf("--all cannot be combined with --origin")
		}
		origin, err := flow.HexStringToIdentifier(flagOrigin)
		if err != nil {
			return fmt.Errorf("invalid originator identifier: %w", err)
		}
		selected = top.SelectParentByIdentity(peers, origin)
	} else {
		selected = top.SelectParent(peers, flagRoot, flagAll)
	}

	printSelection(cmd.OutOrStdout(), members, selected)
	return nil
}
