package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/model/flow"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/module"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/module/metrics"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/network/topology"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the broadcast tree of a round for every member",
	Long: `Print, for every member, its parent and children in the broadcast round rooted
at --root, with the --offline members treated as unreachable.`,
	Args: cobra.NoArgs,
	RunE: describe,
}

var flagMetrics bool

func init() {
	describeCmd.Flags().IntVar(&flagRoot, "root", 0, "virtual root position of the broadcast round")
	describeCmd.Flags().BoolVar(&flagMetrics, "metrics", false, "print the topology metrics gathered while computing the round")
}

// treeRow is the view of one member on a broadcast round.
type treeRow struct {
	index     int
	id        flow.Identifier
	distance  int
	reachable bool
	parents   flow.IdentifierList
	children  flow.IdentifierList
}

func describe(cmd *cobra.Command, _ []string) error {
	members, err := loadMembers(flagMembers)
	if err != nil {
		return err
	}
	peers, err := peerSnapshot(members, flagOffline)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	var collector module.TopologyMetrics
	if flagMetrics {
		collector = metrics.NewTopologyCollector(registry)
	}

	rows, err := describeRound(members, peers, flagRoot, collector)
	if err != nil {
		return err
	}
	renderRound(cmd.OutOrStdout(), members, rows)

	if flagMetrics {
		return printMetrics(cmd.OutOrStdout(), registry)
	}
	return nil
}

// printMetrics writes the gathered metrics in the Prometheus text format.
func printMetrics(out io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("could not gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return fmt.Errorf("could not write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// describeRound computes the view of every member on the round rooted at virtualRoot.
// Every member topology reports to the same collector, which may be nil.
func describeRound(members flow.IdentifierList, peers flow.IdentifierSet, virtualRoot int, collector module.TopologyMetrics) ([]treeRow, error) {
	rows := make([]treeRow, 0, len(members))
	for i, id := range members {
		top, err := loadTopology(id, members, collector)
		if err != nil {
			return nil, fmt.Errorf("could not build topology of member %d: %w", i, err)
		}
		rows = append(rows, treeRow{
			index:     i,
			id:        id,
			distance:  topology.Distance(i, virtualRoot, len(members)),
			reachable: peers.Contains(id),
			parents:   top.SelectParent(peers, virtualRoot, false),
			children:  top.SelectNodes(peers, virtualRoot, false),
		})
	}
	return rows, nil
}

func renderRound(out io.Writer, members flow.IdentifierList, rows []treeRow) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Index", "Node", "Distance", "Reachable", "Parent", "Children"})
	table.SetAutoWrapText(false)
	for _, row := range rows {
		table.Append([]string{
			strconv.Itoa(row.index),
			row.id.TerminalString(),
			strconv.Itoa(row.distance),
			strconv.FormatBool(row.reachable),
			positions(members, row.parents),
			positions(members, row.children),
		})
	}
	table.Render()
}

func positions(members flow.IdentifierList, ids flow.IdentifierList) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(members.Lookup(id)))
	}
	return strings.Join(parts, ",")
}
