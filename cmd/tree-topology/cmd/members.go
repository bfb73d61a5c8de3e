package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"

	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/model/flow"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/module"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/network"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/network/netconf"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/network/topology"
)

// loadMembers reads the membership file: a JSON array of hex encoded identifiers.
func loadMembers(path string) (flow.IdentifierList, error) {
	if path == "" {
		return nil, fmt.Errorf("membership file is required (--members)")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read membership file: %w", err)
	}

	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("could not decode membership file %s: %w", path, err)
	}

	members, err := parseIdentifiers(entries)
	if err != nil {
		return nil, fmt.Errorf("invalid membership file %s: %w", path, err)
	}
	return members, nil
}

// parseIdentifiers parses the hex identifiers in order. Every malformed or
// duplicated entry is reported.
func parseIdentifiers(entries []string) (flow.IdentifierList, error) {
	var result *multierror.Error
	members := make(flow.IdentifierList, 0, len(entries))
	seen := make(map[flow.Identifier]int, len(entries))

	for i, entry := range entries {
		id, err := flow.HexStringToIdentifier(entry)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		if first, ok := seen[id]; ok {
			result = multierror.Append(result, fmt.Errorf("entry %d: duplicate of entry %d (%s)", i, first, id))
			continue
		}
		seen[id] = i
		members = append(members, id)
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return members, nil
}

// peerSnapshot returns every member except the offline ones as reachable.
func peerSnapshot(members flow.IdentifierList, offline []string) (flow.IdentifierSet, error) {
	excluded, err := parseIdentifiers(offline)
	if err != nil {
		return nil, fmt.Errorf("invalid offline identifiers: %w", err)
	}

	peers := flow.NewIdentifierSet(members...)
	for _, id := range excluded {
		peers.Remove(id)
	}
	return peers, nil
}

// loadTopology builds the configured topology of the given node over the membership.
// A nil collector disables metrics.
func loadTopology(me flow.Identifier, members flow.IdentifierList, collector module.TopologyMetrics) (network.Topology, error) {
	config, err := netconf.LoadConfig(conf)
	if err != nil {
		return nil, err
	}
	// one-shot queries, nothing to cache
	config.FanoutCacheSize = 0

	top, err := topology.New(log, me, config, collector)
	if err != nil {
		return nil, fmt.Errorf("could not create topology: %w", err)
	}
	top.UpdateMembership(members)
	return top, nil
}

// printSelection writes one line per selected node: its position in the membership and its identifier.
func printSelection(out io.Writer, members flow.IdentifierList, selected flow.IdentifierList) {
	for _, id := range selected {
		fmt.Fprintf(out, "%d\t%s\n", members.Lookup(id), id)
	}
}
