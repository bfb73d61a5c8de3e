package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/model/flow"
	"github.com/FISCO-BCOS/FISCO-BCOS-sub024/utils/unittest"
)

// writeMembers stores the membership in a temporary membership file.
func writeMembers(t *testing.T, members flow.IdentifierList) string {
	data, err := json.Marshal(members)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "members.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// resetFlags restores the default value of every flag, so that commands can be
// executed repeatedly within the same test binary.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// run executes the CLI with the given arguments and returns the lines written to stdout.
func run(t *testing.T, args ...string) ([]string, error) {
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append(args, "--loglevel", "error"))
	err := rootCmd.Execute()

	text := strings.TrimSpace(out.String())
	if text == "" {
		return nil, err
	}
	return strings.Split(text, "\n"), err
}

// selectionLines renders the expected fanout output of the members at the given positions.
func selectionLines(members flow.IdentifierList, indices ...int) []string {
	lines := make([]string, 0, len(indices))
	for _, i := range indices {
		lines = append(lines, fmt.Sprintf("%d\t%s", i, members[i]))
	}
	return lines
}

func TestParseIdentifiers(t *testing.T) {
	members := unittest.IdentifierListFixture(3)

	t.Run("valid", func(t *testing.T) {
		parsed, err := parseIdentifiers(members.Strings())
		require.NoError(t, err)
		assert.Equal(t, members, parsed)
	})

	t.Run("every invalid entry is reported", func(t *testing.T) {
		entries := []string{members[0].String(), "not-hex", members[1].String(), members[0].String(), "abcd"}
		_, err := parseIdentifiers(entries)
		require.Error(t, err)

		var merr *multierror.Error
		require.ErrorAs(t, err, &merr)
		assert.Len(t, merr.Errors, 3)
		assert.Contains(t, err.Error(), "entry 3: duplicate of entry 0")
	})

	t.Run("empty", func(t *testing.T) {
		parsed, err := parseIdentifiers(nil)
		require.NoError(t, err)
		assert.Empty(t, parsed)
	})
}

func TestLoadMembers(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		members := unittest.IdentifierListFixture(5)
		loaded, err := loadMembers(writeMembers(t, members))
		require.NoError(t, err)
		assert.Equal(t, members, loaded)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := loadMembers("")
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadMembers(filepath.Join(t.TempDir(), "absent.json"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("not a list", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "members.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"members": 1}`), 0o600))
		_, err := loadMembers(path)
		require.Error(t, err)
	})
}

func TestPeerSnapshot(t *testing.T) {
	members := unittest.IdentifierListFixture(4)

	peers, err := peerSnapshot(members, []string{members[1].String(), members[3].String()})
	require.NoError(t, err)
	assert.Equal(t, unittest.PeerSetFixture(members, 0, 2), peers)

	_, err = peerSnapshot(members, []string{"zz"})
	require.Error(t, err)
}

// The CLI runs with the default configuration, a tree of width 3.
func TestCommands(t *testing.T) {
	members := unittest.IdentifierListFixture(13)
	path := writeMembers(t, members)

	t.Run("fanout of the root", func(t *testing.T) {
		lines, err := run(t, "fanout", "--members", path, "--self", members[0].String())
		require.NoError(t, err)
		assert.Equal(t, selectionLines(members, 1, 2, 3), lines)
	})

	t.Run("fanout hops over offline members", func(t *testing.T) {
		lines, err := run(t, "fanout", "--members", path, "--self", members[0].String(),
			"--offline", members[2].String())
		require.NoError(t, err)
		assert.Equal(t, selectionLines(members, 1, 7, 8, 9, 3), lines)
	})

	t.Run("fanout with a rotated root", func(t *testing.T) {
		// distance of position 0 from root 12 is 1
		lines, err := run(t, "fanout", "--members", path, "--self", members[0].String(), "--root", "12")
		require.NoError(t, err)
		assert.Equal(t, selectionLines(members, 3, 4, 5), lines)
	})

	t.Run("fanout by originator identity", func(t *testing.T) {
		lines, err := run(t, "fanout", "--members", path, "--self", members[0].String(),
			"--origin", members[12].String())
		require.NoError(t, err)
		assert.Equal(t, selectionLines(members, 3, 4, 5), lines)
	})

	t.Run("fanout with tree width override", func(t *testing.T) {
		lines, err := run(t, "fanout", "--members", path, "--self", members[0].String(),
			"--tree-topology-width", "2")
		require.NoError(t, err)
		assert.Equal(t, selectionLines(members, 1, 2), lines)
	})

	t.Run("full broadcast", func(t *testing.T) {
		lines, err := run(t, "fanout", "--members", path, "--self", members[0].String(),
			"--tree-broadcast-enabled=false")
		require.NoError(t, err)
		assert.Len(t, lines, 12)
	})

	t.Run("leaf has no fanout", func(t *testing.T) {
		lines, err := run(t, "fanout", "--members", path, "--self", members[12].String())
		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("parent", func(t *testing.T) {
		lines, err := run(t, "parent", "--members", path, "--self", members[12].String())
		require.NoError(t, err)
		assert.Equal(t, selectionLines(members, 3), lines)
	})

	t.Run("all ancestors skipping offline", func(t *testing.T) {
		lines, err := run(t, "parent", "--members", path, "--self", members[12].String(), "--all",
			"--offline", members[3].String())
		require.NoError(t, err)
		assert.Equal(t, selectionLines(members, 0), lines)
	})

	t.Run("invalid self", func(t *testing.T) {
		_, err := run(t, "fanout", "--members", path, "--self", "xyz")
		require.Error(t, err)
	})

	t.Run("invalid width", func(t *testing.T) {
		_, err := run(t, "fanout", "--members", path, "--self", members[0].String(),
			"--tree-topology-width", "1")
		require.Error(t, err)
	})

	t.Run("describe", func(t *testing.T) {
		lines, err := run(t, "describe", "--members", path, "--offline", members[2].String())
		require.NoError(t, err)
		out := strings.Join(lines, "\n")
		assert.Contains(t, out, members[0].TerminalString())
		assert.Contains(t, out, "1,7,8,9,3")
	})

	t.Run("describe with metrics", func(t *testing.T) {
		lines, err := run(t, "describe", "--members", path, "--metrics")
		require.NoError(t, err)
		out := strings.Join(lines, "\n")
		// one membership update and one fanout decision per member topology
		assert.Contains(t, out, "network_topology_membership_updates_total 13")
		assert.Contains(t, out, "network_topology_children_fanout_count")
	})

	t.Run("describe without metrics", func(t *testing.T) {
		lines, err := run(t, "describe", "--members", path)
		require.NoError(t, err)
		assert.NotContains(t, strings.Join(lines, "\n"), "network_topology")
	})
}

func TestDescribeRound(t *testing.T) {
	resetFlags(rootCmd)
	members := unittest.IdentifierListFixture(7)
	peers := unittest.PeerSetExcept(members, 1)

	rows, err := describeRound(members, peers, 0, nil)
	require.NoError(t, err)
	require.Len(t, rows, 7)

	assert.Equal(t, []int{4, 5, 6, 2, 3}, unittest.IndicesOf(members, rows[0].children))
	assert.Empty(t, rows[0].parents)
	assert.Equal(t, 0, rows[0].distance)
	assert.Equal(t, 6, rows[6].distance)
	assert.False(t, rows[1].reachable)
	assert.Equal(t, []int{0}, unittest.IndicesOf(members, rows[4].parents))
	assert.Equal(t, []int{0}, unittest.IndicesOf(members, rows[6].parents))
}

func TestDescribeRoundRotated(t *testing.T) {
	resetFlags(rootCmd)
	members := unittest.IdentifierListFixture(5)
	peers := unittest.PeerSetExcept(members)

	rows, err := describeRound(members, peers, 3, nil)
	require.NoError(t, err)

	distances := make([]int, 0, len(rows))
	for _, row := range rows {
		distances = append(distances, row.distance)
	}
	assert.Equal(t, []int{2, 3, 4, 0, 1}, distances)
	assert.Equal(t, []int{4, 0, 1}, unittest.IndicesOf(members, rows[3].children))
	assert.Empty(t, rows[3].parents)
}
