package remote_test

import (
	"encoding/json"
	"testing"

	"github.com/nthorn/caissa/pkg/board"
	"github.com/nthorn/caissa/pkg/remote"
	"github.com/nthorn/caissa/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUpdateRoundTrips(t *testing.T) {
	m, _ := board.ParseMove("e2e4")
	u := remote.Update{Depth: 3, Score: 42, Nodes: 1000, PV: []string{m.String()}, Key: board.InitialKey}

	data, err := remote.MarshalUpdate(u)
	require.NoError(t, err)

	var got remote.Update
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, u, got)
}

func TestHubPublishWithNoClientsDoesNotPanic(t *testing.T) {
	h := remote.NewHub()
	assert.NotPanics(t, func() {
		h.Publish(board.InitialKey, search.PV{Depth: 1})
	})
}
