package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AERESAL/VolunteerHub-Backend/internal/domain"
)

var sampleBoard = []domain.LeaderboardEntry{
	{Username: "bob", DisplayName: "Bob Ray", ApprovedHours: 7.25, UnapprovedHours: 0},
	{Username: "alice", DisplayName: "alice", ApprovedHours: 5, UnapprovedHours: 1.5},
}

func TestWriteLeaderboardTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeLeaderboard(&buf, "table", sampleBoard))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "USERNAME")
	assert.Contains(t, lines[1], "bob")
	assert.Contains(t, lines[1], "7.25")
	assert.Contains(t, lines[2], "1.50")
}

func TestWriteLeaderboardJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeLeaderboard(&buf, "json", sampleBoard))

	var decoded struct {
		Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleBoard, decoded.Leaderboard)
}

func TestWriteLeaderboardUnknownFormat(t *testing.T) {
	err := writeLeaderboard(&bytes.Buffer{}, "csv", sampleBoard)
	assert.ErrorContains(t, err, "unknown format")
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"migrate", "backfill-ids", "leaderboard", "dlq"} {
		assert.True(t, names[want], want)
	}
}
