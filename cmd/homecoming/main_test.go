package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/homecoming/internal/detector"
	"github.com/ayusman/homecoming/internal/gesture"
	"github.com/ayusman/homecoming/internal/replay"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cfg := filepath.Join(t.TempDir(), "missing.yaml")
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestGesturesCmd_Table(t *testing.T) {
	out, err := execute(t, "", "gestures")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(gesture.AllRules())+1)
	assert.True(t, strings.HasPrefix(lines[0], "GESTURE"))
	assert.Contains(t, lines[1], "shaka")
	assert.Contains(t, lines[1], "show_arrivals")
}

func TestGesturesCmd_JSON(t *testing.T) {
	out, err := execute(t, "", "gestures", "--json")
	require.NoError(t, err)

	var rows []gestureRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, len(gesture.AllRules()))
	assert.Equal(t, "swipe_right", rows[len(rows)-1].Name)
}

func TestReplayCmd_Stdin(t *testing.T) {
	var session bytes.Buffer
	shaka := detector.ShakaLandmarks()
	for i := 0; i < 4; i++ {
		require.NoError(t, replay.WriteFrame(&session, replay.Frame{
			T:     int64(i) * 66,
			Hands: []detector.HandLandmarks{shaka},
		}))
	}

	out, err := execute(t, session.String(), "replay")
	require.NoError(t, err)

	var events []gesture.Event
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var line eventLine
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
		events = append(events, line.Event)
	}
	require.Len(t, events, 1)
	assert.Equal(t, gesture.Shaka, events[0].Name)
	assert.True(t, events[0].IsNew)
}

func TestReplayCmd_Features(t *testing.T) {
	var session bytes.Buffer
	require.NoError(t, replay.WriteFrame(&session, replay.Frame{T: 0}))

	out, err := execute(t, session.String(), "replay", "--features")
	require.NoError(t, err)

	var line frameLine
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &line))
	assert.Nil(t, line.Features)
	assert.Nil(t, line.Candidate)
}

func TestReplayCmd_MissingFile(t *testing.T) {
	_, err := execute(t, "", "replay", filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.Error(t, err)
}

func TestBoardURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080", boardURL(":8080"))
	assert.Equal(t, "http://10.0.0.5:9000", boardURL("10.0.0.5:9000"))
}

func TestFindWebDir_Explicit(t *testing.T) {
	assert.Equal(t, "/srv/board", findWebDir("/srv/board"))
}
