package replay

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/homecoming/internal/detector"
	"github.com/ayusman/homecoming/internal/gesture"
)

// session writes one frame per hand every 66ms (about 15 FPS). A nil
// entry is a frame without a hand.
func session(t *testing.T, hands ...*detector.HandLandmarks) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	for i, h := range hands {
		f := Frame{T: int64(i) * 66}
		if h != nil {
			f.Hands = []detector.HandLandmarks{*h}
		}
		require.NoError(t, WriteFrame(&buf, f))
	}
	return &buf
}

func repeat(h detector.HandLandmarks, n int) []*detector.HandLandmarks {
	out := make([]*detector.HandLandmarks, n)
	for i := range out {
		out[i] = &h
	}
	return out
}

func names(events []gesture.Event) []gesture.Name {
	out := make([]gesture.Name, len(events))
	for i, ev := range events {
		out[i] = ev.Name
	}
	return out
}

func TestRun_ConfirmsHeldGesture(t *testing.T) {
	hands := repeat(detector.ShakaLandmarks(), 6)

	var seen []gesture.Event
	res, err := Run(context.Background(), session(t, hands...), Options{
		OnEvent: func(ev gesture.Event) error {
			seen = append(seen, ev)
			return nil
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 6, res.Frames)
	require.NotEmpty(t, res.Events)
	assert.Equal(t, res.Events, seen)

	first := res.Events[0]
	assert.Equal(t, gesture.Shaka, first.Name)
	assert.True(t, first.IsNew)
	// Third frame is the first with enough samples.
	assert.Equal(t, time.UnixMilli(132).UTC(), first.Timestamp)
}

func TestRun_GestureChange(t *testing.T) {
	hands := append(repeat(detector.ShakaLandmarks(), 5), repeat(detector.PeaceLandmarks(), 8)...)

	res, err := Run(context.Background(), session(t, hands...), Options{})
	require.NoError(t, err)

	var fresh []gesture.Name
	for _, ev := range res.Events {
		if ev.IsNew {
			fresh = append(fresh, ev.Name)
		}
	}
	if diff := cmp.Diff([]gesture.Name{gesture.Shaka, gesture.PeaceSign}, fresh); diff != "" {
		t.Errorf("new events mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_NoHandsNoEvents(t *testing.T) {
	res, err := Run(context.Background(), session(t, nil, nil, nil, nil), Options{})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Frames)
	assert.Empty(t, res.Events)
}

func TestRun_OnFrameReportsFeatures(t *testing.T) {
	open := detector.OpenHandLandmarks()
	var infos []FrameInfo
	_, err := Run(context.Background(), session(t, &open, nil), Options{
		OnFrame: func(fi FrameInfo) error {
			infos = append(infos, fi)
			return nil
		},
	})
	require.NoError(t, err)
	require.Len(t, infos, 2)

	require.NotNil(t, infos[0].Features)
	assert.True(t, infos[0].Features.Fingers.AllExtended())
	require.NotNil(t, infos[0].Candidate)
	assert.Equal(t, gesture.Wave, infos[0].Candidate.Name)

	assert.Nil(t, infos[1].Features)
	assert.Nil(t, infos[1].Candidate)
	assert.Equal(t, int64(66), infos[1].Frame.T)
}

func TestRun_SkipsCommentsAndBlankLines(t *testing.T) {
	in := "# recorded at the front door\n\n" + session(t, repeat(detector.FistLandmarks(), 3)...).String()
	res, err := Run(context.Background(), strings.NewReader(in), Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Frames)
	assert.Equal(t, []gesture.Name{gesture.ClosedFist}, names(res.Events))
}

func TestRun_MalformedLine(t *testing.T) {
	in := session(t, nil).String() + "{not json}\n"
	res, err := Run(context.Background(), strings.NewReader(in), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, 1, res.Frames)
}

func TestRun_CallbackErrorStops(t *testing.T) {
	stop := errors.New("stop")
	res, err := Run(context.Background(), session(t, repeat(detector.RockOnLandmarks(), 10)...), Options{
		OnEvent: func(gesture.Event) error { return stop },
	})
	assert.ErrorIs(t, err, stop)
	assert.Len(t, res.Events, 1)
	assert.Equal(t, 3, res.Frames)
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Run(ctx, session(t, nil, nil), Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Frames)
}

func TestRun_FilterConfigApplied(t *testing.T) {
	hands := repeat(detector.ShakaLandmarks(), 3)

	// Five samples required: three frames are not enough.
	cfg := gesture.DefaultFilterConfig()
	cfg.MinSamples = 5
	res, err := Run(context.Background(), session(t, hands...), Options{Filter: cfg})
	require.NoError(t, err)
	assert.Empty(t, res.Events)
}

func TestRun_Swipe(t *testing.T) {
	var hands []*detector.HandLandmarks
	for i := 0; i < 4; i++ {
		h := detector.OpenHandLandmarks()
		for j := range h.Points {
			h.Points[j].X += 0.1 * float64(i)
		}
		hands = append(hands, &h)
	}

	swipe := gesture.DefaultSwipeConfig()
	res, err := Run(context.Background(), session(t, hands...), Options{Swipe: &swipe})
	require.NoError(t, err)
	require.NotEmpty(t, res.Events)
	last := res.Events[len(res.Events)-1]
	assert.Equal(t, gesture.SwipeRight, last.Name)
	assert.Equal(t, "next_page", last.Action)
	assert.Equal(t, time.UnixMilli(198).UTC(), last.Timestamp)

	// Without swipes only the pose is seen.
	res, err = Run(context.Background(), session(t, hands...), Options{})
	require.NoError(t, err)
	for _, ev := range res.Events {
		assert.NotEqual(t, gesture.SwipeRight, ev.Name)
	}
}
