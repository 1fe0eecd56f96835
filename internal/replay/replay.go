// Package replay runs recorded landmark sessions through the gesture
// pipeline without a camera.
//
// A session is a stream of JSON lines, one per frame:
//
//	{"t": 1500, "hands": [{"points": [...], "handedness": "Right", "score": 0.97}]}
//
// t is the frame time in milliseconds. An empty or missing hands list is a
// frame with no hand in view. Blank lines and lines starting with # are
// ignored.
package replay

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ayusman/homecoming/internal/detector"
	"github.com/ayusman/homecoming/internal/gesture"
)

// maxLineSize bounds one frame line. A frame with two hands is under 4KB.
const maxLineSize = 1 << 20

// Frame is one recorded detector output.
type Frame struct {
	T     int64                    `json:"t"`
	Hands []detector.HandLandmarks `json:"hands"`
}

// Time returns the frame time.
func (f Frame) Time() time.Time {
	return time.UnixMilli(f.T).UTC()
}

// FrameInfo describes how one frame was classified.
type FrameInfo struct {
	Frame     Frame
	Features  *gesture.Features  // nil without a hand
	Candidate *gesture.Candidate // nil when no rule matched
}

// Options configures Run.
type Options struct {
	Filter gesture.FilterConfig
	// Swipe turns on swipe recognition when set.
	Swipe  *gesture.SwipeConfig

	// OnEvent receives every confirmed event in order.
	OnEvent func(gesture.Event) error
	// OnFrame, when set, receives the classification of every frame.
	OnFrame func(FrameInfo) error
}

// Result summarizes a replay.
type Result struct {
	Frames int
	Events []gesture.Event
}

// WriteFrame appends f to w as one JSON line.
func WriteFrame(w io.Writer, f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Run replays the session in r through a fresh pipeline. It stops at the
// first malformed line, callback error or ctx cancellation and returns
// what was processed up to that point.
func Run(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	classifier := gesture.NewClassifier()
	pipeline := gesture.NewPipeline(classifier, gesture.NewFilter(opts.Filter))
	if opts.Swipe != nil {
		pipeline.EnableSwipes(*opts.Swipe)
	}

	res := &Result{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for sc.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return res, err
		}

		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		var f Frame
		if err := json.Unmarshal([]byte(text), &f); err != nil {
			return res, fmt.Errorf("line %d: %w", line, err)
		}
		res.Frames++

		if opts.OnFrame != nil {
			info := FrameInfo{Frame: f}
			if len(f.Hands) > 0 {
				feat := classifier.Features(&f.Hands[0])
				info.Features = &feat
				info.Candidate = classifier.Classify(&f.Hands[0])
			}
			if err := opts.OnFrame(info); err != nil {
				return res, err
			}
		}

		ev, ok := pipeline.ProcessFrame(f.Hands, f.Time())
		if !ok {
			continue
		}
		res.Events = append(res.Events, ev)
		if opts.OnEvent != nil {
			if err := opts.OnEvent(ev); err != nil {
				return res, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("read session: %w", err)
	}
	return res, nil
}
