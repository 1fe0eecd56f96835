package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayusman/homecoming/internal/gesture"
	"github.com/ayusman/homecoming/internal/logger"
	"github.com/ayusman/homecoming/internal/replay"
)

func (c *cli) replayCmd() *cobra.Command {
	var features bool

	cmd := &cobra.Command{
		Use:   "replay [file]",
		Short: "Run a recorded landmark session through the gesture pipeline",
		Long: `Replay a session of JSON lines, one detector frame per line:

  {"t": 1500, "hands": [{"points": [...], "handedness": "Right", "score": 0.97}]}

Confirmed events are printed as JSON lines. Reads stdin when no file is
given or the file is "-".

Examples:
  homecoming replay session.jsonl
  homecoming replay --features < session.jsonl`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open session: %w", err)
				}
				defer f.Close()
				in = f
			}
			return c.runReplay(cmd, in, features)
		},
	}

	cmd.Flags().BoolVarP(&features, "features", "f", false, "also print per-frame features and candidates")

	return cmd
}

type frameLine struct {
	T         int64              `json:"t"`
	Features  *gesture.Features  `json:"features"`
	Candidate *gesture.Candidate `json:"candidate"`
}

type eventLine struct {
	Event gesture.Event `json:"event"`
}

func (c *cli) runReplay(cmd *cobra.Command, in io.Reader, features bool) error {
	enc := json.NewEncoder(cmd.OutOrStdout())

	opts := replay.Options{
		Filter: c.cfg.Stability.FilterConfig(),
		Swipe:  c.cfg.Swipe.TrackerConfig(),
		OnEvent: func(ev gesture.Event) error {
			return enc.Encode(eventLine{Event: ev})
		},
	}
	if features {
		opts.OnFrame = func(fi replay.FrameInfo) error {
			return enc.Encode(frameLine{T: fi.Frame.T, Features: fi.Features, Candidate: fi.Candidate})
		}
	}

	res, err := replay.Run(cmd.Context(), in, opts)
	if res != nil {
		logger.L().Info("replay finished", zap.Int("frames", res.Frames), zap.Int("events", len(res.Events)))
	}
	return err
}
