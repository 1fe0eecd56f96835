package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ayusman/homecoming/internal/gesture"
)

func (c *cli) gesturesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "gestures",
		Short: "List the recognized gestures and their default actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printGestures(cmd.OutOrStdout(), gesture.AllRules(), asJSON)
		},
	}

	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "output as JSON")

	return cmd
}

type gestureRow struct {
	Name        string  `json:"name"`
	Emoji       string  `json:"emoji"`
	Description string  `json:"description"`
	Action      string  `json:"action"`
	Confidence  float64 `json:"confidence"`
}

func printGestures(w io.Writer, rules []gesture.Rule, asJSON bool) error {
	if asJSON {
		rows := make([]gestureRow, 0, len(rules))
		for _, r := range rules {
			rows = append(rows, gestureRow{
				Name:        string(r.Name),
				Emoji:       r.Emoji,
				Description: r.Description,
				Action:      r.Action,
				Confidence:  r.Confidence,
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GESTURE\tEMOJI\tACTION\tCONFIDENCE\tDESCRIPTION")
	for _, r := range rules {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\n", r.Name, r.Emoji, r.Action, r.Confidence, r.Description)
	}
	return tw.Flush()
}
