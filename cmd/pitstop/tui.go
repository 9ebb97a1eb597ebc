package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kass/pitstop/internal/tui"
	"github.com/kass/pitstop/pkg/models"
	"github.com/kass/pitstop/pkg/planner"
	"github.com/kass/pitstop/pkg/store"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Plan routes interactively",
	Long:  `Start the interactive planner: search both places, set the interval and browse the routes.`,
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&herePosition, "here", "", `Your position as "lat,lon", offered as Current Location`)
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	var user *models.LatLng
	if herePosition != "" {
		p, err := parseLatLng(herePosition)
		if err != nil {
			return fmt.Errorf("failed to parse --here: %w", err)
		}
		user = &p
	}

	state := store.New()
	return tui.Run(cmd.Context(), tui.Config{
		Searcher:     api,
		Planner:      planner.New(api, state, log.Named("planner")),
		State:        state,
		Renderer:     out,
		Interval:     cfg.Planner.IntervalMins,
		UserPosition: user,
		InBounds:     cfg.Map.Bounds.Contains,
	})
}
