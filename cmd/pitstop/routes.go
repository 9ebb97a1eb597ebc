package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kass/pitstop/pkg/client"
	"github.com/kass/pitstop/pkg/planner"
	"github.com/kass/pitstop/pkg/render"
	"github.com/kass/pitstop/pkg/store"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for a place",
	Long:  `Look up places matching a free-text query, such as a building name, road or postal code.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Plan routes between two places",
	Long: `Plan cycling routes between two places with bike parking every interval.
Places are given as "lat,lon" or as a search query (the first match is used).`,
	RunE: runRoutes,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a saved plan",
	Long:  `Display routes saved earlier with "routes --save".`,
	RunE:  runShow,
}

var (
	searchPage   int
	fromArg      string
	toArg        string
	intervalText string
	selectRoute  int
	showDetails  bool
	saveFile     string
	planFile     string
	showFile     string
)

func init() {
	searchCmd.Flags().IntVarP(&searchPage, "page", "p", 1, "Result page")

	addPlanFlags(routesCmd)
	routesCmd.Flags().IntVarP(&selectRoute, "select", "s", 0, "Highlight route n (1-based)")
	routesCmd.Flags().BoolVarP(&showDetails, "details", "d", false, "Show route instructions")
	routesCmd.Flags().StringVar(&saveFile, "save", "", "Save the plan to a file")

	showCmd.Flags().StringVarP(&showFile, "file", "f", "plan.gob", "Saved plan file")
	showCmd.Flags().IntVarP(&selectRoute, "select", "s", 0, "Highlight route n (1-based)")
	showCmd.Flags().BoolVarP(&showDetails, "details", "d", false, "Show route instructions")

	rootCmd.AddCommand(searchCmd, routesCmd, showCmd)
}

func addPlanFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&fromArg, "from", "", `Start place ("lat,lon" or search query)`)
	cmd.Flags().StringVar(&toArg, "to", "", `End place ("lat,lon" or search query)`)
	cmd.Flags().StringVarP(&intervalText, "interval", "i", "", "Parking interval in minutes (default from config)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	outcome := api.SearchPage(cmd.Context(), query, searchPage)

	switch outcome.Status {
	case client.SearchFailed:
		return fmt.Errorf("failed to search: %w", outcome.Err)
	case client.SearchEmpty:
		fmt.Print(out.Locations(nil))
		return nil
	}

	fmt.Print(out.Locations(outcome.Locations()))
	return nil
}

func runRoutes(cmd *cobra.Command, args []string) error {
	if fromArg == "" || toArg == "" {
		return errors.New("both --from and --to are required")
	}

	state := store.New()
	if err := plan(cmd.Context(), state); err != nil {
		return err
	}

	if err := applySelection(state, selectRoute); err != nil {
		return err
	}
	printPlan(state, showDetails)

	if saveFile != "" {
		if err := state.SaveToFile(saveFile); err != nil {
			return fmt.Errorf("failed to save plan: %w", err)
		}
		fmt.Println(out.Dim("Plan saved to " + saveFile))
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	state := store.New()
	if err := state.LoadFromFile(showFile); err != nil {
		return fmt.Errorf("failed to load plan: %w", err)
	}
	if selectRoute != 0 {
		if err := applySelection(state, selectRoute); err != nil {
			return err
		}
	}
	printPlan(state, showDetails)
	return nil
}

// plan resolves --from and --to and fills state with the planned routes
func plan(ctx context.Context, state store.State) error {
	form := planner.NewForm()
	form.IntervalMins = cfg.Planner.IntervalMins
	if err := form.SetIntervalText(intervalText); err != nil {
		return err
	}

	start, err := resolveLocation(ctx, api, fromArg)
	if err != nil {
		return err
	}
	end, err := resolveLocation(ctx, api, toArg)
	if err != nil {
		return err
	}
	warnOutside(log, cfg.Map.Bounds, start)
	warnOutside(log, cfg.Map.Bounds, end)
	form.SetStart(start)
	form.SetEnd(end)

	p := planner.New(api, state, log.Named("planner"))
	if err := p.Submit(ctx, form); err != nil {
		return err
	}

	if len(state.Routes()) == 0 {
		log.Info("no routes found",
			zap.String("from", start.Address),
			zap.String("to", end.Address),
		)
	}
	return nil
}

// planOrLoad reads the plan from --file when given, otherwise plans one
func planOrLoad(ctx context.Context) (*store.RouteStore, error) {
	state := store.New()
	if planFile != "" {
		if err := state.LoadFromFile(planFile); err != nil {
			return nil, fmt.Errorf("failed to load plan: %w", err)
		}
		return state, nil
	}
	if fromArg == "" || toArg == "" {
		return nil, errors.New("either --file or both --from and --to are required")
	}
	if err := plan(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// applySelection highlights route n (1-based); 0 leaves the plan as is
func applySelection(state store.State, n int) error {
	if n == 0 {
		return nil
	}
	if !state.SetCurrentRoute(n - 1) {
		return fmt.Errorf("route %d does not exist, the plan has %d routes", n, len(state.Routes()))
	}
	return nil
}

func printPlan(state store.State, details bool) {
	snap := state.Snapshot()
	if len(snap.Routes) == 0 {
		fmt.Println(out.Dim("No routes found"))
		return
	}

	opts := render.PanelOptions{Selected: snap.Selected, Cursor: -1, Details: map[int]bool{}}
	if details {
		for i := range snap.Routes {
			opts.Details[i] = true
		}
	}
	fmt.Println(out.RoutesPanel(snap.Routes, opts))

	if current, ok := snap.Current(); ok {
		fmt.Println(out.RouteDetail(current))
	}
}
