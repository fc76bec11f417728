// Command hexsearch generates a hex grid and compares uniform-cost, greedy
// and A* searches between its leftmost and rightmost open cells.
// Settings come from HEXPATH_* environment variables.
package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexpath/internal/config"
	"github.com/talgya/hexpath/internal/persistence"
	"github.com/talgya/hexpath/internal/search"
	"github.com/talgya/hexpath/internal/world"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	// ── Grid ─────────────────────────────────────────────────────────
	grid := world.Generate(cfg.Gen)
	for t, c := range world.CellCounts(grid) {
		slog.Debug("terrain", "type", world.CellTypeName(t), "count", c)
	}
	start, goal, ok := world.PlaceEndpoints(grid)
	if !ok {
		slog.Error("grid has fewer than two open cells", "grid", grid.String())
		os.Exit(1)
	}
	slog.Info("grid generated",
		"grid", grid.String(),
		"seed", cfg.Gen.Seed,
		"start", start,
		"goal", goal,
	)

	// ── Searches ─────────────────────────────────────────────────────
	var records []persistence.RunRecord
	for _, alg := range cfg.Algorithms {
		tr, err := search.Execute(grid, start, goal, alg)
		if err != nil {
			slog.Error("search failed", "algorithm", alg.Key(), "error", err)
			os.Exit(1)
		}
		printTrace(tr)
		records = append(records, persistence.NewRunRecord(tr, grid, cfg.Gen.Seed))
	}

	// ── Ledger ───────────────────────────────────────────────────────
	if cfg.DBPath == "" {
		return
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open ledger", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.SaveRuns(records); err != nil {
		slog.Error("failed to save runs", "error", err)
		os.Exit(1)
	}
	if err := db.SaveMeta("last_seed", strconv.FormatInt(cfg.Gen.Seed, 10)); err != nil {
		slog.Warn("failed to save ledger metadata", "error", err)
	}
	printHistory(db)
}

func printTrace(tr search.Trace) {
	cost := "unreachable"
	if tr.Result.Reached {
		cost = humanize.Ftoa(tr.Result.Cost)
	}
	fmt.Printf("%-20s cost %-12s path %-5d visited %-7s frontier %-7s peak %-6s %s\n",
		tr.Algorithm,
		cost,
		len(tr.Result.Path),
		humanize.Comma(int64(tr.Stats.Visited)),
		humanize.Comma(int64(tr.Stats.Frontier)),
		humanize.Comma(int64(tr.Stats.PeakFrontier)),
		tr.Stats.Elapsed.Round(time.Microsecond),
	)
}

func printHistory(db *persistence.DB) {
	runs, err := db.RecentRuns(10)
	if err != nil {
		slog.Warn("failed to read ledger", "error", err)
		return
	}
	fmt.Printf("\nrecent runs (%s)\n", humanize.Comma(int64(len(runs))))
	for _, r := range runs {
		cost := "-"
		if !math.IsInf(r.Cost, 1) {
			cost = humanize.Ftoa(r.Cost)
		}
		fmt.Printf("  %s  %-7s %-12s seed %-6d cost %-8s visited %s\n",
			humanize.Time(r.CreatedAt),
			r.Algorithm,
			fmt.Sprintf("%s %dx%d", r.Shape, r.Width, r.Height),
			r.Seed,
			cost,
			humanize.Comma(int64(r.Visited)),
		)
	}
}
