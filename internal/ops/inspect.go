package ops

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"idlepost/internal/game"
	"idlepost/internal/save"
)

// SaveSummary is one row of the inspection report.
type SaveSummary struct {
	PlayerID string
	Karma    float64
	Score    float64
	Awards   int
	Prestige int
	Clicks   int64
}

// InspectSaves summarizes every save in the data directory, score
// descending.
func InspectSaves(dataDir string) ([]SaveSummary, error) {
	repo, err := save.NewFileRepo(dataDir, game.RealClock{})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	playerIDs := repo.PlayerIDs()
	out := make([]SaveSummary, 0, len(playerIDs))
	for _, id := range playerIDs {
		state, ok, err := repo.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, SaveSummary{
			PlayerID: id,
			Karma:    state.Karma,
			Score:    state.Score,
			Awards:   state.Awards,
			Prestige: state.Prestige.Level,
			Clicks:   state.Stats.TotalClicks,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

// WriteSummaryTable renders summaries as an aligned text table.
func WriteSummaryTable(w io.Writer, rows []SaveSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAYER\tKARMA\tSCORE\tAWARDS\tPRESTIGE\tCLICKS")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%.0f\t%.0f\t%d\t%d\t%d\n",
			r.PlayerID, r.Karma, r.Score, r.Awards, r.Prestige, r.Clicks)
	}
	return tw.Flush()
}
