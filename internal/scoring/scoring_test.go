package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		label string
		color string
	}{
		{0, "Requires Intervention", "red"},
		{0.25, "Requires Intervention", "red"},
		{0.2501, "Progressing With Difficulty", "orange"},
		{0.4999, "Progressing With Difficulty", "orange"},
		{0.5, "In Progress", "yellow"},
		{0.7499, "In Progress", "yellow"},
		{0.75, "Progressing Well", "blue"},
		{0.9499, "Progressing Well", "blue"},
		{0.95, "Successful", "green"},
		{1.0, "Successful", "green"},
		// Floating point can push a fully-complete score slightly above 1.0
		{1.0000000000000002, "Successful", "green"},
	}

	for _, tt := range tests {
		got := Classify(tt.score)
		assert.Equal(t, tt.label, got.Label, "score %v", tt.score)
		assert.Equal(t, tt.color, got.Color, "score %v", tt.score)
	}
}

func TestUpgrade_OnlyLowestBandWithProgress(t *testing.T) {
	low := Classify(0.1)
	require.Equal(t, RequiresIntervention, low.Label)

	upgraded := Upgrade(low, true)
	assert.Equal(t, InProgress, upgraded.Label)
	assert.Equal(t, "yellow", upgraded.Color)

	// No progress: band stands
	assert.Equal(t, RequiresIntervention, Upgrade(low, false).Label)

	// Higher bands are never touched
	high := Classify(0.8)
	assert.Equal(t, high, Upgrade(high, true))
}

func TestScoreReform_WeightedSum(t *testing.T) {
	result := ScoreReform([]WeightedActivity{
		{Weight: 0.6, CompletionLevel: 1.0, Complete: true},
		{Weight: 0.4, CompletionLevel: 0.0},
	})

	assert.InDelta(t, 0.6, result.Score, 1e-9)
	assert.Equal(t, "In Progress", result.Status.Label)
	assert.Equal(t, 2, result.ActivityCount)
	assert.Equal(t, 1, result.CompletedCount)
}

func TestScoreReform_Empty(t *testing.T) {
	result := ScoreReform(nil)

	assert.Zero(t, result.Score)
	assert.Equal(t, RequiresIntervention, result.Status.Label)
	assert.Zero(t, result.ActivityCount)
	assert.Zero(t, result.CompletedCount)
}

func TestScoreReform_UpgradeOnCompletedActivity(t *testing.T) {
	// Score 0.1 is in the lowest band, but one completed activity means
	// real progress exists.
	result := ScoreReform([]WeightedActivity{
		{Weight: 0.1, CompletionLevel: 1.0, Complete: true},
		{Weight: 0.9, CompletionLevel: 0.0},
	})

	assert.InDelta(t, 0.1, result.Score, 1e-9)
	assert.Equal(t, InProgress, result.Status.Label)
}

func TestScoreMDA_MeanOfReforms(t *testing.T) {
	r1 := ScoreReform([]WeightedActivity{
		{Weight: 0.6, CompletionLevel: 1.0, Complete: true},
		{Weight: 0.4, CompletionLevel: 0.0},
	})
	r2 := ScoreReform([]WeightedActivity{
		{Weight: 1.0, CompletionLevel: 1.0, Complete: true},
	})

	result := ScoreMDA([]ReformResult{r1, r2})

	assert.InDelta(t, 0.8, result.Score, 1e-9)
	assert.Equal(t, "Progressing Well", result.Status.Label)
}

func TestScoreMDA_Empty(t *testing.T) {
	result := ScoreMDA(nil)

	assert.Zero(t, result.Score)
	assert.Equal(t, RequiresIntervention, result.Status.Label)
}

func TestScoreMDA_UpgradeWhenAnyReformEscapesLowestBand(t *testing.T) {
	// Overall score is below 0.25, but one reform classifies above the
	// lowest band, so the MDA reports In Progress.
	reforms := []ReformResult{
		{Score: 0.6, Status: Classify(0.6)},
		{Score: 0, Status: Classify(0)},
		{Score: 0, Status: Classify(0)},
		{Score: 0, Status: Classify(0)},
	}

	result := ScoreMDA(reforms)

	assert.InDelta(t, 0.15, result.Score, 1e-9)
	assert.Equal(t, InProgress, result.Status.Label)
}

func TestAssignRanks_TieBreakAndTrailingGroup(t *testing.T) {
	items := []Ranked{
		{ID: "mda:b", Name: "B Agency", Score: 0.8, ActivityCount: 10},
		{ID: "mda:c", Name: "C Agency", Score: 0, ActivityCount: 0},
		{ID: "mda:a", Name: "A Agency", Score: 0.8, ActivityCount: 10},
	}

	ranked := AssignRanks(items)

	require.Len(t, ranked, 3)
	// Ties break by name ascending
	assert.Equal(t, "A Agency", ranked[0].Name)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "B Agency", ranked[1].Name)
	assert.Equal(t, 2, ranked[1].Rank)
	// No-data MDA takes the shared trailing rank
	assert.Equal(t, "C Agency", ranked[2].Name)
	assert.Equal(t, 3, ranked[2].Rank)
}

func TestAssignRanks_NoDataGroupSharesOneRank(t *testing.T) {
	items := []Ranked{
		{ID: "mda:a", Name: "A", Score: 0.5, ActivityCount: 5},
		{ID: "mda:b", Name: "B", Score: 0, ActivityCount: 0},
		{ID: "mda:c", Name: "C", Score: 0, ActivityCount: 8}, // activities exist but none started
		{ID: "mda:d", Name: "D", Score: 0, ActivityCount: 0},
	}

	ranked := AssignRanks(items)

	require.Len(t, ranked, 4)
	assert.Equal(t, 1, ranked[0].Rank)
	for _, r := range ranked[1:] {
		assert.Equal(t, 2, r.Rank, "no-data MDA %s", r.Name)
	}
}

func TestAssignRanks_RenamingNoDataMDADoesNotMoveOthers(t *testing.T) {
	base := []Ranked{
		{ID: "mda:a", Name: "A Agency", Score: 0.8, ActivityCount: 4},
		{ID: "mda:b", Name: "B Agency", Score: 0.8, ActivityCount: 4},
		{ID: "mda:c", Name: "C Agency", Score: 0, ActivityCount: 0},
	}
	renamed := []Ranked{
		{ID: "mda:a", Name: "A Agency", Score: 0.8, ActivityCount: 4},
		{ID: "mda:b", Name: "B Agency", Score: 0.8, ActivityCount: 4},
		{ID: "mda:c", Name: "0 Agency", Score: 0, ActivityCount: 0},
	}

	first := AssignRanks(base)
	second := AssignRanks(renamed)

	for i := 0; i < 2; i++ {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Rank, second[i].Rank)
	}
}

func TestAssignRanks_AllNoData(t *testing.T) {
	ranked := AssignRanks([]Ranked{
		{ID: "mda:a", Name: "A", Score: 0, ActivityCount: 0},
		{ID: "mda:b", Name: "B", Score: 0, ActivityCount: 0},
	})

	for _, r := range ranked {
		assert.Equal(t, 1, r.Rank)
	}
}
