// Package scoring implements the BEEPA weighted scoring, status
// classification, and ranking rules. Everything here is pure computation over
// in-memory snapshots: no I/O, no error paths. Total absence of data is a
// valid zero state, not a failure.
package scoring

import "sort"

// Status is a label + color pair chosen from the five classification bands.
type Status struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// band is one classification threshold. The first band whose Max is >= the
// score wins.
type band struct {
	max   float64
	label string
	color string
}

// Classification bands per PEBEC standards. The boundaries are deliberately
// non-contiguous (0.25 vs 0.4999) and the top band tolerates floating-point
// scores slightly above 1.0.
var bands = []band{
	{max: 0.25, label: "Requires Intervention", color: "red"},
	{max: 0.4999, label: "Progressing With Difficulty", color: "orange"},
	{max: 0.7499, label: "In Progress", color: "yellow"},
	{max: 0.9499, label: "Progressing Well", color: "blue"},
	{max: 1.01, label: "Successful", color: "green"},
}

// RequiresIntervention is the label of the lowest band; InProgress is the
// band a low score is upgraded to when real progress exists.
const (
	RequiresIntervention = "Requires Intervention"
	InProgress           = "In Progress"
)

// Classify maps a score in [0,1] to its status band.
func Classify(score float64) Status {
	for _, b := range bands {
		if score <= b.max {
			return Status{Label: b.label, Color: b.color}
		}
	}
	last := bands[len(bands)-1]
	return Status{Label: last.label, Color: last.color}
}

// Upgrade applies the progress override: an entity classified as Requires
// Intervention that nevertheless shows real progress is reported as In
// Progress instead. No MDA with nonzero effort is labeled as requiring
// intervention.
func Upgrade(status Status, hasProgress bool) Status {
	if status.Label == RequiresIntervention && hasProgress {
		return Status{Label: InProgress, Color: "yellow"}
	}
	return status
}

// WeightedActivity is the scoring view of an activity: its weight within the
// reform, its completion level, and whether it is marked complete.
type WeightedActivity struct {
	Weight          float64
	CompletionLevel float64
	Complete        bool
}

// ReformResult is the computed performance of one reform.
type ReformResult struct {
	Score          float64 `json:"score"`
	Status         Status  `json:"status"`
	ActivityCount  int     `json:"activity_count"`
	CompletedCount int     `json:"completed_count"`
}

// ScoreReform computes the weighted score of a reform's activities. Weights
// are assumed to sum to 1.0 within the reform, so the score stays in [0,1].
// An empty activity set yields score 0 in the lowest band.
func ScoreReform(activities []WeightedActivity) ReformResult {
	var score float64
	completed := 0
	for _, a := range activities {
		score += a.CompletionLevel * a.Weight
		if a.Complete {
			completed++
		}
	}
	return ReformResult{
		Score:          score,
		Status:         Upgrade(Classify(score), completed > 0),
		ActivityCount:  len(activities),
		CompletedCount: completed,
	}
}

// MDAResult is the computed performance of an MDA across its reforms.
type MDAResult struct {
	Score  float64 `json:"score"`
	Status Status  `json:"status"`
}

// ScoreMDA averages the reform scores. Every reform counts equally regardless
// of its activity count. Zero reforms yields score 0, not NaN.
func ScoreMDA(reforms []ReformResult) MDAResult {
	if len(reforms) == 0 {
		return MDAResult{Score: 0, Status: Classify(0)}
	}
	var sum float64
	hasProgress := false
	for _, r := range reforms {
		sum += r.Score
		if r.Status.Label != RequiresIntervention {
			hasProgress = true
		}
	}
	score := sum / float64(len(reforms))
	return MDAResult{
		Score:  score,
		Status: Upgrade(Classify(score), hasProgress),
	}
}

// Ranked is one MDA's entry in the global ranking.
type Ranked struct {
	ID            string
	Name          string
	Score         float64
	ActivityCount int
	Rank          int
}

// AssignRanks orders MDAs by descending score and fills in ranks. MDAs with
// no recorded progress (no activities, or a score of exactly zero) are
// excluded from the primary ordering and all share the single trailing rank
// after the last ranked MDA. Ties within the ranked set break by name
// ascending so equal scores order deterministically. The returned slice has
// ranked MDAs first, then the no-data group.
func AssignRanks(items []Ranked) []Ranked {
	withData := make([]Ranked, 0, len(items))
	withoutData := make([]Ranked, 0)

	for _, it := range items {
		if it.ActivityCount > 0 && it.Score > 0 {
			withData = append(withData, it)
		} else {
			withoutData = append(withoutData, it)
		}
	}

	sort.SliceStable(withData, func(i, j int) bool {
		if withData[i].Score != withData[j].Score {
			return withData[i].Score > withData[j].Score
		}
		return withData[i].Name < withData[j].Name
	})

	for i := range withData {
		withData[i].Rank = i + 1
	}

	trailing := len(withData) + 1
	for i := range withoutData {
		withoutData[i].Rank = trailing
	}

	return append(withData, withoutData...)
}
