package service

import (
	"context"
	"fmt"

	"github.com/pebec/beepa-tracker/internal/model"
	"github.com/pebec/beepa-tracker/internal/scoring"
)

// PerformanceMDARepository defines the MDA repo interface needed by PerformanceService
type PerformanceMDARepository interface {
	GetByID(ctx context.Context, id string) (*model.MDA, error)
	List(ctx context.Context) ([]*model.MDA, error)
}

// PerformanceReformRepository defines the reform repo interface needed by PerformanceService
type PerformanceReformRepository interface {
	GetByID(ctx context.Context, id string) (*model.Reform, error)
	ListByMDA(ctx context.Context, mdaID string) ([]*model.Reform, error)
	ListAll(ctx context.Context) ([]*model.Reform, error)
}

// PerformanceActivityRepository defines the activity repo interface needed by PerformanceService
type PerformanceActivityRepository interface {
	ListByReform(ctx context.Context, reformID string) ([]*model.Activity, error)
	ListAll(ctx context.Context) ([]*model.Activity, error)
}

// PerformanceService computes MDA, reform, and system-wide performance views
// by feeding stored snapshots through the scoring rules.
type PerformanceService struct {
	mdaRepo      PerformanceMDARepository
	reformRepo   PerformanceReformRepository
	activityRepo PerformanceActivityRepository
}

// NewPerformanceService creates a new performance service
func NewPerformanceService(
	mdaRepo PerformanceMDARepository,
	reformRepo PerformanceReformRepository,
	activityRepo PerformanceActivityRepository,
) *PerformanceService {
	return &PerformanceService{
		mdaRepo:      mdaRepo,
		reformRepo:   reformRepo,
		activityRepo: activityRepo,
	}
}

// ReformPerformance is the scored view of one reform with its activities.
type ReformPerformance struct {
	Reform     *model.Reform        `json:"reform"`
	Score      float64              `json:"score"`
	Status     scoring.Status       `json:"status"`
	Activities []*model.Activity    `json:"activities"`
	Counts     ReformActivityCounts `json:"counts"`
}

// ReformActivityCounts summarizes activity progress within a reform.
type ReformActivityCounts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// MDAPerformance is the scored view of one MDA across its reforms.
type MDAPerformance struct {
	MDA     *model.MDA           `json:"mda"`
	Score   float64              `json:"score"`
	Status  scoring.Status       `json:"status"`
	Reforms []*ReformPerformance `json:"reforms"`
}

// RankedMDA is one entry in the global ranking.
type RankedMDA struct {
	MDA           *model.MDA     `json:"mda"`
	Score         float64        `json:"score"`
	Status        scoring.Status `json:"status"`
	Rank          int            `json:"rank"`
	ActivityCount int            `json:"activity_count"`
}

// DashboardStats is the system-wide summary.
type DashboardStats struct {
	MDACount            int            `json:"mda_count"`
	ActivityCount       int            `json:"activity_count"`
	CompletedActivities int            `json:"completed_activities"`
	AverageScore        float64        `json:"average_score"`
	OverallStatus       scoring.Status `json:"overall_status"`
	StatusBreakdown     map[string]int `json:"status_breakdown"`
}

// GetReformPerformance scores a single reform.
func (s *PerformanceService) GetReformPerformance(ctx context.Context, reformID string) (*ReformPerformance, error) {
	reform, err := s.reformRepo.GetByID(ctx, reformID)
	if err != nil {
		return nil, fmt.Errorf("lookup reform: %w", err)
	}
	if reform == nil {
		return nil, ErrReformNotFound
	}

	activities, err := s.activityRepo.ListByReform(ctx, reformID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	result := scoring.ScoreReform(toWeighted(activities))
	return &ReformPerformance{
		Reform:     reform,
		Score:      result.Score,
		Status:     result.Status,
		Activities: activities,
		Counts: ReformActivityCounts{
			Total:     result.ActivityCount,
			Completed: result.CompletedCount,
		},
	}, nil
}

// GetMDAPerformance scores one MDA: each reform is scored from its
// activities, then the reform scores are averaged.
func (s *PerformanceService) GetMDAPerformance(ctx context.Context, mdaID string) (*MDAPerformance, error) {
	mda, err := s.mdaRepo.GetByID(ctx, mdaID)
	if err != nil {
		return nil, fmt.Errorf("lookup mda: %w", err)
	}
	if mda == nil {
		return nil, ErrMDANotFound
	}

	reforms, err := s.reformRepo.ListByMDA(ctx, mdaID)
	if err != nil {
		return nil, fmt.Errorf("list reforms: %w", err)
	}

	reformPerfs := make([]*ReformPerformance, 0, len(reforms))
	reformResults := make([]scoring.ReformResult, 0, len(reforms))
	for _, reform := range reforms {
		activities, err := s.activityRepo.ListByReform(ctx, reform.ID)
		if err != nil {
			return nil, fmt.Errorf("list activities for %s: %w", reform.ID, err)
		}
		result := scoring.ScoreReform(toWeighted(activities))
		reformResults = append(reformResults, result)
		reformPerfs = append(reformPerfs, &ReformPerformance{
			Reform:     reform,
			Score:      result.Score,
			Status:     result.Status,
			Activities: activities,
			Counts: ReformActivityCounts{
				Total:     result.ActivityCount,
				Completed: result.CompletedCount,
			},
		})
	}

	mdaResult := scoring.ScoreMDA(reformResults)
	return &MDAPerformance{
		MDA:     mda,
		Score:   mdaResult.Score,
		Status:  mdaResult.Status,
		Reforms: reformPerfs,
	}, nil
}

// GetRankings returns all MDAs ordered by descending score with ranks
// assigned. MDAs with no recorded progress share the trailing rank.
func (s *PerformanceService) GetRankings(ctx context.Context) ([]*RankedMDA, error) {
	mdas, err := s.mdaRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list mdas: %w", err)
	}

	scores, counts, err := s.scoreAllMDAs(ctx, mdas)
	if err != nil {
		return nil, err
	}

	items := make([]scoring.Ranked, 0, len(mdas))
	for _, mda := range mdas {
		items = append(items, scoring.Ranked{
			ID:            mda.ID,
			Name:          mda.Name,
			Score:         scores[mda.ID].Score,
			ActivityCount: counts[mda.ID],
		})
	}
	ranked := scoring.AssignRanks(items)

	byID := make(map[string]*model.MDA, len(mdas))
	for _, mda := range mdas {
		byID[mda.ID] = mda
	}

	out := make([]*RankedMDA, 0, len(ranked))
	for _, it := range ranked {
		out = append(out, &RankedMDA{
			MDA:           byID[it.ID],
			Score:         it.Score,
			Status:        scores[it.ID].Status,
			Rank:          it.Rank,
			ActivityCount: it.ActivityCount,
		})
	}
	return out, nil
}

// GetDashboardStats computes the system-wide summary: counts, the mean MDA
// score, its classification, and how many MDAs fall into each status band.
func (s *PerformanceService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	mdas, err := s.mdaRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list mdas: %w", err)
	}

	scores, _, err := s.scoreAllMDAs(ctx, mdas)
	if err != nil {
		return nil, err
	}

	activities, err := s.activityRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	completed := 0
	for _, a := range activities {
		if a.Status == model.ActivityComplete {
			completed++
		}
	}

	var sum float64
	breakdown := make(map[string]int)
	for _, mda := range mdas {
		result := scores[mda.ID]
		sum += result.Score
		breakdown[result.Status.Label]++
	}

	average := 0.0
	if len(mdas) > 0 {
		average = sum / float64(len(mdas))
	}

	return &DashboardStats{
		MDACount:            len(mdas),
		ActivityCount:       len(activities),
		CompletedActivities: completed,
		AverageScore:        average,
		OverallStatus:       scoring.Classify(average),
		StatusBreakdown:     breakdown,
	}, nil
}

// scoreAllMDAs computes every MDA's score in two queries instead of a
// per-reform fan-out.
func (s *PerformanceService) scoreAllMDAs(ctx context.Context, mdas []*model.MDA) (map[string]scoring.MDAResult, map[string]int, error) {
	reforms, err := s.reformRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list reforms: %w", err)
	}
	activities, err := s.activityRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list activities: %w", err)
	}

	byReform := make(map[string][]scoring.WeightedActivity)
	for _, a := range activities {
		byReform[a.ReformID] = append(byReform[a.ReformID], scoring.WeightedActivity{
			Weight:          a.Weight,
			CompletionLevel: a.CompletionLevel,
			Complete:        a.Status == model.ActivityComplete,
		})
	}

	reformsByMDA := make(map[string][]*model.Reform)
	for _, r := range reforms {
		reformsByMDA[r.MDAID] = append(reformsByMDA[r.MDAID], r)
	}

	scores := make(map[string]scoring.MDAResult, len(mdas))
	counts := make(map[string]int, len(mdas))
	for _, mda := range mdas {
		var results []scoring.ReformResult
		total := 0
		for _, reform := range reformsByMDA[mda.ID] {
			acts := byReform[reform.ID]
			results = append(results, scoring.ScoreReform(acts))
			total += len(acts)
		}
		scores[mda.ID] = scoring.ScoreMDA(results)
		counts[mda.ID] = total
	}
	return scores, counts, nil
}

func toWeighted(activities []*model.Activity) []scoring.WeightedActivity {
	out := make([]scoring.WeightedActivity, 0, len(activities))
	for _, a := range activities {
		out = append(out, scoring.WeightedActivity{
			Weight:          a.Weight,
			CompletionLevel: a.CompletionLevel,
			Complete:        a.Status == model.ActivityComplete,
		})
	}
	return out
}
