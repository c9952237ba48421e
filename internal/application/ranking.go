package application

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/podiumhq/podium/internal/domain"
	"github.com/podiumhq/podium/internal/ports"
)

// Built-in tie-break keys. Any other key in a tie-break chain is
// interpreted as an area code and compared on that area's score.
const (
	tieBreakTotalScore  = "total_score"
	tieBreakPercentage  = "percentage"
	tieBreakElapsedTime = "elapsed_time"
)

// RankingEngine turns aggregated area scores into an ordered
// leaderboard. Rankings are computed fresh per request from the current
// store contents; the engine holds no cache and never mutates its
// inputs.
type RankingEngine struct {
	aggregator *Aggregator
	metrics    ports.MetricsCollector
	tracer     trace.Tracer
}

// NewRankingEngine creates a ranking engine backed by the given
// aggregator. The metrics collector may be nil.
func NewRankingEngine(aggregator *Aggregator, metrics ports.MetricsCollector) (*RankingEngine, error) {
	if aggregator == nil {
		return nil, fmt.Errorf("aggregator must not be nil")
	}
	return &RankingEngine{
		aggregator: aggregator,
		metrics:    metrics,
		tracer:     otel.Tracer("ranking-engine"),
	}, nil
}

// Rank computes the ordered leaderboard for the tournament. Teams are
// filtered first, then scored per active area, then sorted by the
// tournament's ranking method with its tie-break chain, and finally
// assigned sequential 1-based positions. A tournament with zero teams
// or zero active areas yields an empty ranking, not an error.
func (re *RankingEngine) Rank(
	ctx context.Context,
	config domain.TournamentConfig,
	areas []domain.Area,
	teams []domain.Team,
	filter domain.RankingFilter,
) ([]domain.TeamRanking, error) {
	ctx, span := re.tracer.Start(ctx, "ranking_engine.rank",
		trace.WithAttributes(
			attribute.String("tournament.id", config.ID),
			attribute.String("ranking.method", string(config.RankingMethod)),
			attribute.Int("team.count", len(teams)),
		))
	defer span.End()

	start := time.Now()
	defer func() {
		if re.metrics != nil {
			re.metrics.RecordLatency("rank", time.Since(start),
				map[string]string{"method": string(config.RankingMethod)})
		}
	}()

	eligible := filterTeams(teams, filter)
	active := activeAreas(areas)
	if len(eligible) == 0 || len(active) == 0 {
		return []domain.TeamRanking{}, nil
	}

	rankings := make([]domain.TeamRanking, len(eligible))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, team := range eligible {
		g.Go(func() error {
			ranking, err := re.scoreTeam(gctx, config, active, team)
			if err != nil {
				return err
			}
			rankings[i] = ranking
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ranking computation failed: %w", err)
	}

	sortRankings(rankings, config)
	for i := range rankings {
		rankings[i].Position = i + 1
	}

	span.SetAttributes(attribute.Int("ranking.size", len(rankings)))
	return rankings, nil
}

// scoreTeam aggregates every active area for one team. Areas without a
// current evaluation are skipped, not counted as zero, so teams
// evaluated in different area subsets remain comparable.
func (re *RankingEngine) scoreTeam(
	ctx context.Context,
	config domain.TournamentConfig,
	areas []domain.Area,
	team domain.Team,
) (domain.TeamRanking, error) {
	ranking := domain.TeamRanking{
		TeamID:   team.ID,
		TeamName: team.Name,
		Areas:    make(map[string]domain.AreaScore),
	}

	var percentageSum float64
	for _, area := range areas {
		score, ok, err := re.aggregator.AggregateArea(ctx, team, area, config.MultiJudgeAggregation)
		if err != nil {
			return domain.TeamRanking{}, err
		}
		if !ok {
			continue
		}

		ranking.Areas[area.Code] = domain.AreaScore{
			Score:      score.Score,
			Percentage: score.Percentage,
		}
		ranking.ElapsedSeconds += score.ElapsedSeconds
		percentageSum += float64(score.Percentage)

		if config.RankingMethod == domain.RankRaw {
			weight := config.EffectiveWeight(area)
			ranking.TotalScore += score.Score * weight
			ranking.MaxPossibleScore += score.MaxPossible * weight
		} else {
			ranking.TotalScore += score.Score
			ranking.MaxPossibleScore += score.MaxPossible
		}
	}

	if len(ranking.Areas) == 0 {
		return ranking, nil
	}
	if config.RankingMethod == domain.RankRaw {
		if ranking.MaxPossibleScore > 0 {
			ranking.Percentage = ranking.TotalScore / ranking.MaxPossibleScore * 100
		}
	} else {
		ranking.Percentage = percentageSum / float64(len(ranking.Areas))
	}
	return ranking, nil
}

// filterTeams applies exact shift/grade matching on NFC-normalized
// values. Empty filter fields match every team.
func filterTeams(teams []domain.Team, filter domain.RankingFilter) []domain.Team {
	shift := norm.NFC.String(filter.Shift)
	grade := norm.NFC.String(filter.Grade)
	if shift == "" && grade == "" {
		return teams
	}

	eligible := make([]domain.Team, 0, len(teams))
	for _, t := range teams {
		if shift != "" && norm.NFC.String(t.Shift) != shift {
			continue
		}
		if grade != "" && norm.NFC.String(t.Grade) != grade {
			continue
		}
		eligible = append(eligible, t)
	}
	return eligible
}

func activeAreas(areas []domain.Area) []domain.Area {
	active := make([]domain.Area, 0, len(areas))
	for _, a := range areas {
		if a.Active {
			active = append(active, a)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Order < active[j].Order
	})
	return active
}

// sortRankings orders rankings descending by the method's primary keys,
// then by the tournament's tie-break chain, with team id as the final
// deterministic key.
func sortRankings(rankings []domain.TeamRanking, config domain.TournamentConfig) {
	sort.SliceStable(rankings, func(i, j int) bool {
		a, b := rankings[i], rankings[j]

		if config.RankingMethod == domain.RankRaw {
			if a.TotalScore != b.TotalScore {
				return a.TotalScore > b.TotalScore
			}
		}
		if a.Percentage != b.Percentage {
			return a.Percentage > b.Percentage
		}

		for _, key := range config.TieBreak {
			if cmp := compareTieBreak(a, b, key); cmp != 0 {
				return cmp > 0
			}
		}
		return a.TeamID < b.TeamID
	})
}

// compareTieBreak returns a positive value when a ranks ahead of b on
// the key, negative when b ranks ahead, and zero when the key ties.
func compareTieBreak(a, b domain.TeamRanking, key string) int {
	switch key {
	case tieBreakTotalScore:
		return compareDesc(a.TotalScore, b.TotalScore)
	case tieBreakPercentage:
		return compareDesc(a.Percentage, b.Percentage)
	case tieBreakElapsedTime:
		// Faster teams rank ahead.
		return compareDesc(float64(b.ElapsedSeconds), float64(a.ElapsedSeconds))
	default:
		// Any other key is an area code; unscored areas compare as zero.
		return compareDesc(a.Areas[key].Score, b.Areas[key].Score)
	}
}

func compareDesc(a, b float64) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}
