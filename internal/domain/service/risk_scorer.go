package service

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"github.com/turtacn/jalak-hijau/internal/domain/models"
	"github.com/turtacn/jalak-hijau/pkg/constants"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

// RiskScorer assigns risk scores to concessions based on overlap analysis
// output. Overlapping concessions land in [85,100), everything else gets a
// uniform baseline in [20,40); the two bands never meet so a score alone tells
// which population a concession belongs to.
type RiskScorer interface {
	// Score mutates the IsOverlapping and RiskScore fields of the given
	// concessions in place using the overlap records from the same analysis
	// run. Concessions absent from the records get a baseline score.
	Score(ctx context.Context, concessions []models.Concession, records []models.OverlapRecord)

	// ScoreFor returns the risk score for a single company given its maximum
	// overlap percentage, or a baseline draw when pct is zero.
	ScoreFor(pct float64) int
}

type riskScorer struct {
	logger logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRiskScorer creates a RiskScorer drawing baseline scores from rng. Tests
// pass a seeded source for reproducibility.
func NewRiskScorer(log logger.Logger, rng *rand.Rand) RiskScorer {
	return &riskScorer{
		logger: log.WithComponent("risk-scorer"),
		rng:    rng,
	}
}

func (s *riskScorer) Score(ctx context.Context, concessions []models.Concession, records []models.OverlapRecord) {
	// A company can overlap several forests; the worst overlap drives the score.
	maxPct := make(map[string]float64, len(records))
	for _, r := range records {
		if r.OverlapPercentage > maxPct[r.Company] {
			maxPct[r.Company] = r.OverlapPercentage
		}
	}

	flagged := 0
	for i := range concessions {
		pct := maxPct[concessions[i].Company]
		concessions[i].IsOverlapping = pct > 0
		concessions[i].RiskScore = s.ScoreFor(pct)
		if concessions[i].IsOverlapping {
			flagged++
		}
	}

	s.logger.Info(ctx, "risk scores assigned", logger.Fields{
		"concessions": len(concessions),
		"overlapping": flagged,
	})
}

func (s *riskScorer) ScoreFor(pct float64) int {
	if pct > 0 {
		return overlapRiskScore(pct)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return constants.BaselineRiskFloor + s.rng.Intn(constants.BaselineRiskCeil-constants.BaselineRiskFloor)
}

// overlapRiskScore maps an overlap percentage to [85,100): the base plus the
// overlap fraction scaled into the spread, truncated, clamped below 100.
func overlapRiskScore(pct float64) int {
	if pct > 100 {
		pct = 100
	}
	score := constants.OverlapRiskBase + int(math.Floor(pct/100.0*constants.OverlapRiskSpread))
	if score >= constants.MaxRiskScore {
		score = constants.MaxRiskScore - 1
	}
	return score
}
