// Package service implements the domain analysis services: overlap detection,
// risk scoring, transaction pattern analysis and flow graph construction.
package service

import (
	"context"
	"sort"

	"github.com/turtacn/jalak-hijau/internal/domain/models"
	"github.com/turtacn/jalak-hijau/pkg/constants"
	"github.com/turtacn/jalak-hijau/pkg/errors"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

// OverlapAnalyzer detects overlaps between palm-oil concessions and protected
// forest areas.
type OverlapAnalyzer interface {
	// Analyze compares every concession against every protected area and
	// returns the overlap records whose percentage clears minOverlapPercent,
	// plus a PairError for each pair whose intersection could not be computed.
	// The record slice is ordered by descending overlap percentage, ties broken
	// by company then forest name, so repeated runs over the same inputs
	// produce identical output.
	Analyze(ctx context.Context, concessions []models.Concession, protectedAreas []models.ProtectedArea, minOverlapPercent float64) ([]models.OverlapRecord, []models.PairError, error)
}

type overlapAnalyzer struct {
	logger logger.Logger
}

// NewOverlapAnalyzer creates an OverlapAnalyzer.
func NewOverlapAnalyzer(log logger.Logger) OverlapAnalyzer {
	return &overlapAnalyzer{
		logger: log.WithComponent("overlap-analyzer"),
	}
}

func (a *overlapAnalyzer) Analyze(ctx context.Context, concessions []models.Concession, protectedAreas []models.ProtectedArea, minOverlapPercent float64) ([]models.OverlapRecord, []models.PairError, error) {
	if minOverlapPercent < 0 || minOverlapPercent > 100 {
		return nil, nil, errors.New(errors.CodeInvalidArgument, "min overlap percent must be within [0,100]")
	}

	records := make([]models.OverlapRecord, 0)
	pairErrors := make([]models.PairError, 0)

	for _, con := range concessions {
		conArea := con.Geometry.Area()
		if conArea <= 0 {
			// Degenerate concession geometry: no percentage is computable
			// against a zero denominator, report every candidate pair.
			for _, pa := range protectedAreas {
				if con.Geometry.Intersects(pa.Geometry) {
					pairErrors = append(pairErrors, models.PairError{
						Company:    con.Company,
						ForestName: pa.Name,
						Reason:     "concession has zero area",
					})
				}
			}
			continue
		}

		for _, pa := range protectedAreas {
			if !con.Geometry.Intersects(pa.Geometry) {
				continue
			}

			inter, err := con.Geometry.Intersection(pa.Geometry)
			if err != nil {
				a.logger.Warn(ctx, "intersection failed for pair", logger.Fields{
					"company": con.Company,
					"forest":  pa.Name,
					"error":   err.Error(),
				})
				pairErrors = append(pairErrors, models.PairError{
					Company:    con.Company,
					ForestName: pa.Name,
					Reason:     err.Error(),
				})
				continue
			}
			if inter.IsEmpty() {
				continue
			}

			interArea := inter.Area()
			// Percentage is always relative to the concession's own area.
			pct := interArea / conArea * 100.0
			if pct < minOverlapPercent {
				continue
			}

			lat, lon := inter.Centroid()
			records = append(records, models.OverlapRecord{
				Company:           con.Company,
				ForestName:        pa.Name,
				Intersection:      inter,
				ConcessionAreaHa:  models.AreaHectares(conArea),
				OverlapAreaHa:     models.AreaHectares(interArea),
				OverlapPercentage: pct,
				Severity:          severityFor(pct),
				CenterLat:         lat,
				CenterLon:         lon,
			})
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].OverlapPercentage != records[j].OverlapPercentage {
			return records[i].OverlapPercentage > records[j].OverlapPercentage
		}
		if records[i].Company != records[j].Company {
			return records[i].Company < records[j].Company
		}
		return records[i].ForestName < records[j].ForestName
	})

	a.logger.Info(ctx, "overlap analysis completed", logger.Fields{
		"concessions":     len(concessions),
		"protected_areas": len(protectedAreas),
		"overlaps":        len(records),
		"pair_errors":     len(pairErrors),
		"threshold":       minOverlapPercent,
	})
	return records, pairErrors, nil
}

// severityFor maps an overlap percentage to its severity tier.
func severityFor(pct float64) constants.Severity {
	switch {
	case pct > constants.SeverityCriticalThreshold:
		return constants.SeverityCritical
	case pct > constants.SeverityHighThreshold:
		return constants.SeverityHigh
	default:
		return constants.SeverityMedium
	}
}
