package service

import (
	"github.com/hntrann/casepanel/internal/dto"
)

// StatsService reduces a materialized rollup into section-level summary
// numbers. Empty input is not an error: it yields a zero completion rate
// and undefined (nil) averages, never zeros or NaNs.
type StatsService interface {
	Compute(rows []dto.RollupRowDTO) dto.SectionStatsDTO
}

type statsService struct{}

func NewStatsService() StatsService {
	return &statsService{}
}

func (s *statsService) Compute(rows []dto.RollupRowDTO) dto.SectionStatsDTO {
	stats := dto.SectionStatsDTO{TotalRows: len(rows)}

	var scoreSum, hintsSum, helpfulSum float64
	var scoreN, hintsN, helpfulN int
	for _, row := range rows {
		if row.Status != dto.StatusCompleted {
			continue
		}
		stats.CompletedRows++
		if row.Score != nil {
			scoreSum += float64(*row.Score)
			scoreN++
			// Defensive clamp for malformed data: out-of-range scores are
			// dropped from the histogram silently, not reported as errors.
			if *row.Score >= 0 && *row.Score <= 15 {
				stats.ScoreDistribution[*row.Score]++
			}
		}
		if row.Hints != nil {
			hintsSum += float64(*row.Hints)
			hintsN++
		}
		if row.Helpful != nil {
			helpfulSum += float64(*row.Helpful)
			helpfulN++
		}
	}

	if stats.TotalRows > 0 {
		stats.CompletionRate = 100 * float64(stats.CompletedRows) / float64(stats.TotalRows)
	}
	if scoreN > 0 {
		avg := scoreSum / float64(scoreN)
		stats.AvgScore = &avg
	}
	if hintsN > 0 {
		avg := hintsSum / float64(hintsN)
		stats.AvgHints = &avg
	}
	if helpfulN > 0 {
		avg := helpfulSum / float64(helpfulN)
		stats.AvgHelpful = &avg
	}
	return stats
}
