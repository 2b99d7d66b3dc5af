package storage

import (
	"time"

	"movecli/internal/domain"
)

// suiteResultToModel converts a domain.SuiteResult to SuiteRunModel (GORM)
func suiteResultToModel(r *domain.SuiteResult) SuiteRunModel {
	m := SuiteRunModel{
		Coverage:   r.Coverage,
		DurationMS: r.Duration.Milliseconds(),
		Ephemeral:  r.Ephemeral,
		Failed:     len(r.Failed()),
		Root:       r.Root,
		RunID:      r.RunID,
		StartedAt:  r.StartedAt.UTC(),
		Total:      len(r.Results),
	}
	if r.CoverageErr != nil {
		m.CoverageErr = r.CoverageErr.Error()
	}
	for _, res := range r.Results {
		m.Scripts = append(m.Scripts, ScriptResultModel{
			DurationMS: res.Duration.Milliseconds(),
			Passed:     res.Passed,
			RunID:      r.RunID,
			Script:     res.Script,
			Summary:    res.Summary(),
		})
	}
	return m
}

// suiteRunModelToDomain converts a SuiteRunModel (GORM) to domain.RunSummary
func suiteRunModelToDomain(m SuiteRunModel) domain.RunSummary {
	outcomes := make(map[string]bool, len(m.Scripts))
	for _, s := range m.Scripts {
		outcomes[s.Script] = s.Passed
	}
	return domain.RunSummary{
		Coverage:  m.Coverage,
		Duration:  time.Duration(m.DurationMS) * time.Millisecond,
		Ephemeral: m.Ephemeral,
		Failed:    m.Failed,
		Outcomes:  outcomes,
		Root:      m.Root,
		RunID:     m.RunID,
		StartedAt: m.StartedAt,
		Total:     m.Total,
	}
}
