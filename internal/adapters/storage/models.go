package storage

import "time"

// SuiteRunModel is the GORM model for suite_runs table
type SuiteRunModel struct {
	Coverage    bool   `gorm:"not null;default:false"`
	CoverageErr string `gorm:"default:''"`
	CreatedAt   time.Time
	DurationMS  int64               `gorm:"not null;default:0"`
	Ephemeral   bool                `gorm:"not null;default:false"`
	Failed      int                 `gorm:"not null;default:0"`
	Root        string              `gorm:"not null;index:idx_root_started"`
	RunID       string              `gorm:"primaryKey"`
	Scripts     []ScriptResultModel `gorm:"foreignKey:RunID;references:RunID;constraint:OnDelete:CASCADE"`
	StartedAt   time.Time           `gorm:"not null;index:idx_root_started"`
	Total       int                 `gorm:"not null;default:0"`
}

// TableName specifies the table name for GORM
func (SuiteRunModel) TableName() string { return "suite_runs" }

// ScriptResultModel is the GORM model for script_results table
type ScriptResultModel struct {
	DurationMS int64  `gorm:"not null;default:0"`
	Passed     bool   `gorm:"not null"`
	RunID      string `gorm:"primaryKey"`
	Script     string `gorm:"primaryKey"`
	Summary    string `gorm:"default:''"`
}

// TableName specifies the table name for GORM
func (ScriptResultModel) TableName() string { return "script_results" }
