package model

import (
	"encoding/json"

	"gorm.io/gorm"
)

type ImportStatus string

const (
	ImportRunning   ImportStatus = "running"
	ImportCompleted ImportStatus = "completed"
	ImportFailed    ImportStatus = "failed"
)

// ImportJob is one run of the import pipeline over a paper document. A job
// that completes may still carry per-question failures; those questions are
// simply absent from the paper until the source is fixed and re-imported.
// swagger:model ImportJob
type ImportJob struct {
	BaseModel
	Reference     string          `gorm:"size:36;uniqueIndex" json:"reference"`
	PaperID       uint            `gorm:"index;not null" json:"paperId"`
	Status        ImportStatus    `gorm:"type:enum('running','completed','failed');default:'running'" json:"status"`
	QuestionCount int             `json:"questionCount"`
	FailureCount  int             `json:"failureCount"`
	Diagnostics   json.RawMessage `gorm:"type:json" json:"diagnostics,omitempty"`
	Error         string          `gorm:"size:1024" json:"error,omitempty"`
	StartedBy     uint            `gorm:"index" json:"startedBy"`

	Failures []ImportFailure `gorm:"foreignKey:JobID" json:"failures,omitempty"`
}

func (ImportJob) TableName() string {
	return "import_jobs"
}

// BeforeCreate assigns the public reference clients use to poll a job.
func (j *ImportJob) BeforeCreate(tx *gorm.DB) error {
	if j.Reference == "" {
		j.Reference = GenerateUUID()
	}
	return nil
}

// ImportFailure records one question skipped during an import.
// swagger:model ImportFailure
type ImportFailure struct {
	BaseModel
	JobID          uint   `gorm:"index;not null" json:"jobId"`
	QuestionIndex  int    `json:"questionIndex"`
	QuestionNumber int    `json:"questionNumber"`
	Reason         string `gorm:"size:2048" json:"reason"`
}

func (ImportFailure) TableName() string {
	return "import_failures"
}
