package model

import "encoding/json"

// GradingRecord persists one grading outcome for review and reporting.
// Submitted and Feedback keep the full wire payloads so a record can be
// replayed or audited without the original request.
// swagger:model GradingRecord
type GradingRecord struct {
	BaseModel
	PaperID     uint            `gorm:"index;not null" json:"paperId"`
	QuestionID  uint            `gorm:"index;not null" json:"questionId"`
	NodeID      string          `gorm:"size:50;index" json:"nodeId"`
	CandidateID uint            `gorm:"index" json:"candidateId"`
	Achieved    float64         `json:"achievedMarks"`
	Total       float64         `json:"totalMarks"`
	Percentage  float64         `json:"percentage"`
	Submitted   json.RawMessage `gorm:"type:json" json:"submitted"`
	Feedback    json.RawMessage `gorm:"type:json" json:"feedback"`
}

func (GradingRecord) TableName() string {
	return "grading_records"
}
