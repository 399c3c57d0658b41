package model

import "encoding/json"

type PaperStatus string

const (
	PaperDraft     PaperStatus = "draft"
	PaperImporting PaperStatus = "importing"
	PaperReady     PaperStatus = "ready"
	PaperFailed    PaperStatus = "failed"
)

// QuestionPaper is one uploaded exam paper. The raw source document is kept
// in object storage; SourceKey points at it so a paper can be re-imported
// after engine fixes without a fresh upload.
// swagger:model QuestionPaper
type QuestionPaper struct {
	BaseModel
	Title         string      `gorm:"size:255;not null" json:"title"`
	Subject       string      `gorm:"size:100;index" json:"subject"`
	Season        string      `gorm:"size:50" json:"season"`
	Year          int         `gorm:"index" json:"year"`
	Status        PaperStatus `gorm:"type:enum('draft','importing','ready','failed');default:'draft'" json:"status"`
	SourceKey     string      `gorm:"size:512" json:"sourceKey"`
	SourceSHA256  string      `gorm:"size:64;index" json:"sourceSha256"`
	TotalMarks    float64     `json:"totalMarks"`
	QuestionCount int         `json:"questionCount"`
	UploadedBy    uint        `gorm:"index" json:"uploadedBy"`

	Questions []PaperQuestion `gorm:"foreignKey:PaperID" json:"questions,omitempty"`
}

func (QuestionPaper) TableName() string {
	return "question_papers"
}

// PaperQuestion stores one canonical question. Canonical holds the full
// transformed tree as produced by the engine; NodeID is the engine's stable
// question identifier and is what grading submissions reference.
// swagger:model PaperQuestion
type PaperQuestion struct {
	BaseModel
	PaperID     uint            `gorm:"index;not null" json:"paperId"`
	NodeID      string          `gorm:"size:50;index;not null" json:"nodeId"`
	Number      int             `gorm:"not null" json:"number"`
	Kind        string          `gorm:"size:20" json:"kind"`
	Marks       float64         `json:"marks"`
	Format      string          `gorm:"size:20" json:"answerFormat"`
	Requirement string          `gorm:"size:20" json:"answerRequirement"`
	Canonical   json.RawMessage `gorm:"type:json" json:"canonical"`
}

func (PaperQuestion) TableName() string {
	return "paper_questions"
}
