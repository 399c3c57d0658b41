package repository

import (
	"github.com/baker9001/GGK-LiveProduction-sub011/internal/model"

	"gorm.io/gorm"
)

type GradingRepository struct {
	DB *gorm.DB
}

func NewGradingRepository(db *gorm.DB) *GradingRepository {
	return &GradingRepository{DB: db}
}

func (r *GradingRepository) Create(record *model.GradingRecord) error {
	return r.DB.Create(record).Error
}

func (r *GradingRepository) FindByID(id uint) (*model.GradingRecord, error) {
	var record model.GradingRecord
	err := r.DB.First(&record, id).Error
	return &record, err
}

func (r *GradingRepository) ListByPaper(paperID uint, page, limit int) ([]model.GradingRecord, int64, error) {
	query := r.DB.Model(&model.GradingRecord{}).Where("paper_id = ?", paperID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.GradingRecord
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&records).Error
	return records, total, err
}

func (r *GradingRepository) ListByCandidate(paperID, candidateID uint) ([]model.GradingRecord, error) {
	var records []model.GradingRecord
	err := r.DB.Where("paper_id = ? AND candidate_id = ?", paperID, candidateID).
		Order("question_id ASC").
		Find(&records).Error
	return records, err
}
