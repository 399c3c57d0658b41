package repository

import (
	"github.com/baker9001/GGK-LiveProduction-sub011/internal/model"

	"gorm.io/gorm"
)

type ImportRepository struct {
	DB *gorm.DB
}

func NewImportRepository(db *gorm.DB) *ImportRepository {
	return &ImportRepository{DB: db}
}

func (r *ImportRepository) Create(job *model.ImportJob) error {
	return r.DB.Create(job).Error
}

func (r *ImportRepository) Update(job *model.ImportJob) error {
	return r.DB.Save(job).Error
}

func (r *ImportRepository) FindByID(id uint) (*model.ImportJob, error) {
	var job model.ImportJob
	err := r.DB.Preload("Failures").First(&job, id).Error
	return &job, err
}

func (r *ImportRepository) FindRunningByPaper(paperID uint) (*model.ImportJob, error) {
	var job model.ImportJob
	err := r.DB.Where("paper_id = ? AND status = ?", paperID, model.ImportRunning).
		First(&job).Error
	return &job, err
}

func (r *ImportRepository) ListByPaper(paperID uint) ([]model.ImportJob, error) {
	var jobs []model.ImportJob
	err := r.DB.Where("paper_id = ?", paperID).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

func (r *ImportRepository) AddFailures(failures []model.ImportFailure) error {
	if len(failures) == 0 {
		return nil
	}
	return r.DB.Create(&failures).Error
}
