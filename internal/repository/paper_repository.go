package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/baker9001/GGK-LiveProduction-sub011/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type PaperRepository struct {
	DB       *gorm.DB
	Redis    *redis.Client
	CacheTTL time.Duration
}

func NewPaperRepository(db *gorm.DB, rdb *redis.Client, cacheTTL time.Duration) *PaperRepository {
	return &PaperRepository{DB: db, Redis: rdb, CacheTTL: cacheTTL}
}

func paperCacheKey(id uint) string {
	return fmt.Sprintf("paper:%d", id)
}

func (r *PaperRepository) Create(paper *model.QuestionPaper) error {
	return r.DB.Create(paper).Error
}

func (r *PaperRepository) Update(paper *model.QuestionPaper) error {
	if err := r.DB.Save(paper).Error; err != nil {
		return err
	}
	r.invalidate(paper.ID)
	return nil
}

func (r *PaperRepository) UpdateStatus(id uint, status model.PaperStatus) error {
	err := r.DB.Model(&model.QuestionPaper{}).
		Where("id = ?", id).
		Update("status", status).
		Error
	if err != nil {
		return err
	}
	r.invalidate(id)
	return nil
}

// FindByID loads a paper with its questions, serving from the redis cache
// when possible. Cache failures fall through to the database silently.
func (r *PaperRepository) FindByID(ctx context.Context, id uint) (*model.QuestionPaper, error) {
	if r.Redis != nil {
		if cached, err := r.Redis.Get(ctx, paperCacheKey(id)).Bytes(); err == nil {
			var paper model.QuestionPaper
			if json.Unmarshal(cached, &paper) == nil {
				return &paper, nil
			}
		}
	}

	var paper model.QuestionPaper
	err := r.DB.Preload("Questions").First(&paper, id).Error
	if err != nil {
		return nil, err
	}

	if r.Redis != nil {
		if data, err := json.Marshal(&paper); err == nil {
			r.Redis.Set(ctx, paperCacheKey(id), data, r.CacheTTL)
		}
	}
	return &paper, nil
}

func (r *PaperRepository) FindBySourceHash(hash string) (*model.QuestionPaper, error) {
	var paper model.QuestionPaper
	err := r.DB.Where("source_sha256 = ?", hash).First(&paper).Error
	return &paper, err
}

func (r *PaperRepository) List(subject string, year, page, limit int) ([]model.QuestionPaper, int64, error) {
	query := r.DB.Model(&model.QuestionPaper{})
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}
	if year > 0 {
		query = query.Where("year = ?", year)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var papers []model.QuestionPaper
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&papers).Error
	return papers, total, err
}

// ReplaceQuestions swaps a paper's question set atomically. Used by
// re-import, where the new canonical set fully supersedes the old one.
func (r *PaperRepository) ReplaceQuestions(paperID uint, questions []model.PaperQuestion) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("paper_id = ?", paperID).Delete(&model.PaperQuestion{}).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		return tx.Create(&questions).Error
	})
	if err != nil {
		return err
	}
	r.invalidate(paperID)
	return nil
}

func (r *PaperRepository) FindQuestion(paperID uint, questionID uint) (*model.PaperQuestion, error) {
	var q model.PaperQuestion
	err := r.DB.Where("paper_id = ? AND id = ?", paperID, questionID).First(&q).Error
	return &q, err
}

func (r *PaperRepository) FindQuestionByNode(paperID uint, nodeID string) (*model.PaperQuestion, error) {
	var q model.PaperQuestion
	err := r.DB.Where("paper_id = ? AND node_id = ?", paperID, nodeID).First(&q).Error
	return &q, err
}

func (r *PaperRepository) invalidate(id uint) {
	if r.Redis != nil {
		r.Redis.Del(context.Background(), paperCacheKey(id))
	}
}
