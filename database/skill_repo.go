package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/models"
)

type SkillRepo struct {
	db *gorm.DB
}

func NewSkillRepo(db *gorm.DB) *SkillRepo {
	return &SkillRepo{db}
}

func (r *SkillRepo) FindAll(ctx context.Context) ([]*models.Skill, error) {
	skills := []*models.Skill{}
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&skills).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "skills", err)
	}
	return skills, nil
}

func (r *SkillRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	var skill models.Skill
	err := r.db.WithContext(ctx).First(&skill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("skill")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "skill", err)
	}
	return &skill, nil
}

// Add inserts a new skill. New skills must carry an image.
func (r *SkillRepo) Add(ctx context.Context, skill *models.Skill) error {
	skill.Normalize()
	if fields := skill.ValidateForCreate(); len(fields) > 0 {
		return errs.NewValidationError(fields)
	}
	if skill.ID == uuid.Nil {
		skill.ID = uuid.New()
	}

	if err := r.db.WithContext(ctx).Create(skill).Error; err != nil {
		return errs.NewDatabaseError("create", "skill", err)
	}
	return nil
}

func (r *SkillRepo) Update(ctx context.Context, skill *models.Skill) error {
	skill.Normalize()
	if fields := skill.Validate(); len(fields) > 0 {
		return errs.NewValidationError(fields)
	}
	skill.UpdatedAt = time.Now().UTC()

	res := r.db.WithContext(ctx).
		Model(&models.Skill{}).
		Where("id = ?", skill.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(skill)
	if res.Error != nil {
		return errs.NewDatabaseError("update", "skill", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("skill")
	}
	return nil
}

func (r *SkillRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Skill{}, "id = ?", id)
	if res.Error != nil {
		return errs.NewDatabaseError("delete", "skill", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("skill")
	}
	return nil
}
