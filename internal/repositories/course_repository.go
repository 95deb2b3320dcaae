package repositories

import (
	"errors"

	"github.com/EeLin02/6005CEM--Security-Group4/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseRepository interface {
	GetAll() ([]models.Course, error)
	GetByID(id uuid.UUID) (*models.Course, error)
	Create(course *models.Course) error
	Update(course *models.Course) error
	Delete(id uuid.UUID) error
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) GetAll() ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.Preload("Owner").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) GetByID(id uuid.UUID) (*models.Course, error) {
	var course models.Course
	if err := r.db.Preload("Owner").First(&course, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) Create(course *models.Course) error {
	return r.db.Create(course).Error
}

func (r *courseRepository) Update(course *models.Course) error {
	return r.db.Save(course).Error
}

func (r *courseRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Course{}, "id = ?", id).Error
}
