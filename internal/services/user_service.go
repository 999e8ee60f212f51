package services

import (
	"errors"
	"strings"
	"time"

	"github.com/academic-tracker/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

// ProfileInput holds the editable profile fields; nil leaves a field as is
type ProfileInput struct {
	Name           *string
	Username       *string
	Email          *string
	University     *string
	AcademicYear   *string
	Degree         *string
	GraduationYear *int
	Batch          *string
	Telephone      *string
	DOB            *time.Time
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Get(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetProfile(userID uuid.UUID) (*models.User, error) {
	return s.Get(userID)
}

func (s *UserService) UpdateProfile(userID uuid.UUID, in ProfileInput) (*models.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	setTrimmed := func(dst *string, src *string, field string, required bool) error {
		if src == nil {
			return nil
		}
		v := strings.TrimSpace(*src)
		if required && v == "" {
			return invalid(field, "must not be blank")
		}
		*dst = v
		return nil
	}

	if err := setTrimmed(&user.Name, in.Name, "name", true); err != nil {
		return nil, err
	}
	if err := setTrimmed(&user.Username, in.Username, "username", true); err != nil {
		return nil, err
	}
	if err := setTrimmed(&user.Email, in.Email, "email", true); err != nil {
		return nil, err
	}
	user.Email = strings.ToLower(user.Email)
	if err := setTrimmed(&user.Batch, in.Batch, "batch", true); err != nil {
		return nil, err
	}
	setTrimmed(&user.University, in.University, "university", false)
	setTrimmed(&user.AcademicYear, in.AcademicYear, "academic_year", false)
	setTrimmed(&user.Degree, in.Degree, "degree", false)
	setTrimmed(&user.Telephone, in.Telephone, "telephone", false)
	if in.GraduationYear != nil {
		user.GraduationYear = in.GraduationYear
	}
	if in.DOB != nil {
		user.DOB = in.DOB
	}

	if err := checkUserUnique(s.db, user, user.ID); err != nil {
		return nil, err
	}
	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) List() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) SetActive(id uuid.UUID, active bool) (*models.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(user).Update("is_active", active).Error; err != nil {
		return nil, err
	}
	user.IsActive = active
	return user, nil
}
