package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/academic-tracker/backend/internal/grading"
	"github.com/academic-tracker/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinCredits = 1
	MaxCredits = 30
)

type ModuleService struct {
	db *gorm.DB
}

type ModuleInput struct {
	Code       string
	Name       string
	Credits    int
	SemesterID *uuid.UUID
	Grade      *string
}

func NewModuleService(db *gorm.DB) *ModuleService {
	return &ModuleService{db: db}
}

// normalize trims the input and checks field rules
func (in *ModuleInput) normalize() error {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if in.Code == "" {
		return invalid("code", "is required")
	}
	if in.Name == "" {
		return invalid("name", "is required")
	}
	if in.Credits < MinCredits || in.Credits > MaxCredits {
		return invalid("credits", fmt.Sprintf("must be between %d and %d", MinCredits, MaxCredits))
	}
	if in.Grade != nil {
		if !grading.IsValidGrade(*in.Grade) {
			return invalid("grade", "is not a recognised grade")
		}
		g := grading.NormalizeGrade(*in.Grade)
		if g == "" {
			in.Grade = nil
		} else {
			in.Grade = &g
		}
	}
	return nil
}

// resolveSemester loads the target semester for a module. A missing semester
// is a bad request rather than a missing resource.
func resolveSemester(tx *gorm.DB, userID uuid.UUID, semesterID *uuid.UUID) (*models.Semester, error) {
	if semesterID == nil {
		return nil, nil
	}
	semester, err := findOwnedSemester(tx, userID, *semesterID)
	if errors.Is(err, ErrSemesterNotFound) {
		return nil, invalid("semester_id", "not found")
	}
	return semester, err
}

func codeTaken(tx *gorm.DB, userID uuid.UUID, code string, self uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&models.Module{}).
		Where("user_id = ? AND code = ? AND id <> ?", userID, code, self).
		Count(&count).Error
	return count > 0, err
}

// Register adds a module to the user's list, copying the semester number
// onto the module.
func (s *ModuleService) Register(userID uuid.UUID, in ModuleInput) (*models.Module, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	module := &models.Module{
		UserID:  userID,
		Code:    in.Code,
		Name:    in.Name,
		Credits: in.Credits,
		Grade:   in.Grade,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		taken, err := codeTaken(tx, userID, in.Code, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: %s", ErrDuplicateModuleCode, in.Code)
		}

		semester, err := resolveSemester(tx, userID, in.SemesterID)
		if err != nil {
			return err
		}
		if semester != nil {
			module.SemesterID = &semester.ID
			number := semester.Number
			module.SemesterNumber = &number
		}

		return tx.Create(module).Error
	})
	if err != nil {
		return nil, err
	}
	return module, nil
}

// Get returns a module owned by userID
func (s *ModuleService) Get(userID, id uuid.UUID) (*models.Module, error) {
	return findOwnedModule(s.db, userID, id)
}

func findOwnedModule(db *gorm.DB, userID, id uuid.UUID) (*models.Module, error) {
	var module models.Module
	if err := db.First(&module, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}
		return nil, err
	}
	return &module, nil
}

func (s *ModuleService) List(userID uuid.UUID, semesterID *uuid.UUID) ([]models.Module, error) {
	return listModules(s.db, userID, semesterID)
}

func listModules(db *gorm.DB, userID uuid.UUID, semesterID *uuid.UUID) ([]models.Module, error) {
	modules := []models.Module{}
	query := db.Where("user_id = ?", userID)
	if semesterID != nil {
		query = query.Where("semester_id = ?", *semesterID)
	}
	err := query.Order("semester_number ASC").Order("code ASC").Find(&modules).Error
	return modules, err
}

// ListForCurrentSemester returns the modules of the semester running today,
// or an empty list when no semester is running.
func (s *ModuleService) ListForCurrentSemester(userID uuid.UUID, today time.Time) ([]models.Module, error) {
	current, err := currentSemester(s.db, userID, today)
	if errors.Is(err, ErrSemesterNotFound) {
		return []models.Module{}, nil
	}
	if err != nil {
		return nil, err
	}
	return listModules(s.db, userID, &current.ID)
}

// Update replaces a module's fields. The returned before-copy feeds the audit log.
func (s *ModuleService) Update(userID, id uuid.UUID, in ModuleInput) (before models.Module, after *models.Module, err error) {
	if err = in.normalize(); err != nil {
		return before, nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		module, err := findOwnedModule(tx, userID, id)
		if err != nil {
			return err
		}
		before = *module

		taken, err := codeTaken(tx, userID, in.Code, id)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: %s", ErrDuplicateModuleCode, in.Code)
		}

		semester, err := resolveSemester(tx, userID, in.SemesterID)
		if err != nil {
			return err
		}

		module.Code = in.Code
		module.Name = in.Name
		module.Credits = in.Credits
		module.Grade = in.Grade
		module.SemesterID = nil
		module.SemesterNumber = nil
		if semester != nil {
			module.SemesterID = &semester.ID
			number := semester.Number
			module.SemesterNumber = &number
		}
		after = module
		return tx.Save(module).Error
	})
	if err != nil {
		return before, nil, err
	}
	return before, after, nil
}

// Delete removes a module together with its study sessions. Rows are removed
// for good so the (user, code) pair can be registered again.
func (s *ModuleService) Delete(userID, id uuid.UUID) (*models.Module, error) {
	var module *models.Module
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		module, err = findOwnedModule(tx, userID, id)
		if err != nil {
			return err
		}
		if err := tx.Unscoped().Where("module_id = ?", id).Delete(&models.StudySession{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(module).Error
	})
	if err != nil {
		return nil, err
	}
	return module, nil
}

// GradeRecords snapshots the user's modules for the GPA engine
func (s *ModuleService) GradeRecords(userID uuid.UUID, semesterID *uuid.UUID) ([]grading.GradeRecord, error) {
	modules, err := listModules(s.db, userID, semesterID)
	if err != nil {
		return nil, err
	}
	return gradeRecords(modules), nil
}

func gradeRecords(modules []models.Module) []grading.GradeRecord {
	records := make([]grading.GradeRecord, 0, len(modules))
	for _, m := range modules {
		credits := m.Credits
		records = append(records, grading.GradeRecord{
			Grade:          m.Grade,
			Credits:        &credits,
			SemesterID:     m.SemesterID,
			SemesterNumber: m.SemesterNumber,
		})
	}
	return records
}
