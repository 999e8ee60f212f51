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

type SemesterService struct {
	db *gorm.DB
}

type SemesterInput struct {
	Name      string
	Number    int
	StartDate *time.Time
	EndDate   *time.Time
}

var numberWords = strings.NewReplacer(
	"one", "1", "two", "2", "three", "3", "four", "4", "five", "5",
	"six", "6", "seven", "7", "eight", "8", "nine", "9", "zero", "0",
)

// NormalizeSemesterName folds a semester name so that "Semester One",
// "semester-1" and "SEMESTER 1" compare equal.
func NormalizeSemesterName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return numberWords.Replace(b.String())
}

func NewSemesterService(db *gorm.DB) *SemesterService {
	return &SemesterService{db: db}
}

func (s *SemesterService) List(userID uuid.UUID) ([]models.Semester, error) {
	return listSemesters(s.db, userID)
}

func listSemesters(db *gorm.DB, userID uuid.UUID) ([]models.Semester, error) {
	semesters := []models.Semester{}
	err := db.Where("user_id = ?", userID).Order("number ASC").Order("name ASC").Find(&semesters).Error
	return semesters, err
}

// Get returns a semester owned by userID
func (s *SemesterService) Get(userID, id uuid.UUID) (*models.Semester, error) {
	return findOwnedSemester(s.db, userID, id)
}

// findOwnedSemester distinguishes a missing semester from one owned by someone else
func findOwnedSemester(db *gorm.DB, userID, id uuid.UUID) (*models.Semester, error) {
	var semester models.Semester
	if err := db.First(&semester, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		return nil, err
	}
	if semester.UserID != userID {
		return nil, ErrSemesterForbidden
	}
	return &semester, nil
}

func (s *SemesterService) validate(tx *gorm.DB, userID uuid.UUID, in *SemesterInput, self uuid.UUID) error {
	if in.Number < 1 {
		return invalid("number", "must be at least 1")
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return invalid("end_date", "must not be before start_date")
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		in.Name = fmt.Sprintf("Semester %d", in.Number)
	}

	existing, err := listSemesters(tx, userID)
	if err != nil {
		return err
	}
	normalized := NormalizeSemesterName(in.Name)
	for _, e := range existing {
		if e.ID != self && NormalizeSemesterName(e.Name) == normalized {
			return ErrDuplicateSemester
		}
	}
	return nil
}

func (s *SemesterService) Create(userID uuid.UUID, in SemesterInput) (*models.Semester, error) {
	if err := s.validate(s.db, userID, &in, uuid.Nil); err != nil {
		return nil, err
	}

	semester := &models.Semester{
		UserID:    userID,
		Number:    in.Number,
		Name:      in.Name,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
	}
	if err := s.db.Create(semester).Error; err != nil {
		return nil, fmt.Errorf("failed to create semester: %w", err)
	}
	return semester, nil
}

// Update rewrites a semester and carries a new number over to its modules
func (s *SemesterService) Update(userID, id uuid.UUID, in SemesterInput) (*models.Semester, error) {
	var semester *models.Semester
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		semester, err = findOwnedSemester(tx, userID, id)
		if err != nil {
			return err
		}
		if err := s.validate(tx, userID, &in, id); err != nil {
			return err
		}

		semester.Name = in.Name
		semester.Number = in.Number
		semester.StartDate = in.StartDate
		semester.EndDate = in.EndDate
		if err := tx.Save(semester).Error; err != nil {
			return err
		}

		return tx.Model(&models.Module{}).
			Where("user_id = ? AND semester_id = ?", userID, id).
			Update("semester_number", in.Number).Error
	})
	if err != nil {
		return nil, err
	}
	return semester, nil
}

// Delete detaches the semester's modules and removes it
func (s *SemesterService) Delete(userID, id uuid.UUID) (*models.Semester, error) {
	var semester *models.Semester
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		semester, err = findOwnedSemester(tx, userID, id)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Module{}).
			Where("user_id = ? AND semester_id = ?", userID, id).
			Updates(map[string]interface{}{"semester_id": nil, "semester_number": nil}).Error; err != nil {
			return err
		}

		return tx.Delete(semester).Error
	})
	if err != nil {
		return nil, err
	}
	return semester, nil
}

// Current returns the semester whose dates contain today, preferring the
// latest start, or ErrSemesterNotFound.
func (s *SemesterService) Current(userID uuid.UUID, today time.Time) (*models.Semester, error) {
	return currentSemester(s.db, userID, today)
}

func currentSemester(db *gorm.DB, userID uuid.UUID, today time.Time) (*models.Semester, error) {
	semesters, err := listSemesters(db, userID)
	if err != nil {
		return nil, err
	}

	var current *models.Semester
	for i := range semesters {
		sem := &semesters[i]
		if sem.StartDate == nil || sem.EndDate == nil {
			continue
		}
		if !grading.OnOrAfter(today, *sem.StartDate) || grading.IsFinished(sem.EndDate, today) {
			continue
		}
		if current == nil || sem.StartDate.After(*current.StartDate) {
			current = sem
		}
	}
	if current == nil {
		return nil, ErrSemesterNotFound
	}
	return current, nil
}

// semesterInfos converts rows into the GPA engine's view of semesters
func semesterInfos(semesters []models.Semester) []grading.SemesterInfo {
	infos := make([]grading.SemesterInfo, 0, len(semesters))
	for _, sem := range semesters {
		infos = append(infos, grading.SemesterInfo{
			ID:        sem.ID,
			Number:    sem.Number,
			Name:      sem.Name,
			StartDate: sem.StartDate,
			EndDate:   sem.EndDate,
		})
	}
	return infos
}
