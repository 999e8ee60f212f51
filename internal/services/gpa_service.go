package services

import (
	"time"

	"github.com/academic-tracker/backend/internal/grading"
	"github.com/academic-tracker/backend/internal/metrics"
	"github.com/academic-tracker/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GpaService struct {
	db      *gorm.DB
	modules *ModuleService
}

func NewGpaService(db *gorm.DB) *GpaService {
	return &GpaService{db: db, modules: NewModuleService(db)}
}

// snapshot reads modules and semesters in one transaction so the overview
// never mixes two states of the data.
func (s *GpaService) snapshot(userID uuid.UUID) (modules []models.Module, semesters []models.Semester, err error) {
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if modules, err = listModules(tx, userID, nil); err != nil {
			return err
		}
		semesters, err = listSemesters(tx, userID)
		return err
	})
	return modules, semesters, err
}

// Overview returns SGPA for every semester and the cumulative GPA
func (s *GpaService) Overview(userID uuid.UUID, today time.Time) (grading.Overview, error) {
	modules, semesters, err := s.snapshot(userID)
	if err != nil {
		return grading.Overview{}, err
	}
	metrics.GPAComputations.WithLabelValues("overview").Inc()
	return grading.BuildOverview(gradeRecords(modules), semesterInfos(semesters), today), nil
}

// SemesterSGPA computes SGPA over the modules carrying the given semester number
func (s *GpaService) SemesterSGPA(userID uuid.UUID, number int) (*float64, error) {
	records, err := s.modules.GradeRecords(userID, nil)
	if err != nil {
		return nil, err
	}
	metrics.GPAComputations.WithLabelValues("sgpa").Inc()
	return grading.SGPAForSemesterNumber(records, number), nil
}

func (s *GpaService) CGPA(userID uuid.UUID) (*float64, error) {
	records, err := s.modules.GradeRecords(userID, nil)
	if err != nil {
		return nil, err
	}
	metrics.GPAComputations.WithLabelValues("cgpa").Inc()
	return grading.ComputeCGPA(records), nil
}

// TranscriptData gathers what the spreadsheet export needs
func (s *GpaService) TranscriptData(userID uuid.UUID, today time.Time) ([]models.Module, grading.Overview, error) {
	modules, semesters, err := s.snapshot(userID)
	if err != nil {
		return nil, grading.Overview{}, err
	}
	metrics.GPAComputations.WithLabelValues("transcript").Inc()
	return modules, grading.BuildOverview(gradeRecords(modules), semesterInfos(semesters), today), nil
}
