package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/academic-tracker/backend/internal/config"
	"github.com/academic-tracker/backend/internal/database"
	"github.com/academic-tracker/backend/internal/models"
	"github.com/academic-tracker/backend/internal/services"
	gokitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"gorm.io/gorm"
)

const (
	adminEmail    = "admin@academic-tracker.local"
	demoUsername  = "demo"
	demoPassword  = "Demo@12345"
	demoRegNumber = "DEMO/0001"
)

func handleCommand(cmd string, cfg *config.Config, logger gokitlog.Logger) error {
	db, err := database.Connect(cfg, logger)
	if err != nil {
		return err
	}

	switch cmd {
	case "migrate":
		if err := database.Migrate(db, logger); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		level.Info(logger).Log("msg", "migration completed successfully")
		return nil

	case "seed-admin":
		return seedAdmin(db, cfg, logger)

	case "seed-demo":
		return seedDemo(db, cfg, logger, time.Now())

	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

// seedAdmin creates the administrator account, using SEED_ADMIN_SECRET as password
func seedAdmin(db *gorm.DB, cfg *config.Config, logger gokitlog.Logger) error {
	if cfg.Server.SeedAdminSecret == "" {
		return errors.New("SEED_ADMIN_SECRET must be set to seed the admin account")
	}

	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		level.Info(logger).Log("msg", "admin already exists")
		return nil
	}

	admin := &models.User{
		Username:            "admin",
		Email:               adminEmail,
		Name:                "Administrator",
		Role:                models.RoleAdmin,
		Batch:               "staff",
		UniversityRegNumber: "ADMIN",
		ALYear:              time.Now().Year(),
		IsActive:            true,
	}
	if err := services.NewAuthService(db, cfg).CreateUser(admin, cfg.Server.SeedAdminSecret); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	level.Info(logger).Log("msg", "admin created", "email", adminEmail)
	return nil
}

// seedDemo creates a student with two semesters of graded modules and a few
// study sessions, for trying the API locally.
func seedDemo(db *gorm.DB, cfg *config.Config, logger gokitlog.Logger, now time.Time) error {
	var count int64
	db.Model(&models.User{}).Where("username = ?", demoUsername).Count(&count)
	if count > 0 {
		level.Info(logger).Log("msg", "demo student already exists")
		return nil
	}

	student, err := services.NewAuthService(db, cfg).Register(services.RegisterInput{
		Name:                "Demo Student",
		Username:            demoUsername,
		Email:               "demo@academic-tracker.local",
		Password:            demoPassword,
		Batch:               "21",
		UniversityRegNumber: demoRegNumber,
		ALYear:              2020,
		University:          "University of Moratuwa",
		Degree:              "BSc Engineering",
	})
	if err != nil {
		return fmt.Errorf("failed to create demo student: %w", err)
	}

	semesters := services.NewSemesterService(db)
	modules := services.NewModuleService(db)
	sessions := services.NewStudySessionService(db)

	day := func(t time.Time) *time.Time {
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return &d
	}

	first, err := semesters.Create(student.ID, services.SemesterInput{
		Number:    1,
		StartDate: day(now.AddDate(0, -10, 0)),
		EndDate:   day(now.AddDate(0, -6, 0)),
	})
	if err != nil {
		return err
	}
	second, err := semesters.Create(student.ID, services.SemesterInput{
		Number:    2,
		StartDate: day(now.AddDate(0, -2, 0)),
		EndDate:   day(now.AddDate(0, 2, 0)),
	})
	if err != nil {
		return err
	}

	grade := func(g string) *string { return &g }
	demoModules := []services.ModuleInput{
		{Code: "MA1013", Name: "Mathematics", Credits: 3, SemesterID: &first.ID, Grade: grade("A")},
		{Code: "CS1032", Name: "Programming Fundamentals", Credits: 3, SemesterID: &first.ID, Grade: grade("B+")},
		{Code: "EN1802", Name: "Basic Engineering Thermodynamics", Credits: 2, SemesterID: &first.ID, Grade: grade("A-")},
		{Code: "MA1023", Name: "Methods of Mathematics", Credits: 3, SemesterID: &second.ID},
		{Code: "CS2012", Name: "Data Structures and Algorithms", Credits: 3, SemesterID: &second.ID},
	}
	var current []*models.Module
	for _, in := range demoModules {
		m, err := modules.Register(student.ID, in)
		if err != nil {
			return err
		}
		if in.SemesterID != nil && *in.SemesterID == second.ID {
			current = append(current, m)
		}
	}

	for i := 0; i < 5; i++ {
		start := day(now.AddDate(0, 0, -i)).Add(9 * time.Hour)
		end := start.Add(time.Duration(45+15*i) * time.Minute)
		m := current[i%len(current)]
		if _, err := sessions.Record(student.ID, services.SessionInput{
			ModuleID:    &m.ID,
			StartTime:   &start,
			EndTime:     &end,
			SessionType: "revision",
		}); err != nil {
			return err
		}
	}

	level.Info(logger).Log("msg", "demo student created", "username", demoUsername, "password", demoPassword)
	return nil
}
