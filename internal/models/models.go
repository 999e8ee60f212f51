package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JSONB custom type for JSON fields
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSONB)
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	}
	return nil
}

// Base model with UUID
type BaseModel struct {
	ID        uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User is a student (or administrator) owning semesters, modules and study sessions
type User struct {
	BaseModel
	Username            string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email               string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash        string     `gorm:"type:varchar(255);not null" json:"-"`
	Role                string     `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	Name                string     `gorm:"type:varchar(255);not null" json:"name"`
	University          string     `gorm:"type:varchar(255)" json:"university"`
	AcademicYear        string     `gorm:"type:varchar(50)" json:"academic_year"`
	Degree              string     `gorm:"type:varchar(255)" json:"degree"`
	GraduationYear      *int       `json:"graduation_year,omitempty"`
	Batch               string     `gorm:"type:varchar(50);not null" json:"batch"`
	UniversityRegNumber string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"university_reg_number"`
	ALYear              int        `gorm:"not null" json:"al_year"`
	Telephone           string     `gorm:"type:varchar(50)" json:"telephone"`
	DOB                 *time.Time `gorm:"type:date" json:"dob,omitempty"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	LastLogin           *time.Time `json:"last_login,omitempty"`
}

// Semester is one of a user's academic terms
type Semester struct {
	BaseModel
	UserID    uuid.UUID  `gorm:"type:char(36);not null;index:idx_semester_user_number" json:"user_id"`
	Number    int        `gorm:"not null;index:idx_semester_user_number" json:"number"`
	Name      string     `gorm:"type:varchar(100);not null" json:"name"`
	StartDate *time.Time `gorm:"type:date" json:"start_date"`
	EndDate   *time.Time `gorm:"type:date" json:"end_date"`
}

// Module is a course unit a user takes. SemesterNumber mirrors the semester's
// number and is kept in sync by the semester service.
type Module struct {
	BaseModel
	UserID         uuid.UUID  `gorm:"type:char(36);not null;uniqueIndex:idx_module_user_code" json:"user_id"`
	SemesterID     *uuid.UUID `gorm:"type:char(36);index" json:"semester_id"`
	SemesterNumber *int       `json:"semester_number"`
	Code           string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_module_user_code" json:"code"`
	Name           string     `gorm:"type:varchar(255);not null" json:"name"`
	Credits        int        `gorm:"not null" json:"credits"`
	Grade          *string    `gorm:"type:varchar(4)" json:"grade"`
	Semester       *Semester  `gorm:"foreignKey:SemesterID" json:"semester,omitempty"`
}

// StudySession records a block of time spent on a module
type StudySession struct {
	BaseModel
	UserID          uuid.UUID `gorm:"type:char(36);not null;index:idx_session_user_start" json:"user_id"`
	ModuleID        uuid.UUID `gorm:"type:char(36);not null;index" json:"module_id"`
	SessionType     string    `gorm:"type:varchar(50)" json:"session_type"`
	StartTime       time.Time `gorm:"not null;index:idx_session_user_start" json:"start_time"`
	EndTime         time.Time `gorm:"not null" json:"end_time"`
	DurationSeconds int64     `gorm:"not null" json:"duration_seconds"`
	Module          *Module   `gorm:"foreignKey:ModuleID" json:"module,omitempty"`
}

// AuditLog tracks all data changes
type AuditLog struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	ActorUserID  uuid.UUID `gorm:"type:char(36);index" json:"actor_user_id"`
	Action       string    `gorm:"type:varchar(50);not null" json:"action"`
	ResourceType string    `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   uuid.UUID `gorm:"type:char(36);index" json:"resource_id"`
	Before       JSONB     `gorm:"type:json" json:"before"`
	After        JSONB     `gorm:"type:json" json:"after"`
	Timestamp    time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
	IP           string    `gorm:"type:varchar(45)" json:"ip"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// RefreshToken stores refresh tokens for revocation
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index" json:"user_id"`
	Token     string    `gorm:"type:varchar(500);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	Revoked   bool      `gorm:"default:false;index" json:"revoked"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (r *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// All returns every model managed by migrations
func All() []interface{} {
	return []interface{}{
		&User{},
		&Semester{},
		&Module{},
		&StudySession{},
		&RefreshToken{},
		&AuditLog{},
	}
}
