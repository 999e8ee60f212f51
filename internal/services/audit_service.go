package services

import (
	"time"

	"github.com/academic-tracker/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

type AuditService struct {
	db *gorm.DB
}

// Activity is an audit entry joined with the acting user's name
type Activity struct {
	models.AuditLog
	UserName string `json:"user_name"`
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

func (s *AuditService) Log(userID uuid.UUID, action, resourceType string, resourceID uuid.UUID, before, after models.JSONB, ip string) error {
	log := &models.AuditLog{
		ActorUserID:  userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Before:       before,
		After:        after,
		IP:           ip,
	}
	return s.db.Create(log).Error
}

// Recent returns the latest audit entries, newest first
func (s *AuditService) Recent(limit int) ([]Activity, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var activities []Activity
	err := s.db.Table("audit_logs").
		Select("audit_logs.*, users.name as user_name").
		Joins("LEFT JOIN users ON audit_logs.actor_user_id = users.id").
		Order("audit_logs.timestamp DESC").
		Limit(limit).
		Scan(&activities).Error
	return activities, err
}

// PruneBefore deletes audit entries older than cutoff
func (s *AuditService) PruneBefore(cutoff time.Time) (int64, error) {
	result := s.db.Where("timestamp < ?", cutoff).Delete(&models.AuditLog{})
	return result.RowsAffected, result.Error
}
