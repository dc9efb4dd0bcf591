package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Subscriber struct {
	UserID       int64     `gorm:"primaryKey;autoIncrement:false"`
	Username     string    `gorm:"type:varchar(64)"`
	SubscribedAt time.Time `gorm:"autoCreateTime"`
}

func (Subscriber) TableName() string {
	return "subscribers"
}

type UserPreference struct {
	UserID      int64     `gorm:"primaryKey;autoIncrement:false"`
	Language    string    `gorm:"type:varchar(8);not null;default:'en'"`
	FirstSeenAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (UserPreference) TableName() string {
	return "user_preferences"
}

type OperationLog struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	JobID      string         `gorm:"type:varchar(64);uniqueIndex"`
	UserID     int64          `gorm:"not null;index"`
	Feature    string         `gorm:"type:varchar(32);not null;index"`
	Status     string         `gorm:"type:varchar(16);not null;index"`
	Inputs     int            `gorm:"not null;default:0"`
	Outputs    int            `gorm:"not null;default:0"`
	Options    datatypes.JSON `gorm:"type:jsonb"`
	Error      string         `gorm:"type:text"`
	Tool       string         `gorm:"type:varchar(32)"`
	DurationMs int64          `gorm:"not null;default:0"`
	CreatedAt  time.Time      `gorm:"not null;index"`
}

func (OperationLog) TableName() string {
	return "operation_logs"
}

// All lists the models managed by migrations.
func All() []interface{} {
	return []interface{}{&Subscriber{}, &UserPreference{}, &OperationLog{}}
}
