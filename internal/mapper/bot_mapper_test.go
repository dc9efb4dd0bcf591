package mapper

import (
	"testing"
	"time"

	"pdf-toolbox-bot/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOperationLogOptionsAsJSON(t *testing.T) {
	m := NewOperationLogMapper()
	in := &entity.OperationLog{
		Id:        uuid.New(),
		JobID:     "j1",
		UserID:    7,
		Feature:   "rotate",
		Status:    entity.OperationStatusCompleted,
		Options:   []string{"angle"},
		CreatedAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	row := m.ToModel(in)
	assert.JSONEq(t, `["angle"]`, string(row.Options))
	assert.Equal(t, "completed", row.Status)
	assert.Equal(t, in, m.ToEntity(row))

	row.Options = []byte("not json")
	assert.Nil(t, m.ToEntity(row).Options)
	assert.Nil(t, m.ToModel(nil))
}

func TestUserPreferenceZeroUpdatedAt(t *testing.T) {
	m := NewUserPreferenceMapper()
	p := m.ToEntity(m.ToModel(&entity.UserPreference{UserID: 1, Language: "fa"}))
	assert.Nil(t, p.UpdatedAt)
	assert.Equal(t, "fa", p.Language)
}
