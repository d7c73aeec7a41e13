package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LLM operations recorded in the audit log
const (
	OperationParseRecipe   = "parse_recipe"
	OperationSubstitutions = "substitutions"
)

// LLMCall is an audit record of a single prompt sent to a provider
type LLMCall struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	Operation   string    `gorm:"size:50;not null;index" json:"operation"`
	Provider    string    `gorm:"size:50;not null" json:"provider"`
	Model       string    `gorm:"size:100" json:"model"`
	PromptChars int       `json:"prompt_chars"`
	Response    string    `gorm:"type:text" json:"response"`
	Success     bool      `json:"success"`
	Error       string    `gorm:"type:text" json:"error,omitempty"`
	DurationMS  int64     `json:"duration_ms"`
}

// BeforeCreate assigns an ID when the caller did not
func (c *LLMCall) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
