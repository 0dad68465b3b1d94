package models

import (
	"encoding/json"
	"time"
)

// DateOnly is the layout for calendar dates crossing the API and storage
// boundary. All scheduling comparisons happen at day granularity.
const DateOnly = "2006-01-02"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

type HabitStatus string

const (
	HabitStatusActive   HabitStatus = "active"
	HabitStatusArchived HabitStatus = "archived"
)

type CompletionType string

const (
	CompletionSimple CompletionType = "simple"
	CompletionCount  CompletionType = "count"
)

type User struct {
	ID          string    `json:"id"`
	OIDCSubject string    `json:"-"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Category struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	CreatedByUserID string    `json:"created_by_user_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// Habit is a recurring activity. CreatedAt doubles as the recurrence epoch:
// no date before it is ever scheduled, and all interval arithmetic is
// measured from it.
type Habit struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Description     string      `json:"description,omitempty"`
	CategoryID      *string     `json:"category_id,omitempty"`
	Color           string      `json:"color,omitempty"`
	Tags            []string    `json:"tags,omitempty"`
	Status          HabitStatus `json:"status"`
	CreatedByUserID string      `json:"created_by_user_id"`

	CompletionType CompletionType `json:"completion_type"`
	TargetCount    int            `json:"target_count,omitempty"`

	Recurrence Rule `json:"recurrence"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Completion records one logged completion of a habit on a calendar date.
// Multiple records may exist for the same (habit, date); aggregation sums
// them rather than assuming one row per day.
type Completion struct {
	ID            string    `json:"id"`
	HabitID       string    `json:"habit_id"`
	CompletedDate time.Time `json:"-"`
	Count         int       `json:"count"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (completion Completion) MarshalJSON() ([]byte, error) {
	type alias Completion
	return json.Marshal(struct {
		alias
		CompletedDate string `json:"completed_date"`
	}{alias(completion), completion.CompletedDate.Format(DateOnly)})
}

type APIToken struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	TokenHash       string     `json:"-"`
	CreatedByUserID string     `json:"created_by_user_id"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
