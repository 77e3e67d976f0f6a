package domain

import (
	"database/sql"
	"time"
)

// Role of a registered user.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the root entity; identity is the Telegram-assigned id.
type User struct {
	TelegramID int64     `db:"telegram_id"`
	Username   string    `db:"username"`
	FullName   string    `db:"full_name"`
	Role       string    `db:"role"`
	CreatedAt  time.Time `db:"created_at"`
}

// DisplayName returns the best human-readable name available.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return "участник"
}

// ApplicationStatus enumerates admission application states.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// IsDecision reports whether the status is a terminal decision.
func (s ApplicationStatus) IsDecision() bool {
	return s == ApplicationApproved || s == ApplicationRejected
}

// Application tracks one admission request through pending → approved|rejected.
type Application struct {
	ID         int64             `db:"id"`
	UserID     int64             `db:"user_id"`
	Status     ApplicationStatus `db:"status"`
	ReviewerID sql.NullInt64     `db:"reviewer_id"`
	CreatedAt  time.Time         `db:"created_at"`
	ReviewedAt sql.NullTime      `db:"reviewed_at"`
}

// PendingApplication is a pending row joined with its owner's profile,
// as shown in the admin review list.
type PendingApplication struct {
	Application
	Username string `db:"username"`
	FullName string `db:"full_name"`
}

// ApplicationStats aggregates counts by status for the admin dashboard.
type ApplicationStats struct {
	Total    int `db:"total"`
	Pending  int `db:"pending"`
	Approved int `db:"approved"`
	Rejected int `db:"rejected"`
}

// Reminder is a durable one-shot scheduled nudge. Once SentAt is set or
// Cancelled is true the record is terminal and never fires.
type Reminder struct {
	ID          int64        `db:"id"`
	UserID      int64        `db:"user_id"`
	Kind        string       `db:"kind"`
	ScheduledAt time.Time    `db:"scheduled_at"`
	SentAt      sql.NullTime `db:"sent_at"`
	Cancelled   bool         `db:"cancelled"`
}

// QuestionStatus enumerates ticket states.
type QuestionStatus string

const (
	QuestionPending  QuestionStatus = "pending"
	QuestionAnswered QuestionStatus = "answered"
)

// Question is a user-submitted ticket awaiting an admin answer.
type Question struct {
	ID         int64          `db:"id"`
	UserID     int64          `db:"user_id"`
	Text       string         `db:"question_text"`
	Status     QuestionStatus `db:"status"`
	ReviewerID sql.NullInt64  `db:"reviewer_id"`
	Answer     sql.NullString `db:"answer_text"`
	CreatedAt  time.Time      `db:"created_at"`
	AnsweredAt sql.NullTime   `db:"answered_at"`
}

// PendingQuestion is a pending ticket joined with the asker's profile.
type PendingQuestion struct {
	Question
	Username string `db:"username"`
	FullName string `db:"full_name"`
}

// Template is a named unit of user-facing text with literal placeholder markers.
type Template struct {
	Key         string         `db:"template_key"`
	Content     string         `db:"content"`
	Description sql.NullString `db:"description"`
	UpdatedAt   time.Time      `db:"updated_at"`
	UpdatedBy   sql.NullInt64  `db:"updated_by"`
}

// TemplateRevision is an immutable snapshot of a template's prior content.
type TemplateRevision struct {
	ID          int64          `db:"id"`
	TemplateKey string         `db:"template_key"`
	Content     string         `db:"content"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
	CreatedBy   sql.NullInt64  `db:"created_by"`
}

// TemplateInfo is the key+description listing for the admin panel.
type TemplateInfo struct {
	Key         string         `db:"template_key"`
	Description sql.NullString `db:"description"`
	UpdatedAt   time.Time      `db:"updated_at"`
}
