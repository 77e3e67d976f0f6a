// Package storage implements sqlx-backed repositories over the postgres schema.
// Lookup misses are mapped to domain.ErrNotFound; other database errors are
// wrapped with operation context.
package storage

import "github.com/jmoiron/sqlx"

// Repositories bundles every repository over one shared connection pool.
type Repositories struct {
	Users        *UserRepo
	Applications *ApplicationRepo
	Reminders    *ReminderRepo
	Questions    *QuestionRepo
	Templates    *TemplateRepo
}

// New builds the repository set.
func New(db *sqlx.DB) *Repositories {
	return &Repositories{
		Users:        NewUserRepo(db),
		Applications: NewApplicationRepo(db),
		Reminders:    NewReminderRepo(db),
		Questions:    NewQuestionRepo(db),
		Templates:    NewTemplateRepo(db),
	}
}
