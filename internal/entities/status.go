package entities

import "time"

type ReadingStatus string

const (
	StatusWantToRead       ReadingStatus = "want_to_read"
	StatusCurrentlyReading ReadingStatus = "currently_reading"
	StatusRead             ReadingStatus = "read"
)

// Valid reports whether s is one of the three known reading statuses.
func (s ReadingStatus) Valid() bool {
	switch s {
	case StatusWantToRead, StatusCurrentlyReading, StatusRead:
		return true
	}
	return false
}

// MaxStatusNotesLength caps the free-text notes on a status row. Upstream
// callers are expected to clamp their own fields; notes are clamped here
// because progress updates accept arbitrary text.
const MaxStatusNotesLength = 500

// UserBookStatus is the per-(user, book) reading state. At most one row per
// pair may be active at a time; removal flips IsActive off and a later re-add
// reactivates the same row instead of inserting a duplicate.
type UserBookStatus struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index:idx_user_book;not null" json:"user_id"`
	BookID uint `gorm:"index:idx_user_book;not null" json:"book_id"`

	Status              ReadingStatus `gorm:"size:20;not null" json:"status"`
	StartedReadingDate  *time.Time    `json:"started_reading_date,omitempty"`
	FinishedReadingDate *time.Time    `json:"finished_reading_date,omitempty"`
	CurrentPage         *int          `json:"current_page,omitempty"`
	Notes               string        `gorm:"size:500" json:"notes,omitempty"`

	IsActive  bool      `gorm:"index;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Book Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (UserBookStatus) TableName() string {
	return "user_book_statuses"
}
