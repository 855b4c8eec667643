package entities

import "time"

type Book struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Title           string `gorm:"index;size:200" json:"title"`
	Author          string `gorm:"index;size:100" json:"author"`
	ISBN            string `gorm:"index;size:50" json:"isbn,omitempty"`
	Description     string `gorm:"size:500" json:"description,omitempty"`
	PublicationYear int    `json:"publication_year,omitempty"`
	Publisher       string `gorm:"size:100" json:"publisher,omitempty"`
	PageCount       *int   `json:"page_count,omitempty"`
	Genre           string `gorm:"size:50" json:"genre,omitempty"`
	CoverURL        string `gorm:"size:2048" json:"cover_url,omitempty"`

	// OwnerID records which user first added the book to the catalog.
	// It is historical information, not a display relationship.
	OwnerID *uint `gorm:"index" json:"owner_id,omitempty"`

	IsActive  bool      `gorm:"index;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}
