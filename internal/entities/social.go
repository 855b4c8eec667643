package entities

import "time"

type Quote struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Content    string `gorm:"size:1000;not null" json:"content"`
	Author     string `gorm:"size:100" json:"author,omitempty"`
	Source     string `gorm:"size:200" json:"source,omitempty"`
	PageNumber int    `json:"page_number,omitempty"`
	Notes      string `gorm:"size:500" json:"notes,omitempty"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	BookID uint `gorm:"index;not null" json:"book_id"`

	IsActive  bool      `gorm:"index;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Book Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Quote) TableName() string {
	return "quotes"
}

type Review struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Content string `gorm:"size:2000;not null" json:"content"`
	Rating  int    `gorm:"not null" json:"rating"`
	Title   string `gorm:"size:500" json:"title,omitempty"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	BookID uint `gorm:"index;not null" json:"book_id"`

	IsActive  bool      `gorm:"index;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Book Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}
