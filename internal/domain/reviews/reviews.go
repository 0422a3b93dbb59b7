package reviews

import "time"

const (
	MinScore = 1
	MaxScore = 10
)

type Review struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TitleID  uint      `gorm:"column:title_id;not null;uniqueIndex:idx_review_title_author" json:"-"`
	AuthorID uint      `gorm:"column:author_id;not null;uniqueIndex:idx_review_title_author;index" json:"-"`
	Text     string    `gorm:"column:text;type:text;not null" json:"text"`
	Score    int       `gorm:"column:score;not null" json:"score"`
	PubDate  time.Time `gorm:"column:pub_date;not null;index" json:"pub_date"`

	// Author is the username, filled by list/get queries.
	Author string `gorm:"->;column:author;-:migration" json:"author"`
}

func (Review) TableName() string { return "reviews" }

func ValidScore(s int) bool { return s >= MinScore && s <= MaxScore }

type Comment struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ReviewID uint      `gorm:"column:review_id;not null;index" json:"-"`
	AuthorID uint      `gorm:"column:author_id;not null;index" json:"-"`
	Text     string    `gorm:"column:text;type:text;not null" json:"text"`
	PubDate  time.Time `gorm:"column:pub_date;not null;index" json:"pub_date"`

	Author string `gorm:"->;column:author;-:migration" json:"author"`
}

func (Comment) TableName() string { return "comments" }
