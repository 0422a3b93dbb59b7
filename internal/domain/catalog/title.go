package catalog

type Title struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;size:256;not null;index" json:"name"`
	Year        int       `gorm:"column:year;not null;index" json:"year"`
	Description string    `gorm:"column:description;type:text;not null;default:''" json:"description"`
	CategoryID  *uint     `gorm:"column:category_id;index" json:"-"`
	Category    *Category `gorm:"foreignKey:CategoryID" json:"category"`
	Genres      []Genre   `gorm:"many2many:title_genre;joinForeignKey:TitleID;joinReferences:GenreID" json:"genre"`
}

func (Title) TableName() string { return "titles" }

// TitleGenre is the join row between titles and genres.
type TitleGenre struct {
	TitleID uint `gorm:"column:title_id;primaryKey"`
	GenreID uint `gorm:"column:genre_id;primaryKey;index"`
}

func (TitleGenre) TableName() string { return "title_genre" }

// TitleWithRating is a title as listed, with the rounded mean review score.
type TitleWithRating struct {
	Title
	Rating *int `gorm:"-" json:"rating"`
}
