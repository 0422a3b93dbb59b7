package catalog

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	Name string `gorm:"column:name;size:256;not null;index" json:"name"`
	Slug string `gorm:"column:slug;size:50;uniqueIndex;not null" json:"slug"`
}

func (Category) TableName() string { return "categories" }

type Genre struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	Name string `gorm:"column:name;size:256;not null;index" json:"name"`
	Slug string `gorm:"column:slug;size:50;uniqueIndex;not null" json:"slug"`
}

func (Genre) TableName() string { return "genres" }
