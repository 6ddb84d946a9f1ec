package model

// Movie 电影：详情1:1，导演N:1，类型N:N，创建者N:1
type Movie struct {
	BaseModel
	Title string `gorm:"size:255;uniqueIndex;not null"`

	DetailID uint64      `gorm:"uniqueIndex;not null"`
	Detail   MovieDetail `gorm:"foreignKey:DetailID"`

	DirectorID uint64   `gorm:"not null;index"`
	Director   Director `gorm:"foreignKey:DirectorID"`

	Genres []Genre `gorm:"many2many:movie_genres"`

	LikeCount     int64 `gorm:"not null;default:0"`
	DislikeCount  int64 `gorm:"not null;default:0"`
	MovieFilePath string

	CreatorID *uint64 `gorm:"index"`
	Creator   *User   `gorm:"foreignKey:CreatorID"`
}

func (Movie) TableName() string {
	return "movies"
}

type MovieDetail struct {
	ID     uint64 `gorm:"primarykey"`
	Detail string `gorm:"type:text;not null"`
}

func (MovieDetail) TableName() string {
	return "movie_details"
}
