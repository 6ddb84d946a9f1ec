package model

// 用户对电影的喜欢/不喜欢，(movie_id, user_id)联合主键保证一个用户对一部电影只有一条记录
type MovieUserLike struct {
	MovieID uint64 `gorm:"primaryKey;autoIncrement:false"`
	UserID  uint64 `gorm:"primaryKey;autoIncrement:false"`
	IsLike  bool   `gorm:"not null"`

	Movie Movie `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	User  User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (MovieUserLike) TableName() string {
	return "movie_user_likes"
}

// All 按依赖顺序列出需要迁移的模型
func All() []any {
	return []any{&User{}, &Director{}, &Genre{}, &MovieDetail{}, &Movie{}, &MovieUserLike{}}
}
