package model

type Genre struct {
	BaseModel
	Name string `gorm:"size:100;uniqueIndex;not null"`
}

func (Genre) TableName() string {
	return "genres"
}
