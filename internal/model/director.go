package model

import "time"

type Director struct {
	BaseModel
	Name        string    `gorm:"size:255;not null"`
	Dob         time.Time `gorm:"not null"`
	Nationality string    `gorm:"size:100;not null"`
}

func (Director) TableName() string {
	return "directors"
}
