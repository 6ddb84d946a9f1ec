package model

import (
	"time"
)

// 所有表共用的字段，ID统一用uint64；Version在每次更新时+1，删除一律是物理删除
type BaseModel struct {
	ID        uint64 `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int `gorm:"not null;default:1"`
}
