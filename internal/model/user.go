package model

import "fmt"

// Role 数字越小权限越大
type Role int

const (
	RoleAdmin Role = iota
	RolePaidUser
	RoleUser
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RolePaidUser:
		return "paidUser"
	case RoleUser:
		return "user"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

func (r Role) Valid() bool {
	return r >= RoleAdmin && r <= RoleUser
}

type User struct {
	BaseModel
	Email    string `gorm:"size:255;uniqueIndex;not null"`
	Password string `gorm:"not null" json:"-"` // bcrypt哈希，永远不序列化
	// 不加default标签：RoleAdmin是零值，带default会被gorm当成“没填”
	Role Role `gorm:"not null"`
}

func (User) TableName() string {
	return "users"
}
