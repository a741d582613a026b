package model

import "time"

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// CanSell reports whether the role may create listings. Admin is a
// superset of seller.
func (r Role) CanSell() bool {
	return r == RoleSeller || r == RoleAdmin
}

type User struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement"`
	Email          string    `gorm:"size:255;not null;uniqueIndex:uk_users_email"`
	FullName       string    `gorm:"column:full_name;size:255"`
	HashedPassword string    `gorm:"column:hashed_password;size:255;not null"`
	Role           Role      `gorm:"size:32;not null;default:buyer"`
	IsActive       bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
