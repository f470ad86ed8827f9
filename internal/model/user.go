package model

import (
	"time"
)

type User struct {
	ID          uint64     `gorm:"primaryKey"`
	Email       string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_email"`
	Name        string     `gorm:"type:varchar(255);not null"`
	Password    string     `gorm:"type:varchar(255);not null"`
	Photo       string     `gorm:"type:varchar(255);not null;default:''"`
	IsModerator bool       `gorm:"not null;default:0;index:idx_moderator"`
	IsBan       bool       `gorm:"not null;default:0"`
	IsDelete    bool       `gorm:"not null;default:0"`
	ExpiresAt   *time.Time `gorm:"default:null"`
	RegTime     time.Time  `gorm:"not null"`
}

func (User) TableName() string {
	return "users"
}

// IsEligibleModerator 启用、未注销、未过期的审核员才会被分配帖子
func (u *User) IsEligibleModerator(now time.Time) bool {
	if !u.IsModerator || u.IsBan || u.IsDelete {
		return false
	}
	return u.ExpiresAt == nil || u.ExpiresAt.After(now)
}

// Roles JWT 中携带的角色
func (u *User) Roles() []string {
	if u.IsModerator {
		return []string{RoleUser, RoleModerator}
	}
	return []string{RoleUser}
}

const (
	RoleUser      = "USER"
	RoleModerator = "MODERATOR"
)
