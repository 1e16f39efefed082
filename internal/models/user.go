package models

import (
	"time"
)

type User struct {
	UserID    uint      `gorm:"column:user_id;primaryKey" json:"user_id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	Age       int       `gorm:"not null" json:"age"`
	Country   string    `gorm:"not null" json:"country"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// UserForm is the registration and profile-update form body.
type UserForm struct {
	Username string `form:"user-name" binding:"required"`
	Password string `form:"psw" binding:"required"`
	Age      int    `form:"age" binding:"gte=0,lte=150"`
	Country  string `form:"country" binding:"required"`
}

type LoginForm struct {
	Username string `form:"user-name" binding:"required"`
	Password string `form:"psw" binding:"required"`
}
