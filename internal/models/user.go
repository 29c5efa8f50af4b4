package models

import (
	"time"
)

// User is the single persisted entity. The password hash is stored but never
// serialized; SignInTime stays nil until the first successful sign-in.
type User struct {
	Username     string     `gorm:"primaryKey;size:100" json:"username"`
	PasswordHash string     `gorm:"column:password;not null" json:"-"`
	Firstname    string     `gorm:"not null" json:"firstname"`
	Lastname     string     `gorm:"not null" json:"lastname"`
	Salary       float64    `gorm:"not null" json:"salary"`
	Age          int        `gorm:"not null" json:"age"`
	RegisterDay  time.Time  `gorm:"column:registerday;not null" json:"registerday"`
	SignInTime   *time.Time `gorm:"column:signintime" json:"signintime"`
}

func (User) TableName() string {
	return "users"
}
