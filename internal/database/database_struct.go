package database

import "gorm.io/gorm"

// Database wraps the gorm handle; all store access goes through its methods.
type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}
