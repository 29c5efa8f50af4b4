package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dkorchagin/staff-directory/internal/models"
)

// userColumns is the outward projection: every column except the password
// hash. Lookups that need the hash (authentication) select the full row.
const userColumns = "username, firstname, lastname, salary, age, registerday, signintime"

func (d *Database) CreateUser(ctx context.Context, user *models.User) error {
	return d.db.WithContext(ctx).Create(user).Error
}

// GetUserByUsername returns the full row, password hash included.
func (d *Database) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := models.User{}
	if err := d.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) UpdateSignInTime(ctx context.Context, username string, t time.Time) error {
	return d.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Update("signintime", t).Error
}

func (d *Database) ListAllUsers(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	err := d.db.WithContext(ctx).
		Select(userColumns).
		Order("registerday DESC, username ASC").
		Find(&users).Error
	return users, err
}

// ListUsersByName filters on whichever name fragments are non-empty,
// case-insensitively. The caller guarantees at least one is set.
func (d *Database) ListUsersByName(ctx context.Context, firstname, lastname string) ([]models.User, error) {
	q := d.db.WithContext(ctx).Model(&models.User{}).Select(userColumns)
	if firstname != "" {
		q = q.Where("LOWER(firstname) LIKE ?", "%"+strings.ToLower(firstname)+"%")
	}
	if lastname != "" {
		q = q.Where("LOWER(lastname) LIKE ?", "%"+strings.ToLower(lastname)+"%")
	}
	users := make([]models.User, 0)
	err := q.Order("firstname ASC, lastname ASC, username ASC").Find(&users).Error
	return users, err
}

func (d *Database) ListUsersBySalaryRange(ctx context.Context, min, max *float64) ([]models.User, error) {
	q := d.db.WithContext(ctx).Model(&models.User{}).Select(userColumns)
	if min != nil {
		q = q.Where("salary >= ?", *min)
	}
	if max != nil {
		q = q.Where("salary <= ?", *max)
	}
	users := make([]models.User, 0)
	err := q.Order("salary ASC, username ASC").Find(&users).Error
	return users, err
}

func (d *Database) ListUsersByAgeRange(ctx context.Context, min, max *int) ([]models.User, error) {
	q := d.db.WithContext(ctx).Model(&models.User{}).Select(userColumns)
	if min != nil {
		q = q.Where("age >= ?", *min)
	}
	if max != nil {
		q = q.Where("age <= ?", *max)
	}
	users := make([]models.User, 0)
	err := q.Order("age ASC, username ASC").Find(&users).Error
	return users, err
}

func (d *Database) ListUsersRegisteredAfter(ctx context.Context, after time.Time) ([]models.User, error) {
	users := make([]models.User, 0)
	err := d.db.WithContext(ctx).
		Select(userColumns).
		Where("registerday > ?", after).
		Order("registerday ASC, username ASC").
		Find(&users).Error
	return users, err
}

// ListUsersRegisteredSameDay returns users whose registerday falls inside
// [start, end), ordered by username only.
func (d *Database) ListUsersRegisteredSameDay(ctx context.Context, start, end time.Time) ([]models.User, error) {
	users := make([]models.User, 0)
	err := d.db.WithContext(ctx).
		Select(userColumns).
		Where("registerday >= ? AND registerday < ?", start, end).
		Order("username ASC").
		Find(&users).Error
	return users, err
}

// ListUsersRegisteredToday takes the same [start, end) bounds but keeps the
// registration-time ordering.
func (d *Database) ListUsersRegisteredToday(ctx context.Context, start, end time.Time) ([]models.User, error) {
	users := make([]models.User, 0)
	err := d.db.WithContext(ctx).
		Select(userColumns).
		Where("registerday >= ? AND registerday < ?", start, end).
		Order("registerday ASC, username ASC").
		Find(&users).Error
	return users, err
}

func (d *Database) ListUsersNeverSignedIn(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	err := d.db.WithContext(ctx).
		Select(userColumns).
		Where("signintime IS NULL").
		Order("registerday ASC, username ASC").
		Find(&users).Error
	return users, err
}

// IsDuplicateKey reports whether err is the store's uniqueness violation.
// The message checks cover drivers that predate gorm's error translation.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry")
}
