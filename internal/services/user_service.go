package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dkorchagin/staff-directory/internal/database"
	"github.com/dkorchagin/staff-directory/internal/models"
)

// UserService owns validation, credential hashing, and query semantics for
// the user directory. Handlers stay thin and call into it.
type UserService struct {
	db         *database.Database
	bcryptCost int
	now        func() time.Time
}

func NewUserService(db *database.Database, bcryptCost int) *UserService {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{db: db, bcryptCost: bcryptCost, now: time.Now}
}

// RegisterPayload carries the raw form values; numeric fields arrive as
// strings and are coerced here, not in the transport layer.
type RegisterPayload struct {
	Username  string
	Password  string
	Firstname string
	Lastname  string
	Salary    string
	Age       string
}

type SignInPayload struct {
	Username string
	Password string
}

// AuthResult is the outcome of an authentication attempt. Bad credentials
// are a normal outcome (Success=false), never an error.
type AuthResult struct {
	Success bool
	User    *models.User
}

// Register validates the payload, hashes the password, and inserts the
// record. Duplicate usernames are detected from the store's uniqueness
// violation rather than a pre-check, so there is no race window.
func (s *UserService) Register(ctx context.Context, p RegisterPayload) (*models.User, error) {
	username := strings.TrimSpace(p.Username)
	firstname := strings.TrimSpace(p.Firstname)
	lastname := strings.TrimSpace(p.Lastname)
	if username == "" || p.Password == "" || firstname == "" || lastname == "" {
		return nil, validationErr("username, password, firstname, and lastname are required fields.")
	}

	salary, err := strconv.ParseFloat(strings.TrimSpace(p.Salary), 64)
	if err != nil {
		return nil, validationErr("salary must be a valid number.")
	}
	age, err := strconv.Atoi(strings.TrimSpace(p.Age))
	if err != nil {
		return nil, validationErr("age must be a valid integer.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), s.bcryptCost)
	if err != nil {
		return nil, internalErr(err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Firstname:    firstname,
		Lastname:     lastname,
		Salary:       salary,
		Age:          age,
		RegisterDay:  s.now(),
	}

	if err := s.db.CreateUser(ctx, user); err != nil {
		if database.IsDuplicateKey(err) {
			return nil, conflictErr("username is already registered.")
		}
		return nil, internalErr(err)
	}

	logrus.WithField("username", username).Info("user registered")
	return s.GetUserByUsername(ctx, username)
}

// Authenticate checks the credentials and, on success, stamps signintime.
// Unknown username and wrong password are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, p SignInPayload) (*AuthResult, error) {
	username := strings.TrimSpace(p.Username)
	if username == "" || p.Password == "" {
		return nil, validationErr("username and password are required.")
	}

	user, err := s.db.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &AuthResult{}, nil
		}
		return nil, internalErr(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(p.Password)) != nil {
		logrus.WithField("username", username).Warn("failed sign-in attempt")
		return &AuthResult{}, nil
	}

	signInTime := s.now()
	if err := s.db.UpdateSignInTime(ctx, username, signInTime); err != nil {
		return nil, internalErr(err)
	}
	user.SignInTime = &signInTime
	user.PasswordHash = ""

	return &AuthResult{Success: true, User: user}, nil
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.db.ListAllUsers(ctx)
	if err != nil {
		return nil, internalErr(err)
	}
	return users, nil
}

// GetUserByUsername returns (nil, nil) when no record matches; absence is an
// outcome, not an error.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, validationErr("username is required.")
	}
	user, err := s.db.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, internalErr(err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *UserService) GetUsersByName(ctx context.Context, firstname, lastname string) ([]models.User, error) {
	firstname = strings.TrimSpace(firstname)
	lastname = strings.TrimSpace(lastname)
	if firstname == "" && lastname == "" {
		return nil, validationErr("Provide at least a first or last name to search.")
	}
	users, err := s.db.ListUsersByName(ctx, firstname, lastname)
	if err != nil {
		return nil, internalErr(err)
	}
	return users, nil
}

// GetUsersBySalaryRange accepts optional raw bounds (nil = absent). Inverted
// bounds are swapped, never rejected.
func (s *UserService) GetUsersBySalaryRange(ctx context.Context, minRaw, maxRaw *string) ([]models.User, error) {
	if minRaw == nil && maxRaw == nil {
		return nil, validationErr("Provide at least a minimum or maximum salary.")
	}

	var min, max *float64
	if minRaw != nil {
		v, err := strconv.ParseFloat(strings.TrimSpace(*minRaw), 64)
		if err != nil {
			return nil, validationErr("min salary must be a valid number.")
		}
		min = &v
	}
	if maxRaw != nil {
		v, err := strconv.ParseFloat(strings.TrimSpace(*maxRaw), 64)
		if err != nil {
			return nil, validationErr("max salary must be a valid number.")
		}
		max = &v
	}
	if min != nil && max != nil && *min > *max {
		min, max = max, min
	}

	users, err := s.db.ListUsersBySalaryRange(ctx, min, max)
	if err != nil {
		return nil, internalErr(err)
	}
	return users, nil
}

func (s *UserService) GetUsersByAgeRange(ctx context.Context, minRaw, maxRaw *string) ([]models.User, error) {
	if minRaw == nil && maxRaw == nil {
		return nil, validationErr("Provide at least a minimum or maximum age.")
	}

	var min, max *int
	if minRaw != nil {
		v, err := strconv.Atoi(strings.TrimSpace(*minRaw))
		if err != nil {
			return nil, validationErr("min age must be a valid integer.")
		}
		min = &v
	}
	if maxRaw != nil {
		v, err := strconv.Atoi(strings.TrimSpace(*maxRaw))
		if err != nil {
			return nil, validationErr("max age must be a valid integer.")
		}
		max = &v
	}
	if min != nil && max != nil && *min > *max {
		min, max = max, min
	}

	users, err := s.db.ListUsersByAgeRange(ctx, min, max)
	if err != nil {
		return nil, internalErr(err)
	}
	return users, nil
}

func (s *UserService) GetUsersRegisteredAfter(ctx context.Context, referenceUsername string) ([]models.User, error) {
	ref, err := s.resolveReferenceUser(ctx, referenceUsername)
	if err != nil {
		return nil, err
	}
	users, err := s.db.ListUsersRegisteredAfter(ctx, ref.RegisterDay)
	if err != nil {
		return nil, internalErr(err)
	}
	return users, nil
}

// GetUsersRegisteredSameDay matches on calendar date, ignoring time-of-day.
// The reference user is included in the result.
func (s *UserService) GetUsersRegisteredSameDay(ctx context.Context, referenceUsername string) ([]models.User, error) {
	ref, err := s.resolveReferenceUser(ctx, referenceUsername)
	if err != nil {
		return nil, err
	}
	start, end := dayBounds(ref.RegisterDay)
	users, err := s.db.ListUsersRegisteredSameDay(ctx, start, end)
	if err != nil {
		return nil, internalErr(err)
	}
	return users, nil
}

func (s *UserService) GetUsersNeverSignedIn(ctx context.Context) ([]models.User, error) {
	users, err := s.db.ListUsersNeverSignedIn(ctx)
	if err != nil {
		return nil, internalErr(err)
	}
	return users, nil
}

func (s *UserService) GetUsersRegisteredToday(ctx context.Context) ([]models.User, error) {
	start, end := dayBounds(s.now())
	users, err := s.db.ListUsersRegisteredToday(ctx, start, end)
	if err != nil {
		return nil, internalErr(err)
	}
	return users, nil
}

func (s *UserService) resolveReferenceUser(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, validationErr("username is required.")
	}
	user, err := s.db.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("Reference user not found.")
		}
		return nil, internalErr(err)
	}
	return user, nil
}

// dayBounds returns the [startOfDay, nextDay) window around t in server-local
// time, which keeps calendar-date filters portable across SQL dialects.
func dayBounds(t time.Time) (time.Time, time.Time) {
	t = t.Local()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
