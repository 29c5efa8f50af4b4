package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dkorchagin/staff-directory/internal/database"
	"github.com/dkorchagin/staff-directory/internal/models"
	"github.com/dkorchagin/staff-directory/internal/services"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	service := services.NewUserService(database.NewDatabase(db), bcrypt.MinCost)
	h := NewUserHandler(service)

	r := gin.New()
	users := r.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.POST("/register", h.Register)
		users.POST("/signin", h.SignIn)
		users.GET("/by-name", h.SearchByName)
		users.GET("/by-username/:username", h.GetByUsername)
		users.GET("/by-salary", h.SearchBySalary)
		users.GET("/by-age", h.SearchByAge)
		users.GET("/registered-after/:username", h.RegisteredAfter)
		users.GET("/never-signed-in", h.NeverSignedIn)
		users.GET("/registered-same-day/:username", h.RegisteredSameDay)
		users.GET("/registered-today", h.RegisteredToday)
	}
	return r
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req, err := http.NewRequest(method, path, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func registerUser(t *testing.T, r *gin.Engine, username string) {
	t.Helper()
	body := fmt.Sprintf(
		`{"username":%q,"password":"secret","firstname":"First","lastname":"Last","salary":5000,"age":"30"}`,
		username)
	w, _ := doRequest(t, r, http.MethodPost, "/users/register", body)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestRegisterEndpoint(t *testing.T) {
	r := setupRouter(t)

	// salary as a JSON number and age as a numeric string both coerce
	w, env := doRequest(t, r, http.MethodPost, "/users/register",
		`{"username":"alice","password":"pw","firstname":"Alice","lastname":"Liddell","salary":1234.5,"age":"28"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var user map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, 1234.5, user["salary"])
	assert.NotContains(t, user, "password")
	assert.Nil(t, user["signintime"])
}

func TestRegisterEndpointValidation(t *testing.T) {
	r := setupRouter(t)

	w, env := doRequest(t, r, http.MethodPost, "/users/register",
		`{"username":"alice","password":"pw","firstname":"","lastname":"Liddell","salary":1,"age":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "username, password, firstname, and lastname are required fields.", env.Error)

	w, env = doRequest(t, r, http.MethodPost, "/users/register", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, env.Error)
}

func TestRegisterEndpointConflict(t *testing.T) {
	r := setupRouter(t)
	registerUser(t, r, "alice")

	w, env := doRequest(t, r, http.MethodPost, "/users/register",
		`{"username":"alice","password":"pw","firstname":"A","lastname":"B","salary":1,"age":1}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "username is already registered.", env.Error)
}

func TestSignInEndpoint(t *testing.T) {
	r := setupRouter(t)
	registerUser(t, r, "alice")

	w, env := doRequest(t, r, http.MethodPost, "/users/signin",
		`{"username":"alice","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var user map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.NotNil(t, user["signintime"])

	w, env = doRequest(t, r, http.MethodPost, "/users/signin",
		`{"username":"alice","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid username or password", env.Error)

	w, env = doRequest(t, r, http.MethodPost, "/users/signin",
		`{"username":"ghost","password":"secret"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid username or password", env.Error)

	w, _ = doRequest(t, r, http.MethodPost, "/users/signin", `{"username":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListUsersEndpoint(t *testing.T) {
	r := setupRouter(t)

	w, env := doRequest(t, r, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", string(env.Data))

	registerUser(t, r, "alice")
	w, env = doRequest(t, r, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, w.Code)

	var users []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &users))
	assert.Len(t, users, 1)
}

func TestGetByUsernameEndpoint(t *testing.T) {
	r := setupRouter(t)
	registerUser(t, r, "alice")

	w, _ := doRequest(t, r, http.MethodGet, "/users/by-username/alice", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := doRequest(t, r, http.MethodGet, "/users/by-username/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", env.Error)
}

func TestNameSearchEndpoint(t *testing.T) {
	r := setupRouter(t)
	registerUser(t, r, "alice")

	w, _ := doRequest(t, r, http.MethodGet, "/users/by-name?first=fir", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := doRequest(t, r, http.MethodGet, "/users/by-name", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Provide at least a first or last name to search.", env.Error)
}

func TestRangeEndpoints(t *testing.T) {
	r := setupRouter(t)
	registerUser(t, r, "alice")

	// inverted bounds succeed
	w, env := doRequest(t, r, http.MethodGet, "/users/by-salary?min=9000&max=1000", "")
	require.Equal(t, http.StatusOK, w.Code)
	var users []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &users))
	assert.Len(t, users, 1)

	w, env = doRequest(t, r, http.MethodGet, "/users/by-salary", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Provide at least a minimum or maximum salary.", env.Error)

	w, env = doRequest(t, r, http.MethodGet, "/users/by-age?min=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "min age must be a valid integer.", env.Error)

	// present-but-empty bound still fails numeric validation
	w, _ = doRequest(t, r, http.MethodGet, "/users/by-age?min=&max=50", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReferenceUserEndpoints(t *testing.T) {
	r := setupRouter(t)
	registerUser(t, r, "alice")

	w, _ := doRequest(t, r, http.MethodGet, "/users/registered-after/alice", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := doRequest(t, r, http.MethodGet, "/users/registered-after/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Reference user not found.", env.Error)

	w, env = doRequest(t, r, http.MethodGet, "/users/registered-same-day/alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	var users []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &users))
	assert.Len(t, users, 1) // includes the reference user

	w, _ = doRequest(t, r, http.MethodGet, "/users/registered-same-day/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuickFilterEndpoints(t *testing.T) {
	r := setupRouter(t)
	registerUser(t, r, "alice")

	w, env := doRequest(t, r, http.MethodGet, "/users/never-signed-in", "")
	require.Equal(t, http.StatusOK, w.Code)
	var users []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &users))
	assert.Len(t, users, 1)

	w, env = doRequest(t, r, http.MethodGet, "/users/registered-today", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &users))
	assert.Len(t, users, 1)
}
