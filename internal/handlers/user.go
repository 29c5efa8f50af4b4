package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dkorchagin/staff-directory/internal/handlers/dto"
	"github.com/dkorchagin/staff-directory/internal/services"
)

// UserHandler adapts HTTP requests to UserService calls. Responses follow
// the {"data": ...} / {"error": ...} envelope.
type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

var statusByKind = map[services.ErrorKind]int{
	services.KindValidation: http.StatusBadRequest,
	services.KindConflict:   http.StatusConflict,
	services.KindNotFound:   http.StatusNotFound,
	services.KindInternal:   http.StatusInternalServerError,
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

func respondError(c *gin.Context, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		logrus.WithError(err).Error("unclassified error reached the transport layer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unexpected server error"})
		return
	}

	if svcErr.Kind == services.KindInternal {
		logrus.WithError(svcErr.Unwrap()).Error("internal error")
	}

	status, ok := statusByKind[svcErr.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"error": svcErr.Message})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.GetAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, users)
}

func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}

	user, err := h.service.Register(c.Request.Context(), services.RegisterPayload{
		Username:  req.Username,
		Password:  req.Password,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Salary:    req.Salary.String(),
		Age:       req.Age.String(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, user)
}

func (h *UserHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}

	result, err := h.service.Authenticate(c.Request.Context(), services.SignInPayload{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if !result.Success {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}
	respondData(c, http.StatusOK, result.User)
}

func (h *UserHandler) SearchByName(c *gin.Context) {
	users, err := h.service.GetUsersByName(c.Request.Context(), c.Query("first"), c.Query("last"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, users)
}

func (h *UserHandler) GetByUsername(c *gin.Context) {
	user, err := h.service.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	respondData(c, http.StatusOK, user)
}

func (h *UserHandler) SearchBySalary(c *gin.Context) {
	users, err := h.service.GetUsersBySalaryRange(c.Request.Context(),
		optionalQuery(c, "min"), optionalQuery(c, "max"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, users)
}

func (h *UserHandler) SearchByAge(c *gin.Context) {
	users, err := h.service.GetUsersByAgeRange(c.Request.Context(),
		optionalQuery(c, "min"), optionalQuery(c, "max"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, users)
}

func (h *UserHandler) RegisteredAfter(c *gin.Context) {
	users, err := h.service.GetUsersRegisteredAfter(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, users)
}

func (h *UserHandler) RegisteredSameDay(c *gin.Context) {
	users, err := h.service.GetUsersRegisteredSameDay(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, users)
}

func (h *UserHandler) NeverSignedIn(c *gin.Context) {
	users, err := h.service.GetUsersNeverSignedIn(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, users)
}

func (h *UserHandler) RegisteredToday(c *gin.Context) {
	users, err := h.service.GetUsersRegisteredToday(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, users)
}

// optionalQuery distinguishes an absent query parameter from an empty one;
// an empty-but-present bound still goes through numeric validation.
func optionalQuery(c *gin.Context, key string) *string {
	if v, ok := c.GetQuery(key); ok {
		return &v
	}
	return nil
}
