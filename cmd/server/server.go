package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dkorchagin/staff-directory/internal/config"
	"github.com/dkorchagin/staff-directory/internal/database"
	"github.com/dkorchagin/staff-directory/internal/handlers"
	"github.com/dkorchagin/staff-directory/internal/services"
)

type Server struct {
	Router *gin.Engine
	DB     *database.Database
	UsersH *handlers.UserHandler
	cfg    *config.Config
}

func NewServer() *Server {
	cfg := config.Load()
	configureLogging(cfg)

	db, err := database.Connect(cfg)
	if err != nil {
		logrus.Fatalf("Postgres connect failed: %v", err)
	}

	userService := services.NewUserService(db, cfg.BcryptCost)
	usersH := handlers.NewUserHandler(userService)

	router := gin.New()
	router.Use(gin.Recovery())
	APIEndpoints(router, usersH)

	return &Server{
		Router: router,
		DB:     db,
		UsersH: usersH,
		cfg:    cfg,
	}
}

func (s *Server) Run() {
	logrus.WithField("port", s.cfg.Port).Info("server starting")
	if err := s.Router.Run(":" + s.cfg.Port); err != nil {
		logrus.Fatalf("Server run error: %v", err)
	}
}

func configureLogging(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.JSONFormatter{})
}
