package main

import (
	"github.com/gin-gonic/gin"

	"github.com/dkorchagin/staff-directory/internal/handlers"
	"github.com/dkorchagin/staff-directory/internal/middleware"
)

func APIEndpoints(r *gin.Engine, usersH *handlers.UserHandler) {
	r.Use(middleware.RequestID(), middleware.AccessLog(), middleware.CORS())

	// browser client
	r.StaticFile("/", "./static/index.html")
	r.Static("/static", "./static")

	users := r.Group("/users")
	{
		users.GET("", usersH.ListUsers)
		users.POST("/register", usersH.Register)
		users.POST("/signin", usersH.SignIn)
		users.GET("/by-name", usersH.SearchByName)
		users.GET("/by-username/:username", usersH.GetByUsername)
		users.GET("/by-salary", usersH.SearchBySalary)
		users.GET("/by-age", usersH.SearchByAge)
		users.GET("/registered-after/:username", usersH.RegisteredAfter)
		users.GET("/never-signed-in", usersH.NeverSignedIn)
		users.GET("/registered-same-day/:username", usersH.RegisteredSameDay)
		users.GET("/registered-today", usersH.RegisteredToday)
	}
}
