package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"noteria/backend/models"
	"noteria/backend/services"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

func RegisterAuthRoutes(group *gin.RouterGroup, authService services.AuthServiceInterface) {
	auth := group.Group("/auth")
	{
		auth.POST("/signup", func(c *gin.Context) { Signup(c, authService) })
		auth.POST("/login", func(c *gin.Context) { Login(c, authService) })
	}
}

func Signup(c *gin.Context, authService services.AuthServiceInterface) {
	var request credentialsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, err)
		return
	}

	user, token, err := authService.Signup(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, authResponse{Message: "User created successfully", Token: token, User: user})
}

func Login(c *gin.Context, authService services.AuthServiceInterface) {
	var request credentialsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, err)
		return
	}

	user, token, err := authService.Login(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, authResponse{Message: "Login successful", Token: token, User: user})
}
