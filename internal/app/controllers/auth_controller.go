package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusreg/registrar/internal/app/models/dto"
	"github.com/campusreg/registrar/internal/app/repositories"
	"github.com/campusreg/registrar/internal/middleware"
	"github.com/campusreg/registrar/internal/pkg/apperrors"
	"github.com/campusreg/registrar/internal/pkg/auth"
)

// AuthController issues access tokens for students. Registration is the only
// authenticated surface; account management lives outside this service.
type AuthController struct {
	studentRepo *repositories.StudentRepository
	jwtService  *auth.JWTService
}

// NewAuthController creates a new AuthController
func NewAuthController(studentRepo *repositories.StudentRepository, jwtService *auth.JWTService) *AuthController {
	return &AuthController{
		studentRepo: studentRepo,
		jwtService:  jwtService,
	}
}

// Login handles student login
// @Summary Student login
// @Description Verifies credentials and issues a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Token issued"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid login data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	student, err := c.studentRepo.GetStudentByEmail(ctx.Request.Context(), req.Email)
	if err != nil {
		// Same response as a wrong password so accounts cannot be probed
		middleware.HandleAPIError(ctx, apperrors.ErrInvalidCredentials)
		return
	}

	if !auth.CheckPassword(student.PasswordHash, req.Password) {
		middleware.HandleAPIError(ctx, apperrors.ErrInvalidCredentials)
		return
	}

	token, expiresIn, err := c.jwtService.GenerateToken(student)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.LoginResponse{
		AccessToken: token,
		ExpiresIn:   expiresIn,
		TokenType:   "Bearer",
	}))
}
