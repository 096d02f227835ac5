package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusreg/registrar/internal/app/models/dto"
	"github.com/campusreg/registrar/internal/app/repositories"
	"github.com/campusreg/registrar/internal/pkg/auth"
)

// Context keys set by JWTAuth.
const (
	ContextStudentID     = "studentId"
	ContextCurrentRecord = "currentRecord"
)

// AuthMiddleware resolves the authenticated student and their current
// academic record. The registration engine itself never touches tokens; it
// receives the record this middleware loads.
type AuthMiddleware struct {
	jwtService *auth.JWTService
	recordRepo *repositories.RecordRepository
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, recordRepo *repositories.RecordRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		recordRepo: recordRepo,
	}
}

// JWTAuth validates the bearer token and stores the student id in the context.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
					WithDetails("Authorization header missing")))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token format")))
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			code := dto.ErrorCodeInvalidToken
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrorCodeExpiredToken
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(code, "Invalid or expired token")))
			return
		}

		c.Set(ContextStudentID, claims.StudentID)
		c.Next()
	}
}

// CurrentRecordRequired loads the student's current academic record and
// aborts with 404 when none exists. Must run after JWTAuth.
func (m *AuthMiddleware) CurrentRecordRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		studentID := c.GetInt64(ContextStudentID)
		if studentID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
			return
		}

		record, err := m.recordRepo.GetCurrentByStudent(c.Request.Context(), studentID)
		if err != nil {
			HandleAPIError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextCurrentRecord, record)
		c.Next()
	}
}
