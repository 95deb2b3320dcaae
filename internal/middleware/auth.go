package middleware

import (
	"net/http"
	"strings"

	"github.com/EeLin02/6005CEM--Security-Group4/internal/models"
	"github.com/EeLin02/6005CEM--Security-Group4/internal/repositories"
	"github.com/EeLin02/6005CEM--Security-Group4/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionCookieName is the HttpOnly cookie carrying the signed session token.
const SessionCookieName = "jwtToken"

// SessionMiddleware verifies the session token on protected requests and
// loads the account into the request context. Every rejection uses the same
// response so expired, tampered and malformed tokens are indistinguishable.
func SessionMiddleware(tokens *services.TokenService, userRepo repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			rejectSession(c)
			return
		}

		claims, err := tokens.Verify(tokenStr)
		if err != nil {
			rejectSession(c)
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			rejectSession(c)
			return
		}

		user, err := userRepo.GetByID(userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"message": "Server error",
			})
			return
		}
		if user == nil {
			rejectSession(c)
			return
		}

		c.Set("currentUser", user)
		c.Set("userID", user.ID)
		c.Set("userRole", user.Role)
		c.Next()
	}
}

// TeacherOnly gates course mutations behind the teacher role.
func TeacherOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get("userRole")
		if !exists {
			rejectSession(c)
			return
		}
		role, ok := roleVal.(models.UserRole)
		if !ok || role != models.RoleTeacher {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "Only teachers can perform this action.",
			})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the account loaded by SessionMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get("currentUser")
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

func rejectSession(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message": "Invalid or expired session.",
	})
}
