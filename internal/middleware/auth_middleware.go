package middleware

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"go-payroll/internal/domain"
	"go-payroll/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by access tokens. Tokens are issued by the external
// identity service; payrollctl can mint one for local use.
type Claims struct {
	UserID     string `json:"user_id"`
	EmployeeID int64  `json:"employee_id,omitempty"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

func IssueToken(secret, issuer string, claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.Issuer = issuer
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	claims.Subject = claims.UserID
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found || tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			abortWith(c, ErrTokenMissing)
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWith(c, ErrTokenExpired)
				return
			}
			abortWith(c, ErrInvalidToken)
			return
		}

		if claims.UserID == "" || !domain.IsKnownRole(claims.Role) {
			abortWith(c, ErrInvalidToken)
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		if claims.EmployeeID > 0 {
			c.Set("employee_id", claims.EmployeeID)
		}

		ctx := contextutil.WithActor(c.Request.Context(), contextutil.Actor{
			UserID:     claims.UserID,
			EmployeeID: claims.EmployeeID,
			Role:       claims.Role,
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// ActorEmployeeID returns the employee id bound to the token, if any.
func ActorEmployeeID(c *gin.Context) (int64, bool) {
	v, ok := c.Get("employee_id")
	if !ok {
		return 0, false
	}
	switch id := v.(type) {
	case int64:
		return id, id > 0
	case string:
		n, err := strconv.ParseInt(id, 10, 64)
		return n, err == nil && n > 0
	}
	return 0, false
}
