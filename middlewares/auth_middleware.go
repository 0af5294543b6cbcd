package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/beartracks/models"
	"github.com/yeremiapane/beartracks/utils"
)

// Context keys set by AuthMiddleware.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxToken  = "token"
	CtxClaims = "claims"
	CtxUser   = "user"
)

var errAccountGone = errors.New("account no longer exists, please log in again")

// UserLookup resolves the account a token was issued for.
type UserLookup interface {
	Get(id string) (models.User, error)
}

// AuthMiddleware accepts "Authorization: Bearer <token>" or, for websocket
// upgrades where browsers cannot set headers, a ?token= query parameter.
// The account is loaded on every request, so a token for a deleted user is
// rejected and the role comes from the store rather than the claims.
func AuthMiddleware(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := bearerToken(c)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		user, err := users.Get(claims.UserID)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, errAccountGone)
			c.Abort()
			return
		}

		c.Set(CtxUserID, user.ID)
		c.Set(CtxRole, user.Role)
		c.Set(CtxToken, tokenString)
		c.Set(CtxClaims, claims)
		c.Set(CtxUser, user)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return "", errors.New("invalid authorization header format")
		}
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")), nil
	}
	if token := c.Query("token"); token != "" {
		return token, nil
	}
	return "", errors.New("authorization token missing")
}
