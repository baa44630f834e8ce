// internal/server/middleware.go
package server

import (
	"context"
	"strings"
	"time"

	"package-directory/internal/common/auth"
	"package-directory/internal/common/errors"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const identityContextKey = "identity"

// JWTClaims carries the authenticated caller through a signed bearer token.
type JWTClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// GenerateJWT signs a bearer token for a caller. Used by operators issuing
// tokens out of band and by tests.
func GenerateJWT(secret, userID, username string) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "package-directory",
		},
		UserID:   userID,
		Username: username,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// TokenVerifier turns a bearer token into a caller identity.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*auth.Identity, error)
}

// JWTVerifier validates HS256 bearer tokens issued by this service.
type JWTVerifier struct {
	Secret string
}

func (v *JWTVerifier) VerifyToken(_ context.Context, tokenString string) (*auth.Identity, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return []byte(v.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.NewUnauthenticatedError("invalid bearer token")
	}
	return &auth.Identity{ID: claims.UserID, Username: claims.Username}, nil
}

// authRequired extracts and verifies the bearer token, storing the caller
// identity in the request context.
func authRequired(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, errors.NewUnauthenticatedError("missing Authorization header"))
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			abortWithError(c, errors.NewUnauthenticatedError("Authorization header is not a bearer token"))
			return
		}

		ident, err := verifier.VerifyToken(c.Request.Context(), tokenString)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(identityContextKey, ident)
		c.Next()
	}
}

// callerIdentity returns the verified identity set by authRequired, or nil.
func callerIdentity(c *gin.Context) *auth.Identity {
	value, exists := c.Get(identityContextKey)
	if !exists {
		return nil
	}
	ident, ok := value.(*auth.Identity)
	if !ok {
		return nil
	}
	return ident
}

func abortWithError(c *gin.Context, err error) {
	stdErr := errors.Normalize(err)
	c.AbortWithStatusJSON(errors.HTTPStatus(err), gin.H{
		"error": gin.H{
			"code":    stdErr.Code,
			"message": stdErr.Message,
			"details": stdErr.Details,
		},
	})
}
