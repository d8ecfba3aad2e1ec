package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	firebaseutil "io.winapps.traveljournal/internal/firebase"
)

// SessionCookie carries the Firebase session cookie for the HTML pages.
const SessionCookie = "__session"

var errNoToken = errors.New("no token")

// Authenticator resolves the request's Firebase credential to a user id.
// Verified tokens are remembered in Redis under session:<sha256(token)>.
type Authenticator struct {
	verifier firebaseutil.TokenVerifier
	redis    *redis.Client
	ttl      time.Duration
	logger   *zap.SugaredLogger
	now      func() time.Time
}

func NewAuthenticator(verifier firebaseutil.TokenVerifier, redisClient *redis.Client, ttl time.Duration, logger *zap.SugaredLogger) *Authenticator {
	return &Authenticator{verifier: verifier, redis: redisClient, ttl: ttl, logger: logger, now: time.Now}
}

// AuthMiddleware rejects requests without a valid token and sets the user context
func (a *Authenticator) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, err := a.authenticate(c)
		if err != nil {
			msg := "Invalid or expired token"
			if errors.Is(err, errNoToken) {
				msg = "Authorization header is required"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		// Set user UID in context for use in handlers
		c.Set("uid", uid)
		c.Next()
	}
}

// OptionalAuthMiddleware sets the user context when a valid token is present
// and lets every request through.
func (a *Authenticator) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid, err := a.authenticate(c); err == nil {
			c.Set("uid", uid)
		}
		c.Next()
	}
}

// credential is what the request authenticates with: an ID token from the
// Authorization header or a session cookie minted at sign-in.
type credential struct {
	value  string
	cookie bool
}

func credentialFrom(c *gin.Context) (credential, bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			return credential{}, false
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		return credential{value: token}, token != ""
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return credential{value: cookie, cookie: true}, true
	}
	return credential{}, false
}

func sessionKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "session:" + hex.EncodeToString(sum[:])
}

func (a *Authenticator) authenticate(c *gin.Context) (string, error) {
	cred, ok := credentialFrom(c)
	if !ok {
		return "", errNoToken
	}
	ctx := c.Request.Context()
	key := sessionKey(cred.value)

	// Try Redis first, then Firebase
	if a.redis != nil {
		if uid, err := a.redis.Get(ctx, key).Result(); err == nil && uid != "" {
			return uid, nil
		} else if err != nil && !errors.Is(err, redis.Nil) {
			a.logger.Warnw("Session cache read failed", "error", err)
		}
	}

	verify := a.verifier.VerifyIDToken
	if cred.cookie {
		verify = a.verifier.VerifySessionCookie
	}
	token, err := verify(ctx, cred.value)
	if err != nil {
		return "", err
	}

	a.remember(ctx, key, token.UID, time.Unix(token.Expires, 0))
	return token.UID, nil
}

// remember caches uid until the token expires or the TTL passes, whichever is first.
func (a *Authenticator) remember(ctx context.Context, key, uid string, expires time.Time) {
	if a.redis == nil {
		return
	}
	ttl := a.ttl
	if left := expires.Sub(a.now()); left < ttl {
		ttl = left
	}
	if ttl <= 0 {
		return
	}
	if err := a.redis.Set(ctx, key, uid, ttl).Err(); err != nil {
		a.logger.Warnw("Failed to cache session", "error", err)
	}
}
