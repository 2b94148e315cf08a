package server

import (
	"strconv"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/pointsale/internal/auth/domain"
	obscontext "github.com/smallbiznis/pointsale/internal/observability/context"
	"github.com/smallbiznis/pointsale/internal/ratelimit"
	"go.uber.org/zap"
)

const contextIdentityKey = "identity"

func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		identity, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextIdentityKey, identity)
		c.Request = c.Request.WithContext(obscontext.WithActor(c.Request.Context(), string(identity.Role), identity.Username))
		c.Next()
	}
}

func (s *Server) authorize(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := identityFromContext(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if err := s.authzSvc.Authorize(c.Request.Context(), identity.Username, string(identity.Role), object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// loginThrottle limits login attempts per client address. Limiter errors
// let the attempt through.
func (s *Server) loginThrottle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil {
			c.Next()
			return
		}
		res, err := s.limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			s.log.Warn("login rate limit unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !res.Allowed {
			if secs := int(res.RetryAfter.Seconds()); secs > 0 {
				c.Header("Retry-After", strconv.Itoa(secs))
			}
			AbortWithError(c, ratelimit.ErrRateLimited)
			return
		}
		c.Next()
	}
}

// singleActor holds the write lock for the rest of the handler chain.
func (s *Server) singleActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
		c.Next()
	}
}

func identityFromContext(c *gin.Context) (authdomain.Identity, bool) {
	if c == nil {
		return authdomain.Identity{}, false
	}
	v, ok := c.Get(contextIdentityKey)
	if !ok {
		return authdomain.Identity{}, false
	}
	identity, ok := v.(authdomain.Identity)
	return identity, ok && identity.Username != ""
}
