package console

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophattach/internal/auth"
	"github.com/dmitrijs2005/gophattach/internal/common"
)

const reporterKey = "reporter"

// authMiddleware checks the access token when a secret is configured. The
// token travels in the access_token header, or in the query string for the
// websocket upgrade where browsers cannot set headers.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(s.opts.SecretKey) == 0 {
			c.Next()
			return
		}

		token := c.GetHeader(common.AccessTokenHeaderName)
		if token == "" {
			token = c.Query(common.AccessTokenHeaderName)
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(common.ErrorUnauthorized.Error()))
			return
		}

		reporterID, err := auth.ReporterIDFromToken(token, s.opts.SecretKey)
		if err != nil {
			msg := common.ErrInvalidToken.Error()
			if errors.Is(err, common.ErrTokenExpired) {
				msg = common.ErrTokenExpired.Error()
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(msg))
			return
		}

		c.Set(reporterKey, reporterID)
		c.Next()
	}
}
