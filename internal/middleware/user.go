package middleware

import (
	"strings"

	"aihub/config"
	"aihub/internal/core"
	"aihub/internal/database/mongodb/repository"
	cErr "aihub/internal/pkg/error"
	"aihub/internal/pkg/response"
	"aihub/internal/service"
	"aihub/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// 請求情境中身分資訊的鍵名
const (
	ContextUserIDKey      = "userID"
	ContextTenantKey      = "tenant"
	ContextDisplayNameKey = "displayName"
)

// User 以 JWT 驗證使用者身分，並確保使用者紀錄存在
type User struct {
	logger *zap.Logger
	trace  *telemetry.Trace
	conf   *config.Configuration
	users  *repository.UserRepository
}

func NewUser(
	logger *zap.Logger,
	trace *telemetry.Trace,
	conf *config.Configuration,
	users *repository.UserRepository,
) *User {
	return &User{
		logger: logger,
		trace:  trace,
		conf:   conf,
		users:  users,
	}
}

func (m *User) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanUserMiddleware))

		authorization := c.GetHeader("Authorization")
		if !strings.HasPrefix(authorization, "Bearer ") {
			m.trace.ApplyTraceAttributes(span, core.TraceUserMiddlewareMeta{
				Status: "missing_token",
			})
			cause := cErr.Unauthorized("missing bearer token")
			response.AbortWithError(c, cause)
			end(cause)
			return
		}
		tokenString := strings.TrimPrefix(authorization, "Bearer ")

		claims := &core.Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(m.conf.App.SecretKey), nil
		})
		if err != nil || !token.Valid || claims.UserID == "" {
			m.trace.ApplyTraceAttributes(span, core.TraceUserMiddlewareMeta{
				Status: "invalid_token",
			})
			cause := cErr.Unauthorized("invalid token")
			response.AbortWithError(c, cause)
			end(cause)
			return
		}

		// 首次見到的使用者補建紀錄；失敗只記錄，不擋請求
		if ensureError := m.users.EnsureExists(ctx, &service.UserInfo{
			ID:     claims.UserID,
			Tenant: claims.Tenant,
		}); ensureError != nil {
			m.logger.Warn("ensure user record failed",
				zap.String("userId", claims.UserID),
				zap.Error(ensureError),
			)
		}

		m.trace.ApplyTraceAttributes(span, core.TraceUserMiddlewareMeta{
			UserID: claims.UserID,
			Tenant: claims.Tenant,
			Status: "success",
		})

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextTenantKey, claims.Tenant)
		c.Set(ContextDisplayNameKey, claims.DisplayName)
		end(nil)
		c.Next()
	}
}
