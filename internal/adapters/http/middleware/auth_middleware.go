package middleware

import (
	"strings"

	"colisso/internal/adapters/persistence/repositories"
	"colisso/internal/config"
	"colisso/internal/core/domain"
	"colisso/internal/pkg/jwt"
	"colisso/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set user info in context
		c.Locals("userID", claims.UserID)
		c.Locals("phone", claims.Phone)
		c.Locals("fullName", claims.FullName)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// StationScope loads the caller's active station assignments into the
// request context. Only station-scoped roles pay the lookup cost.
func StationScope(assignmentRepo *repositories.AssignmentRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		switch domain.RoleCode(role) {
		case domain.RoleManager, domain.RoleCounterAgent:
			userID, ok := c.Locals("userID").(uint)
			if !ok {
				return response.Unauthorized(c, "Unauthorized")
			}
			stationIDs, err := assignmentRepo.ActiveStationIDs(c.Context(), userID)
			if err != nil {
				return response.InternalServerError(c, "Failed to resolve station assignments")
			}
			c.Locals("stationIDs", stationIDs)
		}
		return c.Next()
	}
}

// Caller builds the authorization identity from the request context
func Caller(c *fiber.Ctx) domain.Caller {
	caller := domain.Caller{}
	if userID, ok := c.Locals("userID").(uint); ok {
		caller.UserID = userID
	}
	if role, ok := c.Locals("role").(string); ok {
		caller.Role = domain.RoleCode(role)
	}
	if stationIDs, ok := c.Locals("stationIDs").([]uint); ok {
		caller.StationIDs = stationIDs
	}
	return caller
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.RoleCode) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		// Check if user's role is in allowed roles
		for _, allowedRole := range allowedRoles {
			if domain.RoleCode(role) == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// Staff middleware allows every staff role
func Staff() fiber.Handler {
	return RoleMiddleware(
		domain.RoleAdmin,
		domain.RoleManager,
		domain.RoleCounterAgent,
		domain.RoleParcelAgent,
		domain.RoleCourier,
	)
}

// CounterStaff middleware allows the roles that sell and validate tickets
func CounterStaff() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin, domain.RoleManager, domain.RoleCounterAgent)
}

// ParcelStaff middleware allows the roles that move parcels
func ParcelStaff() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin, domain.RoleManager, domain.RoleParcelAgent)
}

// ManagerOrAdmin middleware allows managers and admins
func ManagerOrAdmin() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin, domain.RoleManager)
}

// CourierOnly middleware allows only couriers
func CourierOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleCourier)
}

// OptionalAuth middleware - doesn't require auth but sets user info if token present
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// Try to get token from cookie
		accessToken = c.Cookies("access_token")

		// If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// If token exists, validate and set user info
		if accessToken != "" {
			claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
			if err == nil {
				c.Locals("userID", claims.UserID)
				c.Locals("phone", claims.Phone)
				c.Locals("fullName", claims.FullName)
				c.Locals("role", claims.Role)
			}
		}

		return c.Next()
	}
}
