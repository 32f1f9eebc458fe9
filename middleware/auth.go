package middleware

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"

	"github.com/7499karthik/suvidhaa/utils"
)

// Denylist answers whether a token ID was revoked by logout. A nil Denylist
// disables the check.
type Denylist interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Protected gates a route behind a valid bearer token and stores the caller's
// identity in Locals("userID") and Locals("role").
func Protected(secret string, denylist Denylist) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(secret),
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			userToken, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return unauthorized(c, "No authentication token")
			}

			claims, ok := userToken.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c, "Invalid token claims")
			}

			userID, err := extractUserID(claims)
			if err != nil {
				return unauthorized(c, "Invalid user ID in token")
			}

			role, _ := claims["role"].(string)

			if denylist != nil {
				if jti, ok := claims["jti"].(string); ok && jti != "" {
					revoked, err := denylist.IsRevoked(c.Context(), jti)
					if err == nil && revoked {
						return unauthorized(c, "Token has been revoked")
					}
				}
			}

			c.Locals("userID", userID)
			c.Locals("role", role)
			return c.Next()
		},
	})
}

// extractUserID handles the formats a numeric claim can arrive in after JSON
// decoding.
func extractUserID(claims jwt.MapClaims) (uint, error) {
	idVal := claims["id"]
	if idVal == nil {
		return 0, fmt.Errorf("no ID found in claims")
	}

	switch v := idVal.(type) {
	case float64:
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse ID string: %v", err)
		}
		return uint(parsed), nil
	case uint:
		return v, nil
	case int:
		return uint(v), nil
	default:
		return 0, fmt.Errorf("unsupported ID type: %T", v)
	}
}

func unauthorized(c *fiber.Ctx, detail string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
		Message: "Unauthorized",
		Error:   detail,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
		Message: "Invalid or expired token",
		Error:   err.Error(),
	})
}
