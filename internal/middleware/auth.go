// Package middleware provides authentication, logging, and rate-limiting middleware.
package middleware

import (
	"strconv"
	"strings"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
}

// userIDFromToken validates the JWT and returns the user ID from the "sub" claim.
func userIDFromToken(tokenString string) (uint, bool) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}

	subStr, ok := claims["sub"].(string)
	if !ok {
		return 0, false
	}

	userID, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(userID), true
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return unauthorized(c, "Authorization header required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return unauthorized(c, "Invalid authorization header format")
	}

	userID, ok := userIDFromToken(parts[1])
	if !ok {
		return unauthorized(c, "Invalid or expired token")
	}

	c.Locals("userID", userID)
	return c.Next()
}

// OptionalAuth resolves the user ID when a valid token is supplied but never
// rejects the request; anonymous readers see public data.
func OptionalAuth(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			if userID, ok := userIDFromToken(parts[1]); ok {
				c.Locals("userID", userID)
			}
		}
	}
	return c.Next()
}

// WebSocketAuthRequired validates JWT tokens from the `token` query parameter
// for WebSocket connections, falling back to the Authorization header.
func WebSocketAuthRequired(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Token required")
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return unauthorized(c, "Invalid authorization header format")
		}
		token = parts[1]
	}

	userID, ok := userIDFromToken(token)
	if !ok {
		return unauthorized(c, "Invalid or expired token")
	}

	c.Locals("userID", userID)
	return c.Next()
}
