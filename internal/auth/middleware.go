package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/clubstack/booking-api/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthInput carries the credentials of a protected request. Embed it in
// a huma request struct and resolve it with AuthHandler.Authorize.
type AuthInput struct {
	Cookie string `header:"Cookie" doc:"Session cookie containing auth_token"`
	APIKey string `header:"X-API-KEY" doc:"API key as an alternative to the session cookie"`
}

// Authorize resolves the acting member from an API key or the JWT
// session cookie, in that order.
func (h *AuthHandler) Authorize(ctx context.Context, input AuthInput) (uint, error) {
	if input.APIKey != "" {
		var keyModel models.APIKey
		if err := h.db.Where("key = ?", input.APIKey).First(&keyModel).Error; err != nil {
			return 0, huma.Error401Unauthorized("Unauthorized: Invalid API key")
		}
		if keyModel.ExpiresAt != nil && time.Now().After(*keyModel.ExpiresAt) {
			return 0, huma.Error401Unauthorized("Unauthorized: API key expired")
		}

		h.db.Model(&keyModel).Update("last_used_at", time.Now())
		return keyModel.MemberID, nil
	}

	tokenString, err := tokenFromCookieHeader(input.Cookie)
	if err != nil {
		return 0, huma.Error401Unauthorized("Unauthorized: No token found")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, huma.Error401Unauthorized("Unauthorized: Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, huma.Error401Unauthorized("Unauthorized: Invalid token claims")
	}
	memberIDFloat, ok := claims["member_id"].(float64)
	if !ok {
		return 0, huma.Error401Unauthorized("Unauthorized: Invalid token claims")
	}

	return uint(memberIDFloat), nil
}

func tokenFromCookieHeader(header string) (string, error) {
	r := &http.Request{Header: http.Header{"Cookie": {header}}}
	cookie, err := r.Cookie("auth_token")
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}
