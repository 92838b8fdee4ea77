package main

import (
	"encoding/json"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const bearerPrefix = "Bearer "

// TokenVerifier checks HS256 tokens issued by the auth service and pulls out
// the user_id claim.
type TokenVerifier struct {
	secret []byte
	parser *jwt.Parser
	logger zerolog.Logger
}

func NewTokenVerifier(secret string, logger zerolog.Logger) *TokenVerifier {
	return &TokenVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithJSONNumber(),
		),
		logger: logger.With().Str("component", "token_verifier").Logger(),
	}
}

// Identify returns the caller's user id from an Authorization header value.
// A missing, malformed, tampered or expired token all yield ok == false.
func (v *TokenVerifier) Identify(authHeader string) (userID string, ok bool) {
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", false
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
	if tokenString == "" {
		return "", false
	}

	claims := jwt.MapClaims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		v.logger.Debug().Err(err).Msg("token rejected")
		return "", false
	}

	userID, ok = userIDClaim(claims["user_id"])
	if !ok {
		v.logger.Debug().Msg("token has no usable user_id claim")
		return "", false
	}
	return userID, true
}

// userIDClaim normalizes the claim to a string. Numbers keep their exact
// decimal text, so ids beyond float64 precision stay distinct. Fractions and
// exponents are not ids.
func userIDClaim(raw interface{}) (string, bool) {
	switch v := raw.(type) {
	case string:
		v = strings.TrimSpace(v)
		return v, v != ""
	case json.Number:
		n := v.String()
		if !isDecimalInteger(n) {
			return "", false
		}
		return n, true
	default:
		return "", false
	}
}

func isDecimalInteger(s string) bool {
	digits := strings.TrimPrefix(s, "-")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
