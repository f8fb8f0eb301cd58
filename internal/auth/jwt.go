package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultIssuer = "tradedesk/controller"

// Claims defines the structure of the JWT payload, the registered
// ID claim carries the session id
type Claims struct {
	UserId string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func (c Claims) GetSessionId() string {
	return c.ID
}

type GenerateJwtOpts struct {
	Audience  string
	Email     string
	Issuer    string
	Secret    string
	SessionId string
	Ttl       time.Duration
	UserId    string
}

// GenerateJwt creates a signed HS256 JWT for a user session
func GenerateJwt(opts GenerateJwtOpts) (string, error) {
	now := time.Now()
	issuer := opts.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}
	claims := Claims{
		UserId: opts.UserId,
		Email:  opts.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        opts.SessionId,
			Issuer:    issuer,
			Subject:   opts.UserId,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(opts.Ttl)),
		},
	}
	if opts.Audience != "" {
		claims.Audience = jwt.ClaimStrings{opts.Audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(opts.Secret))
}

// ValidateJWT verifies the token's signature and expiry
func ValidateJWT(jwtSecret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method[%v]", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %w", ErrorJwtTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, fmt.Errorf("%w: %w", ErrorJwtTokenSignature, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrorJwtClaimsInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrorJwtClaimsInvalid
	}
	if claims.UserId == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing user or session id", ErrorJwtClaimsInvalid)
	}
	return claims, nil
}
