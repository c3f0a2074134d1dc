package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/Goofygiraffe06/authform/internal/config"
	"github.com/Goofygiraffe06/authform/internal/logging"
	"github.com/Goofygiraffe06/authform/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidClientToken = errors.New("invalid client token")

// NewClientID mints the identity a browser's local storage is keyed by.
func NewClientID() string {
	return uuid.NewString()
}

// IssueClientToken signs clientID into a token valid for
// config.ClientTokenExpiresIn.
func IssueClientToken(clientID string) (string, error) {
	key := GetSigningKey()
	if key == nil || key.PrivateKey == nil {
		logging.ErrorLog("Client token generation failed [%s]: %v", utils.ShortID(clientID), ErrKeyNotInitialized)
		return "", ErrKeyNotInitialized
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   clientID,
		Issuer:    config.ClientTokenIssuer(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(config.ClientTokenExpiresIn())),
	}

	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(key.PrivateKey)
	if err != nil {
		logging.ErrorLog("Client token signing failed [%s]: %v", utils.ShortID(clientID), err)
		return "", err
	}

	logging.DebugLog("Client token issued [%s]", utils.ShortID(clientID))
	return tokenStr, nil
}

// ParseClientToken verifies tokenStr and returns the client ID it carries.
func ParseClientToken(tokenStr string) (string, error) {
	key := GetSigningKey()
	if key == nil || key.PublicKey == nil {
		return "", ErrKeyNotInitialized
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		return key.PublicKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithIssuer(config.ClientTokenIssuer()),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		logging.DebugLog("Client token verification failed: %v", err)
		return "", fmt.Errorf("%w: %v", ErrInvalidClientToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidClientToken
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", fmt.Errorf("%w: subject is not a client id", ErrInvalidClientToken)
	}

	return claims.Subject, nil
}
