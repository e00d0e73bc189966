package util

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"supercollab/config"
	"supercollab/logutils"
	"supercollab/model"

	jwt "github.com/golang-jwt/jwt/v5"
)

var ErrInvalidPrincipal = errors.New("token does not carry a valid signing key")

type (
	JWTClaims struct {
		Pubkey       string     `json:"pk"`
		Username     string     `json:"un"`
		RolePlatform model.Role `json:"rp"`
		jwt.RegisteredClaims
	}
	JWTMessage struct {
		Pubkey       model.Pubkey `json:"pubkey"`       // Signing key of the caller
		Username     string       `json:"username"`     // Username
		RolePlatform model.Role   `json:"rolePlatform"` // Role in platform (e.g. guest, user, admin)
	}
)

// User is the signing principal the message describes.
func (m JWTMessage) User() model.User {
	return model.User{Key: m.Pubkey, Name: m.Username, Role: m.RolePlatform}
}

type TokenManager struct {
	secretKey       string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

var (
	once     sync.Once
	tokenMgr *TokenManager
)

func GetTokenMgr() *TokenManager {
	once.Do(func() {
		auth := config.GetConfig().Auth
		tokenMgr = NewTokenManager(auth.AccessTokenSecret, auth.AccessTokenTTL, auth.RefreshTokenTTL)
	})
	return tokenMgr
}

func NewTokenManager(secretKey string, accessTokenTTL, refreshTokenTTL time.Duration) *TokenManager {
	return &TokenManager{
		secretKey,
		accessTokenTTL,
		refreshTokenTTL,
	}
}

func (tm *TokenManager) createToken(msg *JWTMessage, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		Pubkey:       msg.Pubkey.String(),
		Username:     msg.Username,
		RolePlatform: msg.RolePlatform,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   msg.Pubkey.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(tm.secretKey))
}

// CreateTokens creates a new access token and a new refresh token
func (tm *TokenManager) CreateTokens(msg *JWTMessage) (
	accessToken string, refreshToken string, err error) {
	accessToken, err = tm.createToken(msg, tm.accessTokenTTL)
	if err != nil {
		logutils.Log.Error(err)
		return "", "", err
	}
	refreshToken, err = tm.createToken(msg, tm.refreshTokenTTL)
	if err != nil {
		logutils.Log.Error(err)
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// CheckToken verifies requestToken and returns the principal it names.
func (tm *TokenManager) CheckToken(requestToken string) (JWTMessage, error) {
	claims := JWTClaims{}
	_, err := jwt.ParseWithClaims(requestToken, &claims, func(_ *jwt.Token) (any, error) {
		return []byte(tm.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return JWTMessage{}, err
	}
	key, err := model.ParsePubkey(claims.Pubkey)
	if err != nil {
		return JWTMessage{}, fmt.Errorf("%w: %v", ErrInvalidPrincipal, err)
	}
	return JWTMessage{
		Pubkey:       key,
		Username:     claims.Username,
		RolePlatform: claims.RolePlatform,
	}, nil
}
