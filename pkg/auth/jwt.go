// Package auth bearer token'dan sahip kimliğini çözer. Oturum açma ve token üretimi
// bu servisin dışında yapılır; GenerateToken sadece geliştirme ve testler içindir.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("geçersiz token")
	ErrTokenExpired = errors.New("token süresi dolmuş")
)

// Identity isteği yapan sahibin kimliğidir. Servis fonksiyonlarına açıkça parametre
// olarak geçirilir; paket düzeyinde veya context içinde örtük kimlik tutulmaz.
type Identity struct {
	UserID   uuid.UUID
	IsSystem bool // Sistem yöneticisi mi?
}

// CanAccess kimliğin verilen sahibin kaynağına erişip erişemeyeceğini söyler.
func (i Identity) CanAccess(ownerID uuid.UUID) bool {
	return i.IsSystem || (i.UserID != uuid.Nil && i.UserID == ownerID)
}

// Claims standart claim'lere kullanıcı kimliğini ve yönetici bayrağını ekler.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"uid"`
	IsSystem bool   `json:"sys,omitempty"`
}

func GenerateToken(identity Identity, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		UserID:   identity.UserID.String(),
		IsSystem: identity.IsSystem,
	})
	return token.SignedString(secretKey)
}

// ParseToken imzayı ve süresini doğrular, kimliği döndürür.
func ParseToken(tokenString string, secretKey []byte) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, ErrInvalidToken
	}
	if !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil || userID == uuid.Nil {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: userID, IsSystem: claims.IsSystem}, nil
}
