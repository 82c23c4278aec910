package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pontodigital/pontod/internal/common"
)

// Claims carries the standard claims plus the authenticated employee id.
type Claims struct {
	jwt.RegisteredClaims
	EmployeeID  int64  `json:"funcionario_id"`
	CompanyCode string `json:"emp"`
}

func GenerateToken(employeeID int64, companyCode string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		EmployeeID:  employeeID,
		CompanyCode: companyCode,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates the signature and expiry and returns the claims.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
