package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignToken creates the HS256 login token carried in the auth cookie.
func SignToken(userID int, name string) (string, error) {
	claims := jwt.MapClaims{
		"uid":  userID,
		"user": name,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return "", ErrorHandler(err, "failed to sign token")
	}
	return signed, nil
}
