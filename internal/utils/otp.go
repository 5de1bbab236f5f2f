package utils

import (
	"crypto/rand" // secure randomness for OTP codes
	"fmt"
	"math/big"
)

// NewOTPCode returns a 6-digit numeric code drawn from a secure random
// source. The range is 100000..999999 so codes never need left padding.
func NewOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}
