package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// NewOTP returns a 6-digit reset code from the CSPRNG.
func NewOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}
