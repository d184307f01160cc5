// utils/random.go
package utils

import (
	"crypto/rand"
	"math/big"
)

const randomCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateRandomString returns a random alphanumeric string, used for
// invoice and quotation number suffixes.
func GenerateRandomString(length int) string {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(randomCharset))))
		if err != nil {
			b[i] = randomCharset[0]
			continue
		}
		b[i] = randomCharset[n.Int64()]
	}
	return string(b)
}
