// Package claimcode produces collision-resistant human-readable pickup codes.
package claimcode

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strconv"
)

const (
	prefix     = "BK"
	codeLength = 6

	// no 0/O, 1/I/L to keep codes legible over the counter
	alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
)

var codePattern = regexp.MustCompile(`^` + prefix + `-[` + alphabet + `]{` + strconv.Itoa(codeLength) + `}$`)

// Generator produces claim codes of the form BK-7F3K9Q. Uniqueness is
// enforced by the orders table constraint; the fulfillment engine retries
// with a fresh code on collision.
type Generator struct{}

// New creates new Generator instance
func New() *Generator {
	return &Generator{}
}

// Generate returns a fresh claim code
func (g *Generator) Generate() (string, error) {
	max := big.NewInt(int64(len(alphabet)))

	buf := make([]byte, codeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[n.Int64()]
	}

	return prefix + "-" + string(buf), nil
}

// IsValid reports whether s has the claim code shape
func IsValid(s string) bool {
	return codePattern.MatchString(s)
}
