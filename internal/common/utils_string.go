package common

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

var sqlLikeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

const randomStringCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func GenerateRandomString(length int) (string, error) {
	bytes := make([]byte, length)
	charsetLength := byte(len(randomStringCharset))

	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	for i := range bytes {
		bytes[i] = randomStringCharset[bytes[i]%charsetLength]
	}

	return string(bytes), nil
}

// GenerateHexToken returns byteLength random bytes encoded as lowercase
// hex, the output is twice as long as byteLength
func GenerateHexToken(byteLength int) (string, error) {
	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// EscapeSqlLike escapes the LIKE wildcards so user input matches
// literally
func EscapeSqlLike(input string) string {
	return sqlLikeEscaper.Replace(input)
}
