package test

import "math/rand/v2"

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomASCIIString returns an alphanumeric string whose length lies in
// [minLen, maxLen]. Non-positive minLen is treated as 1.
func RandomASCIIString(minLen, maxLen int) string {
	minLen = max(minLen, 1)
	maxLen = max(maxLen, minLen)
	buf := make([]byte, minLen+rand.IntN(maxLen-minLen+1))
	for i := range buf {
		buf[i] = alphanumeric[rand.IntN(len(alphanumeric))]
	}
	return string(buf)
}

// RandomCredentials returns a login and password pair accepted by registration.
func RandomCredentials() (login, password string) {
	return "user_" + RandomASCIIString(6, 12), RandomASCIIString(16, 32)
}
