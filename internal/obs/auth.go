package obs

import (
	"crypto/sha256"
	"encoding/base64"
)

// authResponse derives the Identify authentication string from the
// configured password and the challenge/salt pair sent in Hello:
//
//	secret   = base64(sha256(password + salt))
//	response = base64(sha256(secret + challenge))
func authResponse(password, salt, challenge string) string {
	secret := hashB64(password + salt)
	return hashB64(secret + challenge)
}

func hashB64(s string) string {
	sum := sha256.Sum256([]byte(s))
	return base64.StdEncoding.EncodeToString(sum[:])
}
