package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/argon2"
)

// Parâmetros do Argon2id; o hash e o salt são guardados separados
// (composto "hash:salt" no registro do usuário).
const (
	argonMemory      = 64 * 1024 // 64 MB
	argonIterations  = 3
	argonParallelism = 1
	saltLength       = 16
	keyLength        = 32
)

// HashPassword deriva o hash da senha. Gera salt aleatório quando nil;
// retorna hash e salt em base64.
func HashPassword(password string, salt []byte) (hash string, saltOut string, err error) {
	if salt == nil {
		salt = make([]byte, saltLength)
		if _, err := rand.Read(salt); err != nil {
			return "", "", err
		}
	}

	key := argon2.IDKey([]byte(password), salt, argonIterations, argonMemory, argonParallelism, keyLength)
	return base64.StdEncoding.EncodeToString(key), base64.StdEncoding.EncodeToString(salt), nil
}

// VerifyPassword recomputa e compara em tempo constante. Qualquer erro
// de decodificação resulta em false, nunca em erro.
func VerifyPassword(password, hash, salt string) bool {
	saltBytes, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return false
	}
	expected, err := base64.StdEncoding.DecodeString(hash)
	if err != nil {
		return false
	}

	key := argon2.IDKey([]byte(password), saltBytes, argonIterations, argonMemory, argonParallelism, keyLength)
	return subtle.ConstantTimeCompare(key, expected) == 1
}

// EncodeCredential monta o composto persistido no registro do usuário.
func EncodeCredential(hash, salt string) string {
	return hash + ":" + salt
}

// DecodeCredential separa hash e salt do composto persistido.
func DecodeCredential(credential string) (hash string, salt string, ok bool) {
	for i := len(credential) - 1; i >= 0; i-- {
		if credential[i] == ':' {
			return credential[:i], credential[i+1:], true
		}
	}
	return "", "", false
}
