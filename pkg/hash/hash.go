package hash

import "golang.org/x/crypto/bcrypt"

// Cost is the bcrypt work factor for stored passwords.
const Cost = 12

func HashPassword(password string) (string, error) {
	return HashPasswordCost(password, Cost)
}

func HashPasswordCost(password string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
