package core

import "golang.org/x/crypto/bcrypt"

// Credentials abstracts password hashing so the directory treats the
// credential service as opaque.
type Credentials interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

type bcryptCredentials struct {
	cost int
}

// NewBcryptCredentials returns a bcrypt-backed Credentials with the default cost.
func NewBcryptCredentials() Credentials {
	return bcryptCredentials{cost: bcrypt.DefaultCost}
}

func (c bcryptCredentials) Hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return "", Errf(KindValidation, "failed to hash password: %v", err)
	}
	return string(h), nil
}

func (c bcryptCredentials) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
