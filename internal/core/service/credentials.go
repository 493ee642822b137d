package service

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/trackly/project-tracker/internal/core/domain"
)

type seedAccount struct {
	id       int64
	email    string
	password string
	name     string
	role     domain.Role
}

var seedAccounts = []seedAccount{
	{id: 1, email: "admin@example.com", password: "password123", name: "Admin User", role: domain.RoleAdmin},
	{id: 2, email: "user@example.com", password: "password123", name: "Regular User", role: domain.RoleUser},
}

// SeedCredentials returns the fixed login table with passwords hashed. The
// hashes are computed once per process.
var SeedCredentials = sync.OnceValues(func() ([]domain.Credential, error) {
	creds := make([]domain.Credential, 0, len(seedAccounts))
	for _, a := range seedAccounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash seed credential %s: %w", a.email, err)
		}
		creds = append(creds, domain.Credential{
			ID:           a.id,
			Email:        a.email,
			PasswordHash: hash,
			Name:         a.name,
			Role:         a.role,
		})
	}
	return creds, nil
})
