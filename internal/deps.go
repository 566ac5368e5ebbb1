package internal

import (
	"bitwise74/goals-api/internal/store"
	"bitwise74/goals-api/pkg/security"
)

type Deps struct {
	Store       store.Store
	Argon       *security.ArgonHash
	Tokens      *security.TokenService
	AdminEmails []string
}
