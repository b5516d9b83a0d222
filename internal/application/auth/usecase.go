// Package auth issues operator tokens. There is a single operator identity
// configured via environment; no user store.
package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/Appy-Anand/obeta-project/internal/application/dto"
	"github.com/Appy-Anand/obeta-project/internal/domain"
	"github.com/Appy-Anand/obeta-project/pkg/jwt"
)

// RoleOperator is the only role the API knows; it gates the pipeline and
// report endpoints.
const RoleOperator = "operator"

// Usecase validates operator credentials and signs tokens.
type Usecase struct {
	user         string
	passwordHash string // bcrypt
	jwtSecret    string
	jwtIssuer    string
	expMinutes   int
}

// NewUsecase wires the token issuer.
func NewUsecase(user, passwordHash, jwtSecret, jwtIssuer string, expMinutes int) *Usecase {
	return &Usecase{
		user:         user,
		passwordHash: passwordHash,
		jwtSecret:    jwtSecret,
		jwtIssuer:    jwtIssuer,
		expMinutes:   expMinutes,
	}
}

// Token checks the credentials and returns a signed bearer token.
// Username and password failures are indistinguishable to the caller.
func (u *Usecase) Token(req dto.TokenRequest) (*dto.TokenResponse, error) {
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(u.user)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(req.Password))
	if !userOK || passErr != nil {
		return nil, domain.ErrUnauthorized
	}

	token, err := jwt.Generate(u.jwtSecret, req.Username, RoleOperator, u.jwtIssuer, u.expMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   u.expMinutes * 60,
	}, nil
}
