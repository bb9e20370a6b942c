package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegister(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		userName string
		want     error
	}{
		{name: "ok", email: "taro@campus.edu", password: "correct-horse", userName: "Taro"},
		{name: "missing name", email: "taro@campus.edu", password: "correct-horse", userName: " ", want: ErrInvalidInput},
		{name: "bad email", email: "taro", password: "correct-horse", userName: "Taro", want: ErrInvalidInput},
		{name: "short password", email: "taro@campus.edu", password: "short", userName: "Taro", want: ErrPasswordTooShort},
		{name: "weak password", email: "taro@campus.edu", password: "Password123", userName: "Taro", want: ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegister(tt.email, tt.password, tt.userName)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateLogin(t *testing.T) {
	assert.NoError(t, ValidateLogin("a@b.co", "x"))
	assert.ErrorIs(t, ValidateLogin("", "x"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateLogin("a@b.co", ""), ErrInvalidInput)
}
