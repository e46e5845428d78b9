package users

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserRequest_ValidationMessages(t *testing.T) {
	t.Parallel()

	v := validator.New()

	cases := []struct {
		name string
		req  CreateUserRequest
		want string
	}{
		{"missing username", CreateUserRequest{Email: "a@b.co", Password: "secret1"}, "username is required"},
		{"short username", CreateUserRequest{Username: "ab", Email: "a@b.co", Password: "secret1"}, "username must be at least 3 characters long"},
		{"long username", CreateUserRequest{Username: "this-username-is-way-over-thirty-chars", Email: "a@b.co", Password: "secret1"}, "username must be at most 30 characters long"},
		{"bad email", CreateUserRequest{Username: "alice", Email: "nope", Password: "secret1"}, "email address format is not valid"},
		{"short password", CreateUserRequest{Username: "alice", Email: "a@b.co", Password: "123"}, "password must be at least 6 characters long"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.req)
			require.Error(t, err)
			assert.Equal(t, tc.want, validationMessage(err))
		})
	}

	err := v.Struct(CreateUserRequest{Username: "alice", Email: "a@b.co", Password: "secret1"})
	assert.NoError(t, err)
}

func TestUpdateUserRequest_OptionalFields(t *testing.T) {
	t.Parallel()

	v := validator.New()

	// An entirely empty patch is structurally valid; emptiness is handled by
	// the service, not the validator.
	assert.NoError(t, v.Struct(UpdateUserRequest{}))

	short := "ab"
	err := v.Struct(UpdateUserRequest{Username: &short})
	require.Error(t, err)
	assert.Equal(t, "username must be at least 3 characters long", validationMessage(err))

	bad := "not-an-email"
	err = v.Struct(UpdateUserRequest{Email: &bad})
	require.Error(t, err)
	assert.Equal(t, "email address format is not valid", validationMessage(err))
}

func TestUserPatch_IsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, UserPatch{}.IsEmpty())

	name := "alice"
	assert.False(t, UserPatch{Username: &name}.IsEmpty())
}
