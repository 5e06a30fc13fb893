package validator

import (
	"testing"
	"time"

	"yamdb/proj/internal/domain/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupInput struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Category string `json:"category" validate:"omitempty,slug"`
}

func TestValidateStruct(t *testing.T) {
	v := New()
	t.Run("valid", func(t *testing.T) {
		errs := ValidateStruct(v, signupInput{Username: "john.doe", Email: "john@example.com", Category: "sci-fi"})
		assert.Nil(t, errs)
	})
	t.Run("reserved username", func(t *testing.T) {
		errs := ValidateStruct(v, signupInput{Username: "Me", Email: "john@example.com"})
		assert.Contains(t, errs, "username")
	})
	t.Run("bad chars and email", func(t *testing.T) {
		errs := ValidateStruct(v, signupInput{Username: "john doe", Email: "nope", Category: "sci fi"})
		assert.Len(t, errs, 3)
		assert.Equal(t, "Value must be a valid email address", errs["email"])
	})
	t.Run("required", func(t *testing.T) {
		errs := ValidateStruct(v, &signupInput{})
		assert.Equal(t, "This field is required", errs["username"])
		assert.Equal(t, "This field is required", errs["email"])
	})
}

func TestCheck(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	t.Run("passes", func(t *testing.T) {
		err := Check(
			YearNotInFuture("year", 2024, now),
			IntBetween("score", 10, 1, 10),
			NotBlank("text", "fine"),
			NotEmpty("genre", []string{"drama"}),
		)
		assert.NoError(t, err)
	})
	t.Run("collects every field once", func(t *testing.T) {
		err := Check(
			YearNotInFuture("year", 2025, now),
			IntBetween("score", 0, 1, 10),
			IntBetween("score", 11, 1, 10),
			NotEmpty[string]("genre", nil),
		)
		vErr, ok := errs.IsValidation(err)
		require.True(t, ok)
		assert.Len(t, vErr.Fields, 3)
		assert.Equal(t, "Value should be between 1 and 10", vErr.Fields["score"])
	})
}

func TestUsernameRule(t *testing.T) {
	assert.Error(t, Check(Username("username", "me")))
	assert.Error(t, Check(Username("username", "ME")))
	assert.Error(t, Check(Username("username", "bad name")))
	assert.NoError(t, Check(Username("username", "good_name+1@x.y")))
	assert.NoError(t, Check(Username("username", "иван.петров")))
	assert.NoError(t, Check(Username("username", "José_2")))
	assert.NoError(t, Check(Username("username", "用户")))
	assert.Error(t, Check(Username("username", "tab\tname")))
	assert.Error(t, Check(Username("username", "trailing\n")))
}

func TestCamelToSnake(t *testing.T) {
	assert.Equal(t, "first_name", camelToSnake("FirstName"))
	assert.Equal(t, "year", camelToSnake("Year"))
}
