package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/moviesphere/internal/testsupport"
)

func TestRegisterAndLogin(t *testing.T) {
	svcs, _ := newTestServices(t)

	user, err := svcs.Account.Register(ctx, "ingmar@example.com", "", "secret123", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "ingmar", user.Username)

	_, err = svcs.Account.Register(ctx, "ingmar@example.com", "other", "secret123", "secret123")
	require.ErrorIs(t, err, ErrEmailTaken)
	_, err = svcs.Account.Register(ctx, "ingmar@elsewhere.com", "", "secret123", "secret123")
	require.ErrorIs(t, err, ErrUsernameTaken)

	got, err := svcs.Account.Login(ctx, " ingmar@example.com ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svcs.Account.Login(ctx, "ingmar@example.com", "wrong")
	require.ErrorIs(t, err, ErrBadCredentials)
	_, err = svcs.Account.Login(ctx, "nobody@example.com", "secret123")
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestRegisterValidation(t *testing.T) {
	svcs, _ := newTestServices(t)

	_, err := svcs.Account.Register(ctx, "bad", "", "secret123", "secret123")
	require.ErrorIs(t, err, ErrInvalidEmail)
	_, err = svcs.Account.Register(ctx, "a@example.com", "", "secret123", "secret124")
	require.ErrorIs(t, err, ErrPasswordDiffers)
	_, err = svcs.Account.Register(ctx, "a@example.com", "", "123", "123")
	require.ErrorIs(t, err, ErrWeakPassword)
}

func TestUpdateProfile(t *testing.T) {
	svcs, repos := newTestServices(t)
	user := testsupport.NewUser(t, repos, "one@example.com")
	other := testsupport.NewUser(t, repos, "two@example.com")

	updated, err := svcs.Account.UpdateProfile(ctx, user.ID, "renamed", "new@example.com", "+4681234567")
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Username)

	stored, err := svcs.Account.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", stored.Email)
	assert.Equal(t, "+4681234567", stored.Phone)

	_, err = svcs.Account.UpdateProfile(ctx, user.ID, "renamed", other.Email, "")
	require.ErrorIs(t, err, ErrEmailTaken)
	_, err = svcs.Account.UpdateProfile(ctx, user.ID, other.Username, "new@example.com", "")
	require.ErrorIs(t, err, ErrUsernameTaken)
	_, err = svcs.Account.UpdateProfile(ctx, user.ID, "renamed", "new@example.com", "call me")
	require.ErrorIs(t, err, ErrInvalidPhone)
	_, err = svcs.Account.UpdateProfile(ctx, user.ID, " ", "new@example.com", "")
	require.ErrorIs(t, err, ErrInvalidUsername)

	_, err = svcs.Account.Profile(ctx, 0)
	require.ErrorIs(t, err, ErrLoginRequired)
	_, err = svcs.Account.Profile(ctx, 999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	svcs, repos := newTestServices(t)
	user := testsupport.NewUser(t, repos, "one@example.com")

	require.ErrorIs(t, svcs.Account.ChangePassword(ctx, user.ID, "wrong", "newpass1", "newpass1"), ErrWrongPassword)
	require.ErrorIs(t, svcs.Account.ChangePassword(ctx, user.ID, "secret123", "newpass1", "newpass2"), ErrPasswordDiffers)
	require.ErrorIs(t, svcs.Account.ChangePassword(ctx, user.ID, "secret123", "abc", "abc"), ErrWeakPassword)
	require.NoError(t, svcs.Account.ChangePassword(ctx, user.ID, "secret123", "newpass1", "newpass1"))

	_, err := svcs.Account.Login(ctx, user.Email, "newpass1")
	require.NoError(t, err)
}
