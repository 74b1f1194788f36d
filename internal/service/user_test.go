package service

import (
	"context"
	"testing"
	"time"

	"invoice-generator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	has, err := f.users.HasAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	u, err := f.users.Create(ctx, UserInput{Username: "root", Email: "root@x.test", Password: "secret1", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	has, err = f.users.HasAdmin(ctx)
	require.NoError(t, err)
	assert.True(t, has)

	_, err = f.users.Create(ctx, UserInput{Username: "ROOT", Email: "other@x.test", Password: "secret1"})
	assert.Equal(t, KindConflict, KindOf(err))
	_, err = f.users.Create(ctx, UserInput{Username: "other", Email: "root@x.test", Password: "secret1"})
	assert.Equal(t, KindConflict, KindOf(err))
	_, err = f.users.Create(ctx, UserInput{Username: "bad", Email: "bad@x.test", Password: "secret1", Role: "owner"})
	assert.Equal(t, KindValidation, KindOf(err))

	plain, err := f.users.Create(ctx, UserInput{Username: "clerk", Email: "clerk@x.test", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, plain.Role, "role defaults to user")
}

func TestUser_LastAdminIsProtected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	root, err := f.users.Create(ctx, UserInput{Username: "root", Email: "root@x.test", Password: "secret1", Role: models.RoleAdmin})
	require.NoError(t, err)
	clerk, err := f.users.Create(ctx, UserInput{Username: "clerk", Email: "clerk@x.test", Password: "secret1"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.users.Delete(ctx, clerk.ID, root.ID), ErrLastAdmin)
	_, err = f.users.Update(ctx, root.ID, UserPatch{Role: ptr(models.RoleUser)})
	assert.ErrorIs(t, err, ErrLastAdmin)

	second, err := f.users.Create(ctx, UserInput{Username: "boss", Email: "boss@x.test", Password: "secret1", Role: models.RoleAdmin})
	require.NoError(t, err)
	require.NoError(t, f.users.Delete(ctx, second.ID, root.ID), "a non-last admin can be deleted")

	assert.ErrorIs(t, f.users.Delete(ctx, second.ID, second.ID), ErrSelfDelete)
	assert.Equal(t, KindNotFound, KindOf(f.users.Delete(ctx, second.ID, "missing")))
}

func TestUserUpdateAndChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, err := f.users.Create(ctx, UserInput{Username: "clerk", Email: "clerk@x.test", Password: "secret1"})
	require.NoError(t, err)
	_, err = f.users.Create(ctx, UserInput{Username: "other", Email: "other@x.test", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.users.Update(ctx, u.ID, UserPatch{Username: ptr("other")})
	assert.Equal(t, KindConflict, KindOf(err))

	got, err := f.users.Update(ctx, u.ID, UserPatch{Email: ptr("new@x.test"), Password: ptr("changed1")})
	require.NoError(t, err)
	assert.Equal(t, "new@x.test", got.Email)

	_, err = f.users.Authenticate(ctx, "clerk", "changed1", "127.0.0.1")
	require.NoError(t, err)

	assert.ErrorIs(t, f.users.ChangePassword(ctx, u.ID, "wrong", "another1"), ErrWrongPassword)
	require.NoError(t, f.users.ChangePassword(ctx, u.ID, "changed1", "another1"))
	_, err = f.users.Authenticate(ctx, "clerk", "another1", "127.0.0.1")
	assert.NoError(t, err)
}

func TestUserAuthenticate_Lockout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	f.users.now = func() time.Time { return now }
	_, err := f.users.Create(ctx, UserInput{Username: "clerk", Email: "clerk@x.test", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.users.Authenticate(ctx, "nobody", "secret1", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	for i := 0; i < maxFailedLogins; i++ {
		_, err = f.users.Authenticate(ctx, "clerk", "wrong", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, err = f.users.Authenticate(ctx, "clerk", "secret1", "")
	assert.ErrorIs(t, err, ErrAccountLocked)

	now = now.Add(lockDuration + time.Second)
	u, err := f.users.Authenticate(ctx, "clerk", "secret1", "10.0.0.1")
	require.NoError(t, err)
	require.NotNil(t, u.LastLoginAt)
}

func TestUserList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.users.Create(ctx, UserInput{Username: "root", Email: "root@x.test", Password: "secret1", Role: models.RoleAdmin})
	require.NoError(t, err)
	_, err = f.users.Create(ctx, UserInput{Username: "clerk", Email: "clerk@x.test", Password: "secret1"})
	require.NoError(t, err)

	page, err := f.users.List(ctx, UserFilter{Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "root", page.Data[0].Username)

	page, err = f.users.List(ctx, UserFilter{ListParams: ListParams{Search: "CLERK@"}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Meta.Total)
}
