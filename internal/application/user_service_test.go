package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/taskboard/internal/domain/entity"
	"github.com/oksasatya/taskboard/internal/testutil"
	"github.com/oksasatya/taskboard/pkg/helpers"
	mailtpl "github.com/oksasatya/taskboard/pkg/mailer/templates"
)

func ptr[T any](v T) *T { return &v }

type userFixture struct {
	svc   *UserService
	store *testutil.Store
	pub   *testutil.Publisher
	index *testutil.Indexer
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	store := testutil.NewStore()
	logger := testutil.Logger()
	f := &userFixture{store: store, pub: &testutil.Publisher{}, index: testutil.NewIndexer()}
	f.svc = NewUserService(store.Users(), helpers.NewPasswordHasher(bcrypt.MinCost), logger)
	f.svc.Notifier = NewNotifier(f.pub, "Taskboard", logger)
	f.svc.Index = f.index
	return f
}

func (f *userFixture) seed(t *testing.T, name, email, password string) *entity.User {
	t.Helper()
	hash, err := f.svc.Hasher.Hash(password)
	require.NoError(t, err)
	u := &entity.User{Name: name, Email: email, PasswordHash: hash}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u
}

func TestGetProfile(t *testing.T) {
	f := newUserFixture(t)
	u := f.seed(t, "Ann", "a@x.com", "secret1")

	got, err := f.svc.GetProfile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)

	_, err = f.svc.GetProfile(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("changes name and email", func(t *testing.T) {
		f := newUserFixture(t)
		u := f.seed(t, "Ann", "a@x.com", "secret1")

		got, err := f.svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Name: ptr("Ann Lee"), Email: ptr("ann@x.com")})
		require.NoError(t, err)
		assert.Equal(t, "Ann Lee", got.Name)
		assert.Equal(t, "ann@x.com", got.Email)

		require.Len(t, f.pub.Jobs, 2)
		assert.Equal(t, "a@x.com", f.pub.Jobs[0].To)
		assert.Equal(t, "ann@x.com", f.pub.Jobs[1].To)
		assert.Equal(t, mailtpl.ProfileUpdated, f.pub.Jobs[0].Template)

		found, _ := f.index.SearchUsers(ctx, "lee", 10)
		assert.Len(t, found, 1)
	})

	t.Run("email owned by someone else conflicts", func(t *testing.T) {
		f := newUserFixture(t)
		u := f.seed(t, "Ann", "a@x.com", "secret1")
		f.seed(t, "Bob", "b@x.com", "secret1")

		_, err := f.svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Email: ptr("b@x.com")})
		assert.ErrorIs(t, err, ErrEmailTaken)
		assert.Empty(t, f.pub.Jobs)
	})

	t.Run("no effective change is a no-op", func(t *testing.T) {
		f := newUserFixture(t)
		u := f.seed(t, "Ann", "a@x.com", "secret1")

		got, err := f.svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Name: ptr("Ann"), Email: ptr("a@x.com")})
		require.NoError(t, err)
		assert.Equal(t, u.UpdatedAt, got.UpdatedAt)
		assert.Empty(t, f.pub.Jobs)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture(t)
	u := f.seed(t, "Ann", "a@x.com", "secret1")

	err := f.svc.ChangePassword(ctx, u.ID, "wrong", "secret2", ClientMeta{})
	assert.ErrorIs(t, err, ErrWrongPassword)

	require.NoError(t, f.svc.ChangePassword(ctx, u.ID, "secret1", "secret2", ClientMeta{IP: "10.0.0.1"}))

	stored, err := f.store.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, f.svc.Hasher.Verify("secret2", stored.PasswordHash))
	assert.False(t, f.svc.Hasher.Verify("secret1", stored.PasswordHash))

	require.Len(t, f.pub.Jobs, 1)
	assert.Equal(t, mailtpl.PasswordChanged, f.pub.Jobs[0].Template)
	assert.Equal(t, "10.0.0.1", f.pub.Jobs[0].Data["IP"])
}

func TestListAndSearchUsers(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture(t)
	ann := f.seed(t, "Ann", "a@x.com", "secret1")
	f.seed(t, "Bob", "b@x.com", "secret1")
	require.NoError(t, f.index.IndexUser(ctx, ann))

	users, err := f.svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	found, err := f.svc.SearchUsers(ctx, "ann", 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Empty(t, found[0].PasswordHash)

	f.svc.Index = nil
	found, err = f.svc.SearchUsers(ctx, "ann", 10)
	require.NoError(t, err)
	assert.Empty(t, found)
}
