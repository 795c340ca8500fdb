package service

import (
	"context"
	"testing"

	"github.com/haierkeys/note-share-service/internal/dao"
	"github.com/haierkeys/note-share-service/internal/domain"
	"github.com/haierkeys/note-share-service/internal/dto"
	"github.com/haierkeys/note-share-service/pkg/app"
	"github.com/haierkeys/note-share-service/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserService_Register(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.users.Register(ctx, &dto.UserCreateRequest{
		Email:           "alice@example.com",
		Username:        "alice",
		Password:        "pw",
		ConfirmPassword: "pw",
	})
	require.NoError(t, err)
	assert.Positive(t, u.UID)
	assert.Empty(t, u.Token)

	tests := []struct {
		name    string
		request *dto.UserCreateRequest
		want    *code.Code
	}{
		{"duplicate email", &dto.UserCreateRequest{Email: "alice@example.com", Username: "alice2", Password: "pw", ConfirmPassword: "pw"}, code.ErrorUserEmailAlreadyExists},
		{"duplicate username", &dto.UserCreateRequest{Email: "other@example.com", Username: "alice", Password: "pw", ConfirmPassword: "pw"}, code.ErrorUserAlreadyExists},
		{"bad username", &dto.UserCreateRequest{Email: "x@example.com", Username: "a b", Password: "pw", ConfirmPassword: "pw"}, code.ErrorUserUsernameNotValid},
		{"bad email", &dto.UserCreateRequest{Email: "nope", Username: "xavier", Password: "pw", ConfirmPassword: "pw"}, code.ErrorInvalidParams},
		{"password mismatch", &dto.UserCreateRequest{Email: "x@example.com", Username: "xavier", Password: "pw", ConfirmPassword: "wp"}, code.ErrorUserPasswordNotMatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.users.Register(ctx, tt.request)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// racingUserRepo inserts a competing user right before the real insert,
// after Register has already checked uniqueness.
type racingUserRepo struct {
	domain.UserRepository
	rival *domain.User
}

func (r *racingUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if r.rival != nil {
		rival := r.rival
		r.rival = nil
		if _, err := r.UserRepository.Create(ctx, rival); err != nil {
			return nil, err
		}
	}
	return r.UserRepository.Create(ctx, user)
}

func TestUserService_RegisterLosesRace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		rival   *domain.User
		request *dto.UserCreateRequest
		want    *code.Code
	}{
		{
			"same username",
			&domain.User{Username: "alice", Email: "rival@example.com", Password: "x"},
			&dto.UserCreateRequest{Email: "alice@example.com", Username: "alice", Password: "pw", ConfirmPassword: "pw"},
			code.ErrorUserAlreadyExists,
		},
		{
			"same email",
			&domain.User{Username: "rival", Email: "bob@example.com", Password: "x"},
			&dto.UserCreateRequest{Email: "bob@example.com", Username: "bob", Password: "pw", ConfirmPassword: "pw"},
			code.ErrorUserEmailAlreadyExists,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &racingUserRepo{UserRepository: env.userRepo, rival: tt.rival}
			svc := NewUserService(repo, app.NewTokenManager(app.TokenConfig{SecretKey: "k"}), zap.NewNop(),
				&ServiceConfig{User: UserServiceConfig{RegisterIsEnable: true}})

			_, err := svc.Register(ctx, tt.request)
			assert.ErrorIs(t, err, tt.want)
			assert.NotErrorIs(t, err, code.ErrorDBQuery)
		})
	}
}

func TestUserService_RegisterDisabled(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(dao.NewUserRepository(env.dao), app.NewTokenManager(app.TokenConfig{SecretKey: "k"}), zap.NewNop(), &ServiceConfig{})

	_, err := svc.Register(context.Background(), &dto.UserCreateRequest{
		Email: "a@example.com", Username: "alice", Password: "pw", ConfirmPassword: "pw",
	})
	assert.ErrorIs(t, err, code.ErrorUserRegisterIsDisable)
}

func TestUserService_Login(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")
	ctx := context.Background()

	byEmail, err := env.users.Login(ctx, &dto.UserLoginRequest{Credentials: "alice@example.com", Password: "secret-alice"}, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, alice, byEmail.UID)
	require.NotEmpty(t, byEmail.Token)

	entity, err := app.ParseTokenWithKey(byEmail.Token, "test-key")
	require.NoError(t, err)
	assert.Equal(t, alice, entity.UID)
	assert.Equal(t, "127.0.0.1", entity.IP)

	byName, err := env.users.Login(ctx, &dto.UserLoginRequest{Username: "alice", Password: "secret-alice"}, "")
	require.NoError(t, err)
	assert.Equal(t, alice, byName.UID)

	_, err = env.users.Login(ctx, &dto.UserLoginRequest{Credentials: "alice", Password: "wrong"}, "")
	assert.ErrorIs(t, err, code.ErrorUserLoginFailed)

	_, err = env.users.Login(ctx, &dto.UserLoginRequest{Credentials: "nobody", Password: "x"}, "")
	assert.ErrorIs(t, err, code.ErrorUserLoginFailed)

	_, err = env.users.Login(ctx, &dto.UserLoginRequest{Password: "x"}, "")
	assert.ErrorIs(t, err, code.ErrorUserLoginFailed)
}

func TestUserService_ChangePassword(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")
	ctx := context.Background()

	err := env.users.ChangePassword(ctx, alice, &dto.UserChangePasswordRequest{OldPassword: "bad", Password: "n", ConfirmPassword: "n"})
	assert.ErrorIs(t, err, code.ErrorUserOldPasswordFailed)

	err = env.users.ChangePassword(ctx, alice, &dto.UserChangePasswordRequest{OldPassword: "secret-alice", Password: "n", ConfirmPassword: "m"})
	assert.ErrorIs(t, err, code.ErrorUserPasswordNotMatch)

	require.NoError(t, env.users.ChangePassword(ctx, alice, &dto.UserChangePasswordRequest{OldPassword: "secret-alice", Password: "fresh", ConfirmPassword: "fresh"}))

	_, err = env.users.Login(ctx, &dto.UserLoginRequest{Credentials: "alice", Password: "secret-alice"}, "")
	assert.ErrorIs(t, err, code.ErrorUserLoginFailed)
	_, err = env.users.Login(ctx, &dto.UserLoginRequest{Credentials: "alice", Password: "fresh"}, "")
	assert.NoError(t, err)
}

func TestUserService_InfoAndResolve(t *testing.T) {
	env := newTestEnv(t)
	alice := env.mustUser(t, "alice")
	ctx := context.Background()

	info, err := env.users.GetInfo(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", info.Username)
	assert.Equal(t, "alice@example.com", info.Email)

	_, err = env.users.GetInfo(ctx, alice+100)
	assert.ErrorIs(t, err, code.ErrorUserNotFound)

	uid, err := env.users.ResolveUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice, uid)

	_, err = env.users.ResolveUsername(ctx, "ghost")
	assert.ErrorIs(t, err, code.ErrorUserNotFound)
}
