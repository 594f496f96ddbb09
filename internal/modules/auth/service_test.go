package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "modernc.org/sqlite"

	"aqarat/internal/domain"
	"aqarat/internal/repository"
)

type staticTokens struct{}

func (staticTokens) GenerateToken(userID int64, role string) (string, error) {
	return fmt.Sprintf("token-%d-%s", userID, role), nil
}

func setupAuthService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:auth_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		},
	)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	return NewService(repository.NewUserRepository(db), staticTokens{})
}

func TestRegisterAndLogin(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterRequest{
		Name: "Amina", Email: "Amina@Example.com", Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "amina@example.com", res.User.Email)
	assert.Equal(t, domain.RoleClient, res.User.Role)
	assert.Empty(t, res.User.PasswordHash)
	assert.NotEmpty(t, res.Token)

	// Same email, any casing.
	_, err = svc.Register(ctx, RegisterRequest{
		Name: "Someone", Email: "AMINA@example.com", Password: "secret2",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	login, err := svc.Login(ctx, LoginRequest{Email: "amina@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = svc.Login(ctx, LoginRequest{Email: "amina@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterOwnerRole(t *testing.T) {
	svc := setupAuthService(t)

	res, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Khalid", Email: "khalid@example.com", Password: "secret1", Role: "owner",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, res.User.Role)
}
