package auth

import (
	"testing"

	"katmarket-backend/internal/domain"
	"katmarket-backend/internal/pkg/constants"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, password string) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	require.NoError(t, err)
	u := &domain.User{
		UserName: "tester", Email: email, PasswordHash: string(hash),
		Fullname: "Test User", Role: constants.Seller,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestLoginUser(t *testing.T) {
	db := setupAuthDB(t)
	seedUser(t, db, "seller@example.com", "Pass1!word")

	u, err := LoginUser(db, LoginInput{Email: "seller@example.com", Password: "Pass1!word"})
	require.NoError(t, err)
	assert.Equal(t, "seller@example.com", u.Email)

	_, err = LoginUser(db, LoginInput{Email: "", Password: "x"})
	assert.ErrorIs(t, err, ErrEmailPasswordRequired)

	_, err = LoginUser(db, LoginInput{Email: "nobody@example.com", Password: "Pass1!word"})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = LoginUser(db, LoginInput{Email: "seller@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrIncorrectPassword)
}

func TestVerifyUser(t *testing.T) {
	_, err := VerifyUser(nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = VerifyUser("not a map")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = VerifyUser(map[string]interface{}{"fullname": "No ID"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	shape, err := VerifyUser(map[string]interface{}{
		"user_id": "abc", "fullname": "Jan", "email": "jan@example.com", "role": "seller",
	})
	require.NoError(t, err)
	assert.Equal(t, "abc", shape.UserID)
	assert.Equal(t, "seller", shape.Role)
}
