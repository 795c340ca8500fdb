package domain

import (
	"testing"

	"github.com/haierkeys/note-share-service/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_PasswordMatches(t *testing.T) {
	hash, err := util.GeneratePasswordHash("s3cret")
	require.NoError(t, err)

	u := &User{UID: 1, Username: "alice", Password: hash}
	assert.True(t, u.PasswordMatches("s3cret"))
	assert.False(t, u.PasswordMatches("wrong"))
	assert.False(t, u.PasswordMatches(""))

	u.IsDeleted = true
	assert.False(t, u.PasswordMatches("s3cret"))

	var nilUser *User
	assert.False(t, nilUser.PasswordMatches("s3cret"))
}
