package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/minisocial/minisocial/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPost(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup(t, "alice", "secret1")
	aliceID := app.userID(t, "alice")

	resp := alice.post("/add_post", url.Values{"title": {"hello"}, "text": {"first post"}})
	require.Equal(t, http.StatusFound, resp.status)
	assert.Equal(t, fmt.Sprintf("/profile/%d", aliceID), resp.location)

	body := alice.get(resp.location).body
	assert.Contains(t, body, "Post was created successfully!")
	assert.Contains(t, body, "first post")
}

func TestAddPostValidation(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup(t, "alice", "secret1")

	resp := alice.post("/add_post", url.Values{"title": {""}, "text": {"body"}})
	assert.Equal(t, http.StatusOK, resp.status)
	assert.Contains(t, resp.body, "This field is required.")
	assert.Equal(t, int64(0), app.count(t, &models.Post{}))
}

func TestAddPostDuplicateTitle(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup(t, "alice", "secret1")
	bob := app.signup(t, "bob", "secret2")

	require.Equal(t, http.StatusFound, alice.post("/add_post", url.Values{"title": {"hello"}, "text": {"one"}}).status)

	resp := bob.post("/add_post", url.Values{"title": {"hello"}, "text": {"two"}})
	assert.Equal(t, http.StatusConflict, resp.status)
	assert.Equal(t, int64(1), app.count(t, &models.Post{}))
}

func TestLikeToggle(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup(t, "alice", "secret1")
	app.signup(t, "bob", "secret2")
	bobID := app.userID(t, "bob")
	post := app.createPost(t, bobID, "hello")
	profile := fmt.Sprintf("/profile/%d", bobID)
	like := fmt.Sprintf("/like/%d", post.ID)

	resp := alice.postFrom(profile, like, nil)
	require.Equal(t, http.StatusFound, resp.status)
	assert.Equal(t, profile, resp.location)
	assert.Equal(t, int64(1), app.count(t, &models.PostLike{}))

	body := alice.get(profile).body
	assert.Contains(t, body, "Unlike")
	assert.Contains(t, body, "1 likes")

	require.Equal(t, http.StatusFound, alice.postFrom(profile, like, nil).status)
	assert.Equal(t, int64(0), app.count(t, &models.PostLike{}))
	assert.Contains(t, alice.get(profile).body, "0 likes")

	assert.Equal(t, http.StatusNotFound, alice.post("/like/999", nil).status)
}
