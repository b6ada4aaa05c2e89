package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlogDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	blog, err := NewBlog(BlogInput{
		Title:    "Hello",
		Content:  "World",
		Category: "Tech",
		Author:   Author{Name: "Ada", Email: "ada@example.com"},
	}, now)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, blog.Status)
	assert.False(t, blog.Approved)
	assert.False(t, blog.Denied)
	assert.False(t, blog.EditorsPick)
	assert.Nil(t, blog.ApprovedAt)
	assert.True(t, blog.ID.IsZero())
	assert.Equal(t, now, blog.PostAt)
}

func TestNewBlogKeepsPostAt(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	blog, err := NewBlog(BlogInput{Title: "t", PostAt: &at}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, at, blog.PostAt)
}

func TestNewBlogRejectsBadAuthorEmail(t *testing.T) {
	_, err := NewBlog(BlogInput{Title: "t", Author: Author{Email: "not-an-email"}}, time.Now())

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "email", verr.Fields["author.email"])
}

func TestNewUser(t *testing.T) {
	tests := []struct {
		name    string
		in      UserInput
		wantErr string
	}{
		{name: "email only", in: UserInput{Email: " reader@example.com "}},
		{name: "full profile", in: UserInput{Email: "a@example.com", Name: "A", ProfileImage: "https://img.example/a.png", Role: "author"}},
		{name: "missing email", in: UserInput{Name: "nobody"}, wantErr: "required"},
		{name: "bad email", in: UserInput{Email: "nope"}, wantErr: "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := NewUser(tt.in)
			if tt.wantErr != "" {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr), "got %v", err)
				assert.Equal(t, tt.wantErr, verr.Fields["email"])
				return
			}
			require.NoError(t, err)
			assert.NotContains(t, user.Email, " ")
			assert.Equal(t, tt.in.Role, user.Role)
		})
	}
}

func TestNewUserOptionalFieldsDefaultEmpty(t *testing.T) {
	user, err := NewUser(UserInput{Email: "x@example.com"})
	require.NoError(t, err)
	assert.Empty(t, user.Name)
	assert.Empty(t, user.Phone)
	assert.Empty(t, user.Bio)
	assert.Empty(t, user.Role)
}

func TestEditorsPickUpdateRequiresValue(t *testing.T) {
	err := Validate(EditorsPickUpdate{})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "required", verr.Fields["editorsPick"])

	f := false
	assert.NoError(t, Validate(EditorsPickUpdate{EditorsPick: &f}))
}

func TestUpdatesEmpty(t *testing.T) {
	assert.True(t, BlogUpdate{}.Empty())
	title := "x"
	assert.False(t, BlogUpdate{Title: &title}.Empty())
	assert.True(t, ProfileUpdate{}.Empty())
	assert.False(t, ProfileUpdate{Bio: &title}.Empty())
}
