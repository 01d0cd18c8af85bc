package user

import (
	"database/sql"
	"time"
)

// User mirrors the users table columns this domain reads.
type User struct {
	ID          int64          `db:"id"`
	Username    string         `db:"username"`
	Email       string         `db:"email"`
	DisplayName string         `db:"display_name"`
	Bio         string         `db:"bio"`
	AvatarURL   sql.NullString `db:"avatar_url"`
	IsPage      bool           `db:"is_page"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// profileRow is the hydrated profile query result.
type profileRow struct {
	ID             int64          `db:"id"`
	Username       string         `db:"username"`
	DisplayName    string         `db:"display_name"`
	Bio            string         `db:"bio"`
	AvatarURL      sql.NullString `db:"avatar_url"`
	IsPage         bool           `db:"is_page"`
	CreatedAt      time.Time      `db:"created_at"`
	FollowerCount  int            `db:"follower_count"`
	FollowingCount int            `db:"following_count"`
	PostCount      int            `db:"post_count"`
	IsFollowed     bool           `db:"is_followed"`
}

// Profile is the profile payload returned to clients.
type Profile struct {
	ID               int64      `json:"id"`
	Username         string     `json:"username"`
	DisplayName      string     `json:"displayName"`
	Bio              string     `json:"bio"`
	AvatarURL        *string    `json:"avatarUrl"`
	IsPage           bool       `json:"isPage"`
	FollowerCount    int        `json:"followerCount"`
	FollowingCount   int        `json:"followingCount"`
	PostCount        int        `json:"postCount"`
	IsFollowedByUser bool       `json:"isFollowedByUser"`
	LastActiveAt     *time.Time `json:"lastActiveAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// UpdateProfileRequest is the body of PUT /users/me.
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
}

// ProfileSearchResult is one row of GET /search/profiles.
type ProfileSearchResult struct {
	ID               int64   `json:"id"`
	Username         string  `json:"username"`
	DisplayName      string  `json:"displayName"`
	AvatarURL        *string `json:"avatarUrl"`
	Bio              string  `json:"bio"`
	IsFollowedByUser bool    `json:"isFollowedByUser"`
	FollowerCount    int     `json:"followerCount"`
}

const searchResultLimit = 10
