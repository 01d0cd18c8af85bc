package post

import (
	"database/sql"
	"time"
)

// Author is the post/comment author payload embedded in responses.
type Author struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl"`
	IsPage      bool    `json:"isPage"`
}

// Media is one attachment of a post.
type Media struct {
	ID        int64     `json:"id" db:"id"`
	PostID    int64     `json:"-" db:"post_id"`
	Type      string    `json:"type" db:"media_type"`
	URL       string    `json:"url" db:"url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Post is the hydrated post payload.
type Post struct {
	ID                 int64     `json:"id"`
	Content            string    `json:"content"`
	CreatedAt          time.Time `json:"createdAt"`
	User               Author    `json:"user"`
	Attachments        []Media   `json:"attachments"`
	LikeCount          int       `json:"likeCount"`
	CommentCount       int       `json:"commentCount"`
	IsLikedByUser      bool      `json:"isLikedByUser"`
	IsBookmarkedByUser bool      `json:"isBookmarkedByUser"`
}

// postRow is the raw hydration query result.
type postRow struct {
	ID           int64          `db:"id"`
	UserID       int64          `db:"user_id"`
	Content      string         `db:"content"`
	CreatedAt    time.Time      `db:"created_at"`
	Username     string         `db:"username"`
	DisplayName  string         `db:"display_name"`
	AvatarURL    sql.NullString `db:"avatar_url"`
	IsPage       bool           `db:"is_page"`
	LikeCount    int            `db:"like_count"`
	CommentCount int            `db:"comment_count"`
	IsLiked      bool           `db:"is_liked"`
	IsBookmarked bool           `db:"is_bookmarked"`

	// Only populated by the bookmarks listing, which paginates on the
	// bookmark row rather than the post.
	BookmarkID int64 `db:"bookmark_id"`
}

// Comment is the comment payload.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"postId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	User      Author    `json:"user"`
}

type commentRow struct {
	ID          int64          `db:"id"`
	PostID      int64          `db:"post_id"`
	UserID      int64          `db:"user_id"`
	Content     string         `db:"content"`
	CreatedAt   time.Time      `db:"created_at"`
	Username    string         `db:"username"`
	DisplayName string         `db:"display_name"`
	AvatarURL   sql.NullString `db:"avatar_url"`
	IsPage      bool           `db:"is_page"`
}

// CreatePostRequest is the body of POST /posts.
type CreatePostRequest struct {
	Content   string   `json:"content"`
	MediaURLs []string `json:"mediaUrls"`
}

// CreateCommentRequest is the body of POST /posts/:id/comments.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// FeedResponse is a cursor-paginated page of posts.
type FeedResponse struct {
	Posts      []Post `json:"posts"`
	NextCursor *int64 `json:"nextCursor"`
}

// CommentsResponse is a cursor-paginated page of comments, oldest first.
type CommentsResponse struct {
	Comments   []Comment `json:"comments"`
	NextCursor *int64    `json:"nextCursor"`
}

// LikeInfo is the payload of GET /posts/:id/likes.
type LikeInfo struct {
	Likes         int  `json:"likes"`
	IsLikedByUser bool `json:"isLikedByUser"`
}

// BookmarkInfo is the payload of GET /posts/:id/bookmark.
type BookmarkInfo struct {
	IsBookmarkedByUser bool `json:"isBookmarkedByUser"`
}

const (
	defaultPageSize = 10
	maxPageSize     = 50
	maxContentLen   = 5000
	maxAttachments  = 5
)
