package post

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/memoria-app/be-memoria-platform/config"
	"github.com/memoria-app/be-memoria-platform/middleware"
	"github.com/memoria-app/be-memoria-platform/pkg"
	"github.com/memoria-app/be-memoria-platform/pkg/apperrors"
	"github.com/memoria-app/be-memoria-platform/pkg/logger"
	"github.com/memoria-app/be-memoria-platform/utils"
)

// postQuery hydrates posts with author, counts and the caller's like and
// bookmark state. $1 is the caller's user id (0 for anonymous).
const postQuery = `
	SELECT p.id, p.user_id, p.content, p.created_at,
	       u.username, u.display_name, u.avatar_url, u.is_page,
	       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS like_count,
	       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count,
	       EXISTS(SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = $1) AS is_liked,
	       EXISTS(SELECT 1 FROM bookmarks b WHERE b.post_id = p.id AND b.user_id = $1) AS is_bookmarked
	FROM posts p
	JOIN users u ON u.id = p.user_id`

func (r postRow) author() Author {
	a := Author{ID: r.UserID, Username: r.Username, DisplayName: r.DisplayName, IsPage: r.IsPage}
	if r.AvatarURL.Valid {
		url := r.AvatarURL.String
		a.AvatarURL = &url
	}
	return a
}

func (r postRow) toPost(attachments []Media) Post {
	if attachments == nil {
		attachments = []Media{}
	}
	return Post{
		ID:                 r.ID,
		Content:            r.Content,
		CreatedAt:          r.CreatedAt,
		User:               r.author(),
		Attachments:        attachments,
		LikeCount:          r.LikeCount,
		CommentCount:       r.CommentCount,
		IsLikedByUser:      r.IsLiked,
		IsBookmarkedByUser: r.IsBookmarked,
	}
}

// loadAttachments batch-fetches media rows for a set of posts.
func loadAttachments(postIDs []int64) (map[int64][]Media, error) {
	byPost := make(map[int64][]Media, len(postIDs))
	if len(postIDs) == 0 {
		return byPost, nil
	}
	query, args, err := sqlx.In(`SELECT id, post_id, media_type, url, created_at FROM post_media WHERE post_id IN (?) ORDER BY id`, postIDs)
	if err != nil {
		return nil, err
	}
	var rows []Media
	if err := config.DB.Select(&rows, config.DB.Rebind(query), args...); err != nil {
		return nil, err
	}
	for _, m := range rows {
		byPost[m.PostID] = append(byPost[m.PostID], m)
	}
	return byPost, nil
}

func hydrate(rows []postRow) ([]Post, error) {
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	attachments, err := loadAttachments(ids)
	if err != nil {
		return nil, err
	}
	posts := make([]Post, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, r.toPost(attachments[r.ID]))
	}
	return posts, nil
}

func pageSize(c echo.Context) int {
	limit := defaultPageSize
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return limit
}

func cursor(c echo.Context) int64 {
	if raw := c.QueryParam("cursor"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

func postID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequest(apperrors.ErrCodeValidationFailed, "Invalid post ID")
	}
	return id, nil
}

// CreatePostHandler creates a post, optionally with previously uploaded media.
func CreatePostHandler(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	log := logger.FromContext(c.Request().Context())

	var req CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(apperrors.ErrCodeValidationFailed, "Invalid request body"))
	}
	req.Content = utils.SanitizeUserContent(req.Content)
	if req.Content == "" && len(req.MediaURLs) == 0 {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(apperrors.ErrCodeMissingField, "Post must have content or media"))
	}
	if len(req.Content) > maxContentLen {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(apperrors.ErrCodeValidationFailed, "Post content is too long"))
	}
	if len(req.MediaURLs) > maxAttachments {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(apperrors.ErrCodeValidationFailed, "Too many attachments"))
	}

	tx, err := config.DB.Beginx()
	if err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to create post", err))
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRow(`INSERT INTO posts (user_id, content) VALUES ($1, $2) RETURNING id`, userID, req.Content).Scan(&id)
	if err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to create post", err))
	}
	for _, url := range req.MediaURLs {
		mediaType := "IMAGE"
		if strings.HasSuffix(strings.ToLower(url), ".mp4") {
			mediaType = "VIDEO"
		}
		if _, err := tx.Exec(`INSERT INTO post_media (post_id, media_type, url) VALUES ($1, $2, $3)`, id, mediaType, url); err != nil {
			return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to attach media", err))
		}
	}
	if err := tx.Commit(); err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to create post", err))
	}

	log.Info("post created", logger.UserID(userID), logger.PostID(id))
	post, err := fetchPost(id, userID)
	if err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to load post", err))
	}
	return c.JSON(http.StatusCreated, post)
}

func fetchPost(id, callerID int64) (*Post, error) {
	var row postRow
	if err := config.DB.Get(&row, postQuery+` WHERE p.id = $2`, callerID, id); err != nil {
		return nil, err
	}
	posts, err := hydrate([]postRow{row})
	if err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// FeedHandler returns the global feed, newest first, with id-cursor pagination.
func FeedHandler(c echo.Context) error {
	callerID := middleware.UserIDFromContext(c)
	limit := pageSize(c)
	cur := cursor(c)

	query := postQuery
	args := []interface{}{callerID}
	if cur > 0 {
		query += ` WHERE p.id < $2 ORDER BY p.id DESC LIMIT $3`
		args = append(args, cur, limit+1)
	} else {
		query += ` ORDER BY p.id DESC LIMIT $2`
		args = append(args, limit+1)
	}

	var rows []postRow
	if err := config.DB.Select(&rows, query, args...); err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to load feed", err))
	}
	return respondPage(c, rows, limit)
}

func respondPage(c echo.Context, rows []postRow, limit int) error {
	var next *int64
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1].ID
		next = &last
	}
	posts, err := hydrate(rows)
	if err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to load feed", err))
	}
	return c.JSON(http.StatusOK, FeedResponse{Posts: posts, NextCursor: next})
}

// UserPostsHandler returns one user's posts, newest first.
func UserPostsHandler(c echo.Context) error {
	callerID := middleware.UserIDFromContext(c)
	username := strings.ToLower(strings.TrimSpace(c.Param("username")))
	limit := pageSize(c)
	cur := cursor(c)

	var targetID int64
	err := config.DB.Get(&targetID, `SELECT id FROM users WHERE LOWER(username) = $1`, username)
	if err == sql.ErrNoRows {
		return apperrors.RespondWithError(c, apperrors.NewNotFound(apperrors.ErrCodeUserNotFound, "User not found"))
	}
	if err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to load posts", err))
	}

	query := postQuery + ` WHERE p.user_id = $2`
	args := []interface{}{callerID, targetID}
	if cur > 0 {
		query += ` AND p.id < $3 ORDER BY p.id DESC LIMIT $4`
		args = append(args, cur, limit+1)
	} else {
		query += ` ORDER BY p.id DESC LIMIT $3`
		args = append(args, limit+1)
	}

	var rows []postRow
	if err := config.DB.Select(&rows, query, args...); err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to load posts", err))
	}
	return respondPage(c, rows, limit)
}

// GetPostHandler returns a single hydrated post.
func GetPostHandler(c echo.Context) error {
	callerID := middleware.UserIDFromContext(c)
	id, err := postID(c)
	if err != nil {
		return apperrors.RespondWithError(c, err.(*apperrors.AppError))
	}
	post, err := fetchPost(id, callerID)
	if err == sql.ErrNoRows {
		return apperrors.RespondWithError(c, apperrors.NewNotFound(apperrors.ErrCodePostNotFound, "Post not found"))
	}
	if err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to load post", err))
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePostHandler deletes the caller's own post and its stored media.
func DeletePostHandler(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	log := logger.FromContext(c.Request().Context())
	id, err := postID(c)
	if err != nil {
		return apperrors.RespondWithError(c, err.(*apperrors.AppError))
	}

	var ownerID int64
	err = config.DB.Get(&ownerID, `SELECT user_id FROM posts WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return apperrors.RespondWithError(c, apperrors.NewNotFound(apperrors.ErrCodePostNotFound, "Post not found"))
	}
	if err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to delete post", err))
	}
	if ownerID != userID {
		return apperrors.RespondWithError(c, apperrors.NewForbidden(apperrors.ErrCodeNotOwner, "You can only delete your own posts"))
	}

	var mediaURLs []string
	if err := config.DB.Select(&mediaURLs, `SELECT url FROM post_media WHERE post_id = $1`, id); err != nil {
		log.Warn("failed to list post media before delete", logger.PostID(id), logger.Err(err))
	}

	if _, err := config.DB.Exec(`DELETE FROM posts WHERE id = $1`, id); err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to delete post", err))
	}

	for _, url := range mediaURLs {
		if err := pkg.DeleteMedia(c.Request().Context(), url); err != nil {
			log.Warn("failed to delete stored media", logger.PostID(id), logger.Err(err))
		}
	}

	log.Info("post deleted", logger.UserID(userID), logger.PostID(id))
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

// LikeInfoHandler returns the like count and the caller's like state.
func LikeInfoHandler(c echo.Context) error {
	callerID := middleware.UserIDFromContext(c)
	id, err := postID(c)
	if err != nil {
		return apperrors.RespondWithError(c, err.(*apperrors.AppError))
	}
	info, err := likeInfo(id, callerID)
	if err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to load likes", err))
	}
	return c.JSON(http.StatusOK, info)
}

func likeInfo(postID, callerID int64) (LikeInfo, error) {
	var info LikeInfo
	err := config.DB.QueryRow(`
		SELECT (SELECT COUNT(*) FROM likes WHERE post_id = $1),
		       EXISTS(SELECT 1 FROM likes WHERE post_id = $1 AND user_id = $2)`,
		postID, callerID).Scan(&info.Likes, &info.IsLikedByUser)
	return info, err
}

func requirePost(id int64) *apperrors.AppError {
	var exists bool
	if err := config.DB.Get(&exists, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, id); err != nil {
		return apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to load post", err)
	}
	if !exists {
		return apperrors.NewNotFound(apperrors.ErrCodePostNotFound, "Post not found")
	}
	return nil
}

// LikeHandler records the caller's like. Liking twice is a no-op.
func LikeHandler(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	id, err := postID(c)
	if err != nil {
		return apperrors.RespondWithError(c, err.(*apperrors.AppError))
	}
	if appErr := requirePost(id); appErr != nil {
		return apperrors.RespondWithError(c, appErr)
	}
	if _, err := config.DB.Exec(`INSERT INTO likes (user_id, post_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, id); err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to like post", err))
	}
	info, err := likeInfo(id, userID)
	if err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to load likes", err))
	}
	return c.JSON(http.StatusOK, info)
}

// UnlikeHandler removes the caller's like. Unliking twice is a no-op.
func UnlikeHandler(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	id, err := postID(c)
	if err != nil {
		return apperrors.RespondWithError(c, err.(*apperrors.AppError))
	}
	if appErr := requirePost(id); appErr != nil {
		return apperrors.RespondWithError(c, appErr)
	}
	if _, err := config.DB.Exec(`DELETE FROM likes WHERE user_id = $1 AND post_id = $2`, userID, id); err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to unlike post", err))
	}
	info, err := likeInfo(id, userID)
	if err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to load likes", err))
	}
	return c.JSON(http.StatusOK, info)
}

// BookmarkInfoHandler returns whether the caller bookmarked the post.
func BookmarkInfoHandler(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	id, err := postID(c)
	if err != nil {
		return apperrors.RespondWithError(c, err.(*apperrors.AppError))
	}
	var info BookmarkInfo
	if err := config.DB.Get(&info.IsBookmarkedByUser, `SELECT EXISTS(SELECT 1 FROM bookmarks WHERE user_id = $1 AND post_id = $2)`, userID, id); err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to load bookmark", err))
	}
	return c.JSON(http.StatusOK, info)
}

// BookmarkHandler saves the post for the caller. Saving twice is a no-op.
func BookmarkHandler(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	id, err := postID(c)
	if err != nil {
		return apperrors.RespondWithError(c, err.(*apperrors.AppError))
	}
	if appErr := requirePost(id); appErr != nil {
		return apperrors.RespondWithError(c, appErr)
	}
	if _, err := config.DB.Exec(`INSERT INTO bookmarks (user_id, post_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, id); err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to bookmark post", err))
	}
	return c.JSON(http.StatusOK, BookmarkInfo{IsBookmarkedByUser: true})
}

// UnbookmarkHandler removes the caller's bookmark.
func UnbookmarkHandler(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	id, err := postID(c)
	if err != nil {
		return apperrors.RespondWithError(c, err.(*apperrors.AppError))
	}
	if _, err := config.DB.Exec(`DELETE FROM bookmarks WHERE user_id = $1 AND post_id = $2`, userID, id); err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to remove bookmark", err))
	}
	return c.JSON(http.StatusOK, BookmarkInfo{IsBookmarkedByUser: false})
}

// bookmarksQuery repeats the hydration columns plus the bookmark id, which
// is the pagination axis: the listing orders by when the caller saved the
// post, not by when the post was created.
const bookmarksQuery = `
	SELECT p.id, p.user_id, p.content, p.created_at, bm.id AS bookmark_id,
	       u.username, u.display_name, u.avatar_url, u.is_page,
	       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS like_count,
	       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count,
	       EXISTS(SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = $1) AS is_liked,
	       TRUE AS is_bookmarked
	FROM posts p
	JOIN users u ON u.id = p.user_id
	JOIN bookmarks bm ON bm.post_id = p.id AND bm.user_id = $1`

func bookmarksPageQuery(userID, cursor int64, limit int) (string, []interface{}) {
	query := bookmarksQuery
	args := []interface{}{userID}
	if cursor > 0 {
		query += ` WHERE bm.id < $2 ORDER BY bm.id DESC LIMIT $3`
		args = append(args, cursor, limit+1)
	} else {
		query += ` ORDER BY bm.id DESC LIMIT $2`
		args = append(args, limit+1)
	}
	return query, args
}

func bookmarkPage(rows []postRow, limit int) ([]postRow, *int64) {
	if len(rows) <= limit {
		return rows, nil
	}
	rows = rows[:limit]
	last := rows[len(rows)-1].BookmarkID
	return rows, &last
}

// BookmarksHandler lists the caller's saved posts, most recently saved first.
func BookmarksHandler(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	limit := pageSize(c)
	query, args := bookmarksPageQuery(userID, cursor(c), limit)

	var rows []postRow
	if err := config.DB.Select(&rows, query, args...); err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to load bookmarks", err))
	}

	rows, next := bookmarkPage(rows, limit)
	posts, err := hydrate(rows)
	if err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to load bookmarks", err))
	}
	return c.JSON(http.StatusOK, FeedResponse{Posts: posts, NextCursor: next})
}

func (r commentRow) toComment() Comment {
	author := Author{ID: r.UserID, Username: r.Username, DisplayName: r.DisplayName, IsPage: r.IsPage}
	if r.AvatarURL.Valid {
		url := r.AvatarURL.String
		author.AvatarURL = &url
	}
	return Comment{ID: r.ID, PostID: r.PostID, Content: r.Content, CreatedAt: r.CreatedAt, User: author}
}

// CommentsHandler lists a post's comments, oldest first.
func CommentsHandler(c echo.Context) error {
	id, err := postID(c)
	if err != nil {
		return apperrors.RespondWithError(c, err.(*apperrors.AppError))
	}
	if appErr := requirePost(id); appErr != nil {
		return apperrors.RespondWithError(c, appErr)
	}
	limit := pageSize(c)
	cur := cursor(c)

	query := `
		SELECT c.id, c.post_id, c.user_id, c.content, c.created_at,
		       u.username, u.display_name, u.avatar_url, u.is_page
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1`
	args := []interface{}{id}
	if cur > 0 {
		query += ` AND c.id > $2 ORDER BY c.id LIMIT $3`
		args = append(args, cur, limit+1)
	} else {
		query += ` ORDER BY c.id LIMIT $2`
		args = append(args, limit+1)
	}

	var rows []commentRow
	if err := config.DB.Select(&rows, query, args...); err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to load comments", err))
	}

	var next *int64
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1].ID
		next = &last
	}
	comments := make([]Comment, 0, len(rows))
	for _, r := range rows {
		comments = append(comments, r.toComment())
	}
	return c.JSON(http.StatusOK, CommentsResponse{Comments: comments, NextCursor: next})
}

// CreateCommentHandler adds the caller's comment to a post.
func CreateCommentHandler(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	log := logger.FromContext(c.Request().Context())
	id, err := postID(c)
	if err != nil {
		return apperrors.RespondWithError(c, err.(*apperrors.AppError))
	}

	var req CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(apperrors.ErrCodeValidationFailed, "Invalid request body"))
	}
	req.Content = utils.SanitizeUserContent(req.Content)
	if req.Content == "" {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(apperrors.ErrCodeMissingField, "Comment content is required"))
	}
	if len(req.Content) > maxContentLen {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(apperrors.ErrCodeValidationFailed, "Comment is too long"))
	}
	if appErr := requirePost(id); appErr != nil {
		return apperrors.RespondWithError(c, appErr)
	}

	var row commentRow
	err = config.DB.Get(&row, `
		WITH inserted AS (
			INSERT INTO comments (post_id, user_id, content) VALUES ($1, $2, $3)
			RETURNING id, post_id, user_id, content, created_at
		)
		SELECT i.id, i.post_id, i.user_id, i.content, i.created_at,
		       u.username, u.display_name, u.avatar_url, u.is_page
		FROM inserted i JOIN users u ON u.id = i.user_id`,
		id, userID, req.Content)
	if err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to create comment", err))
	}

	log.Info("comment created", logger.UserID(userID), logger.PostID(id), logger.CommentID(row.ID))
	return c.JSON(http.StatusCreated, row.toComment())
}

// DeleteCommentHandler deletes a comment owned by the caller, or any comment
// on the caller's own post.
func DeleteCommentHandler(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	log := logger.FromContext(c.Request().Context())
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(apperrors.ErrCodeValidationFailed, "Invalid comment ID"))
	}

	var authorID, postOwnerID int64
	err = config.DB.QueryRow(`
		SELECT c.user_id, p.user_id FROM comments c
		JOIN posts p ON p.id = c.post_id
		WHERE c.id = $1`, id).Scan(&authorID, &postOwnerID)
	if err == sql.ErrNoRows {
		return apperrors.RespondWithError(c, apperrors.NewNotFound(apperrors.ErrCodeCommentNotFound, "Comment not found"))
	}
	if err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to delete comment", err))
	}
	if authorID != userID && postOwnerID != userID {
		return apperrors.RespondWithError(c, apperrors.NewForbidden(apperrors.ErrCodeNotOwner, "You can only delete your own comments"))
	}

	if _, err := config.DB.Exec(`DELETE FROM comments WHERE id = $1`, id); err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to delete comment", err))
	}
	log.Info("comment deleted", logger.UserID(userID), logger.CommentID(id))
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

// UploadMediaHandler stores a media file for later attachment to a post.
func UploadMediaHandler(c echo.Context) error {
	userID := middleware.UserIDFromContext(c)
	log := logger.FromContext(c.Request().Context())

	file, err := c.FormFile("file")
	if err != nil {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(apperrors.ErrCodeUploadMissingFile, "No file provided"))
	}
	if file.Size > pkg.MaxUploadSize {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(apperrors.ErrCodeUploadTooLarge, "File exceeds the upload size limit"))
	}
	contentType := file.Header.Get("Content-Type")
	if !pkg.IsAllowedMediaType(contentType) {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(apperrors.ErrCodeUploadBadType, "Unsupported media type"))
	}

	src, err := file.Open()
	if err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeStorageError, "Failed to read uploaded file", err))
	}
	defer src.Close()

	url, err := pkg.UploadMedia(c.Request().Context(), "posts", contentType, src)
	if err != nil {
		return apperrors.RespondWithError(c, apperrors.NewInternal(apperrors.ErrCodeStorageError, "Failed to store file", err))
	}

	mediaType := "IMAGE"
	if pkg.IsVideoType(contentType) {
		mediaType = "VIDEO"
	}
	log.Info("media uploaded", logger.UserID(userID), logger.String("url", url))
	return c.JSON(http.StatusCreated, map[string]interface{}{"url": url, "type": mediaType})
}
