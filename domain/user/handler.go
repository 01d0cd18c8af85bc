package user

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/memoria-app/be-memoria-platform/config"
	"github.com/memoria-app/be-memoria-platform/middleware"
	"github.com/memoria-app/be-memoria-platform/pkg"
	"github.com/memoria-app/be-memoria-platform/pkg/apperrors"
	"github.com/memoria-app/be-memoria-platform/pkg/logger"
	"github.com/memoria-app/be-memoria-platform/utils"
)

const profileQuery = `
	SELECT u.id, u.username, u.display_name, u.bio, u.avatar_url, u.is_page, u.created_at,
	       (SELECT COUNT(*) FROM follows f WHERE f.following_id = u.id) AS follower_count,
	       (SELECT COUNT(*) FROM follows f WHERE f.follower_id = u.id) AS following_count,
	       (SELECT COUNT(*) FROM posts p WHERE p.user_id = u.id) AS post_count,
	       EXISTS(SELECT 1 FROM follows f WHERE f.follower_id = $2 AND f.following_id = u.id) AS is_followed
	FROM users u
	WHERE LOWER(u.username) = LOWER($1)`

func fetchProfile(username string, viewerID int64) (Profile, error) {
	var row profileRow
	if err := config.DB.Get(&row, profileQuery, username, viewerID); err != nil {
		return Profile{}, err
	}
	return row.toProfile(), nil
}

func (r profileRow) toProfile() Profile {
	p := Profile{
		ID:               r.ID,
		Username:         r.Username,
		DisplayName:      r.DisplayName,
		Bio:              r.Bio,
		IsPage:           r.IsPage,
		FollowerCount:    r.FollowerCount,
		FollowingCount:   r.FollowingCount,
		PostCount:        r.PostCount,
		IsFollowedByUser: r.IsFollowed,
		CreatedAt:        r.CreatedAt,
	}
	if r.AvatarURL.Valid {
		p.AvatarURL = &r.AvatarURL.String
	}
	p.LastActiveAt = config.GetLastActive(r.ID)
	return p
}

// GetUserByUsernameHandler returns a profile hydrated with follower counts
// and the caller's follow state. GET /users/username/:username
func GetUserByUsernameHandler(c echo.Context) error {
	log := logger.Get().WithComponent("user")
	viewerID := middleware.UserIDFromContext(c)
	username := c.Param("username")

	profile, err := fetchProfile(username, viewerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperrors.RespondWithError(c, apperrors.NewNotFound(
				apperrors.ErrCodeUserNotFound,
				"User not found.",
			))
		}
		log.Error("Failed to fetch profile", err, logger.Username(username))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	return c.JSON(http.StatusOK, profile)
}

// UpdateMeHandler updates the caller's display name and bio. PUT /users/me
func UpdateMeHandler(c echo.Context) error {
	log := logger.Get().WithComponent("user")
	userID := middleware.UserIDFromContext(c)
	log = log.WithUserID(userID)

	req := new(UpdateProfileRequest)
	if err := c.Bind(req); err != nil {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeValidationFailed,
			"Invalid request payload.",
		))
	}

	req.DisplayName = utils.SanitizeUserContent(req.DisplayName)
	req.Bio = utils.SanitizeUserContent(req.Bio)
	if req.DisplayName == "" {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeMissingField,
			"displayName is required.",
		))
	}
	if len(req.Bio) > 1000 {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeValidationFailed,
			"Bio must be at most 1000 characters.",
		))
	}

	var username string
	err := config.DB.QueryRow(`
		UPDATE users SET display_name = $1, bio = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING username
	`, req.DisplayName, req.Bio, userID).Scan(&username)
	if err != nil {
		log.Error("Failed to update profile", err)
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	profile, err := fetchProfile(username, userID)
	if err != nil {
		log.Error("Failed to fetch updated profile", err)
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	log.Info("Profile updated")
	return c.JSON(http.StatusOK, profile)
}

// UploadAvatarHandler stores a new avatar in S3 and persists its URL.
// POST /users/me/avatar (multipart field "avatar")
func UploadAvatarHandler(c echo.Context) error {
	log := logger.Get().WithComponent("user")
	userID := middleware.UserIDFromContext(c)
	log = log.WithUserID(userID)

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeUploadMissingFile,
			"No file uploaded.",
		))
	}
	if fileHeader.Size > pkg.MaxUploadSize {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeUploadTooLarge,
			"File exceeds the maximum upload size.",
		))
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !pkg.IsAllowedMediaType(contentType) || pkg.IsVideoType(contentType) {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeUploadBadType,
			"Avatar must be an image.",
		))
	}

	src, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", err)
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeUnexpectedError,
			"Internal server error.",
			err,
		))
	}
	defer src.Close()

	avatarURL, err := pkg.UploadMedia(c.Request().Context(), "avatars", contentType, src)
	if err != nil {
		log.Error("Failed to upload avatar", err)
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeStorageError,
			"Error saving file.",
			err,
		))
	}

	if _, err := config.DB.Exec(`
		UPDATE users SET avatar_url = $1, updated_at = NOW() WHERE id = $2
	`, avatarURL, userID); err != nil {
		log.Error("Failed to persist avatar URL", err)
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	log.Info("Avatar updated")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":   true,
		"avatarUrl": avatarURL,
	})
}

// FollowToggleHandler follows the target when not yet followed and
// unfollows otherwise, in one transaction.
// POST /users/username/:username/follow
func FollowToggleHandler(c echo.Context) error {
	log := logger.Get().WithComponent("user")
	userID := middleware.UserIDFromContext(c)
	log = log.WithUserID(userID)
	username := c.Param("username")

	var targetID int64
	err := config.DB.Get(&targetID,
		"SELECT id FROM users WHERE LOWER(username) = LOWER($1)", username)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperrors.RespondWithError(c, apperrors.NewNotFound(
				apperrors.ErrCodeUserNotFound,
				"User not found.",
			))
		}
		log.Error("Failed to resolve follow target", err, logger.Username(username))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	if targetID == userID {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeSelfFollow,
			"Cannot follow yourself.",
		))
	}

	tx, err := config.DB.Beginx()
	if err != nil {
		log.Error("Failed to begin follow transaction", err)
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.Get(&exists, `
		SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)
	`, userID, targetID); err != nil {
		log.Error("Failed to check follow state", err, logger.TargetUserID(targetID))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	isFollowing := !exists
	if exists {
		_, err = tx.Exec(`DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`, userID, targetID)
	} else {
		_, err = tx.Exec(`
			INSERT INTO follows (follower_id, following_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, userID, targetID)
	}
	if err != nil {
		log.Error("Failed to toggle follow", err, logger.TargetUserID(targetID))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	var row profileRow
	if err := tx.Get(&row, profileQuery, username, userID); err != nil {
		log.Error("Failed to fetch updated profile in follow toggle", err)
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit follow toggle", err)
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	log.Info("Follow toggled",
		logger.TargetUserID(targetID),
		logger.Bool("is_following", isFollowing),
	)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":     true,
		"isFollowing": isFollowing,
		"user":        row.toProfile(),
	})
}

// SearchProfilesHandler matches usernames and display names case
// insensitively. Anonymous callers are allowed; follow state is only
// resolved for logged-in ones. GET /search/profiles?q=
func SearchProfilesHandler(c echo.Context) error {
	log := logger.Get().WithComponent("user")
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeMissingField,
			"Query parameter is required.",
		))
	}

	viewerID := middleware.UserIDFromContext(c)

	type searchRow struct {
		ID            int64          `db:"id"`
		Username      string         `db:"username"`
		DisplayName   string         `db:"display_name"`
		AvatarURL     sql.NullString `db:"avatar_url"`
		Bio           string         `db:"bio"`
		FollowerCount int            `db:"follower_count"`
		IsFollowed    bool           `db:"is_followed"`
	}

	var rows []searchRow
	err := config.DB.Select(&rows, `
		SELECT u.id, u.username, u.display_name, u.avatar_url, u.bio,
		       (SELECT COUNT(*) FROM follows f WHERE f.following_id = u.id) AS follower_count,
		       EXISTS(SELECT 1 FROM follows f WHERE f.follower_id = $2 AND f.following_id = u.id) AS is_followed
		FROM users u
		WHERE u.username ILIKE '%' || $1 || '%' OR u.display_name ILIKE '%' || $1 || '%'
		ORDER BY follower_count DESC, u.username
		LIMIT $3
	`, query, viewerID, searchResultLimit)
	if err != nil {
		log.Error("Failed to search profiles", err, logger.Query(query))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"An error occurred while searching profiles.",
			err,
		))
	}

	results := make([]ProfileSearchResult, 0, len(rows))
	for _, r := range rows {
		result := ProfileSearchResult{
			ID:               r.ID,
			Username:         r.Username,
			DisplayName:      r.DisplayName,
			Bio:              r.Bio,
			FollowerCount:    r.FollowerCount,
			IsFollowedByUser: r.IsFollowed,
		}
		if r.AvatarURL.Valid {
			result.AvatarURL = &r.AvatarURL.String
		}
		results = append(results, result)
	}

	return c.JSON(http.StatusOK, results)
}
