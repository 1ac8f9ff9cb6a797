package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-vidtube/models"
)

// userColumns is shared by every query that returns a full user row.
// watch_history ids are folded into a text[] in watch order.
const userColumns = `u.id, u.username, u.email, u.full_name, u.avatar_url, u.cover_image_url,
    u.password_hash, COALESCE(u.refresh_token, ''),
    ARRAY(SELECT h.video_id::text FROM watch_history h WHERE h.user_id = u.id ORDER BY h.position, h.id),
    u.created_at, u.updated_at`

const (
	createUser = `INSERT INTO users (username, email, full_name, avatar_url, cover_image_url, password_hash)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id, username, email, full_name, avatar_url, cover_image_url, created_at, updated_at;`

	findUserByID = `SELECT ` + userColumns + `
    FROM users u
    WHERE u.id = $1;`

	findUserByUsernameOrEmail = `SELECT ` + userColumns + `
    FROM users u
    WHERE (u.username = $1 AND $1 <> '') OR (u.email = $2 AND $2 <> '')
    LIMIT 1;`

	setRefreshToken = `UPDATE users
    SET refresh_token = $2, updated_at = NOW()
    WHERE id = $1;`

	clearRefreshToken = `UPDATE users
    SET refresh_token = NULL, updated_at = NOW()
    WHERE id = $1;`

	rotateRefreshToken = `UPDATE users
    SET refresh_token = $3, updated_at = NOW()
    WHERE id = $1 AND refresh_token = $2;`

	updatePassword = `UPDATE users
    SET password_hash = $2, updated_at = NOW()
    WHERE id = $1;`

	getWatchHistory = `SELECT v.id, v.video_file, v.thumbnail, v.title, v.description, v.duration,
        v.views, v.is_published, v.created_at, v.updated_at,
        o.full_name, o.username, o.avatar_url
    FROM watch_history h
    JOIN videos v ON v.id = h.video_id
    JOIN users o ON o.id = v.owner_id
    WHERE h.user_id = $1
    ORDER BY h.position, h.id;`
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// buildChannelProfileQuery selects the whitelisted channel fields with
// subscriber and subscribed-to counts. is_subscribed checks viewerID against
// the channel's subscribers and is constant FALSE for anonymous viewers.
func buildChannelProfileQuery(username, viewerID string) (string, []any, error) {
	builder := psql.
		Select("u.id", "u.full_name", "u.username", "u.email", "u.avatar_url", "u.cover_image_url").
		Column("(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id) AS subscribers_count").
		Column("(SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id) AS channels_subscribed_to_count")

	if viewerID != "" {
		builder = builder.Column(
			"EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = ?) AS is_subscribed",
			viewerID,
		)
	} else {
		builder = builder.Column("FALSE AS is_subscribed")
	}

	query, args, err := builder.
		From("users u").
		Where(sq.Eq{"u.username": username}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildUpdateAccountQuery updates the account details of one user.
func buildUpdateAccountQuery(userID string, details models.AccountDetails) (string, []any, error) {
	query, args, err := psql.
		Update("users").
		Set("full_name", details.FullName).
		Set("email", details.Email).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildUpdateImageQuery sets one image URL column of a user.
func buildUpdateImageQuery(userID, column, url string) (string, []any, error) {
	switch column {
	case "avatar_url", "cover_image_url":
	default:
		return "", nil, fmt.Errorf("%w: unknown image column %q", ErrBuildingSQLQuery, column)
	}

	query, args, err := psql.
		Update("users").
		Set(column, url).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
