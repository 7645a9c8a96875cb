// Package store provides persistence for users and posts. No business rules
// live here; services decide what may happen, the store decides how it is
// written.
package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/isdelr/postboard-be/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps the SQL database with typed accessors for users and posts.
type Store struct {
	db *sql.DB
}

// New creates a Store on top of an open database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, name, password_hash, status, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		user.ID, user.Email, user.Name, user.PasswordHash, user.Status, user.CreatedAt.UnixNano())
	return err
}

// FindUserByEmail loads a user by email, including the password hash.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, email, name, password_hash, status, created_at FROM users WHERE email = ?", email)
	return s.scanUser(ctx, row)
}

// FindUserByID loads a user by ID, including the password hash and the IDs of
// the user's posts, newest first.
func (s *Store) FindUserByID(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, email, name, password_hash, status, created_at FROM users WHERE id = ?", id)
	return s.scanUser(ctx, row)
}

func (s *Store) scanUser(ctx context.Context, row *sql.Row) (models.User, error) {
	var user models.User
	var createdAt int64
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Status, &createdAt)
	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	user.CreatedAt = time.Unix(0, createdAt).UTC()

	rows, err := s.db.QueryContext(ctx, `
		SELECT up.post_id FROM user_posts up
		JOIN posts p ON p.id = up.post_id
		WHERE up.user_id = ?
		ORDER BY p.created_at DESC`, user.ID)
	if err != nil {
		return models.User{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var postID string
		if err := rows.Scan(&postID); err != nil {
			return models.User{}, err
		}
		user.PostIDs = append(user.PostIDs, postID)
	}
	return user, rows.Err()
}

// SaveUser persists mutable user fields (name, status).
func (s *Store) SaveUser(ctx context.Context, user models.User) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET name = ?, status = ? WHERE id = ?", user.Name, user.Status, user.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreatePost inserts the post and links it into the creator's post collection
// in a single transaction, so the post never exists unlinked.
func (s *Store) CreatePost(ctx context.Context, post models.Post) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO posts (id, title, content, image_url, creator_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		post.ID, post.Title, post.Content, post.ImageURL, post.CreatorID,
		post.CreatedAt.UnixNano(), post.UpdatedAt.UnixNano())
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO user_posts (user_id, post_id) VALUES (?, ?)", post.CreatorID, post.ID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// FindPostByID loads a single post, optionally resolving its creator.
func (s *Store) FindPostByID(ctx context.Context, id string, withCreator bool) (models.Post, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, title, content, image_url, creator_id, created_at, updated_at FROM posts WHERE id = ?", id)

	post, err := scanPost(row.Scan)
	if err == sql.ErrNoRows {
		return models.Post{}, ErrNotFound
	}
	if err != nil {
		return models.Post{}, err
	}

	if withCreator {
		creator, err := s.FindUserByID(ctx, post.CreatorID)
		if err != nil {
			return models.Post{}, err
		}
		post.Creator = &creator
	}
	return post, nil
}

// FindPosts returns one page of posts ordered by creation time descending,
// with creators resolved, plus the total post count. Pages are 1-indexed.
func (s *Store) FindPosts(ctx context.Context, page, perPage int) ([]models.Post, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, image_url, creator_id, created_at, updated_at
		FROM posts ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range posts {
		creator, err := s.FindUserByID(ctx, posts[i].CreatorID)
		if err != nil {
			return nil, 0, err
		}
		posts[i].Creator = &creator
	}
	return posts, total, nil
}

// SavePost persists mutable post fields and the new modification timestamp.
func (s *Store) SavePost(ctx context.Context, post models.Post) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE posts SET title = ?, content = ?, image_url = ?, updated_at = ? WHERE id = ?",
		post.Title, post.Content, post.ImageURL, post.UpdatedAt.UnixNano(), post.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePost removes the post row and its entry in the creator's post
// collection in a single transaction, so no user ever references a post that
// no longer exists.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM user_posts WHERE post_id = ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// RemovePostFromUser drops one entry from a user's post collection without
// touching the post row.
func (s *Store) RemovePostFromUser(ctx context.Context, userID, postID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM user_posts WHERE user_id = ? AND post_id = ?", userID, postID)
	return err
}

// ImageURLs returns the image references of all stored posts.
func (s *Store) ImageURLs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT image_url FROM posts")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

func scanPost(scan func(dest ...any) error) (models.Post, error) {
	var post models.Post
	var createdAt, updatedAt int64
	err := scan(&post.ID, &post.Title, &post.Content, &post.ImageURL, &post.CreatorID, &createdAt, &updatedAt)
	if err != nil {
		return models.Post{}, err
	}
	post.CreatedAt = time.Unix(0, createdAt).UTC()
	post.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return post, nil
}
