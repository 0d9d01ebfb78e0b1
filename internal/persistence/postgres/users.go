package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/AERESAL/VolunteerHub-Backend/internal/domain"
)

const (
	uniqueViolation = "23505"
	usersEmailKey   = "users_email_key"
	userColumns     = `username, user_id, first_name, last_name, email, phone_number, zip_code, profile_pic, friends, password_hash, created_at`
)

// GetUser implements domain.UserStore.
func (s *Store) GetUser(ctx context.Context, username string) (*domain.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username=$1`, username)

	var u domain.User
	if err := row.Scan(&u.Username, &u.UserID, &u.FirstName, &u.LastName, &u.Email, &u.PhoneNumber, &u.ZipCode, &u.ProfilePic, &u.Friends, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// CreateUser implements domain.UserStore.
func (s *Store) CreateUser(ctx context.Context, u domain.User) error {
	friends := u.Friends
	if friends == nil {
		friends = []string{}
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		u.Username, u.UserID, u.FirstName, u.LastName, u.Email, u.PhoneNumber, u.ZipCode, u.ProfilePic, friends, u.PasswordHash, u.CreatedAt,
	)
	return translateUserError(err)
}

// UpdateUser implements domain.UserStore. Friends, the password hash and creation time are left as stored.
func (s *Store) UpdateUser(ctx context.Context, u domain.User) error {
	ct, err := s.pool.Exec(ctx,
		`UPDATE users SET first_name=$2, last_name=$3, email=$4, phone_number=$5, zip_code=$6, profile_pic=$7, updated_at=NOW()
         WHERE username=$1`,
		u.Username, u.FirstName, u.LastName, u.Email, u.PhoneNumber, u.ZipCode, u.ProfilePic,
	)
	if err != nil {
		return translateUserError(err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListUsernames implements domain.UserStore.
func (s *Store) ListUsernames(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT username FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// AddFriend implements domain.UserStore. The append and the duplicate check are one statement.
func (s *Store) AddFriend(ctx context.Context, username, friend string) error {
	ct, err := s.pool.Exec(ctx,
		`UPDATE users SET friends = array_append(friends, $2), updated_at=NOW()
         WHERE username=$1 AND NOT ($2 = ANY(friends))`,
		username, friend,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() > 0 {
		return nil
	}

	var listed bool
	err = s.pool.QueryRow(ctx, `SELECT $2 = ANY(friends) FROM users WHERE username=$1`, username, friend).Scan(&listed)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	if listed {
		return domain.ErrAlreadyFriends
	}
	return nil
}

func translateUserError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	if pgErr.ConstraintName == usersEmailKey {
		return domain.ErrEmailTaken
	}
	return domain.ErrUsernameTaken
}
