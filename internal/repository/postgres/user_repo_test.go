package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"eventfinder/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "email", "password_hash", "salt", "role", "created_at", "updated_at"}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  int64
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users \(email, password_hash, salt, role, created_at, updated_at\)`).
					WithArgs("ada@example.com", "hash", "salt", "USER", now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
			},
			wantID: 42,
		},
		{
			name: "unique violation returns ErrDuplicateEmail",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: true,
			errIs:   domain.ErrDuplicateEmail,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
			errIs:   sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			u := domain.NewUser("ada@example.com", "hash", "salt", now, now)
			err = NewUserRepository(db).Create(ctx, u)
			if tt.wantErr {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, u.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.User
		wantErr error
	}{
		{
			name: "found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, email, password_hash, salt, role, created_at, updated_at\s+FROM users\s+WHERE email = \$1`).
					WithArgs("ada@example.com").
					WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(1), "ada@example.com", "hash", "salt", "ADMIN", now, now))
			},
			want: &domain.User{ID: 1, Email: "ada@example.com", PasswordHash: "hash", Salt: "salt", Role: domain.RoleAdmin, CreatedAt: now, UpdatedAt: now},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM users`).
					WithArgs("ghost@example.com").
					WillReturnRows(sqlmock.NewRows(userCols))
			},
			wantErr: domain.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			email := "ada@example.com"
			if tt.wantErr != nil {
				email = "ghost@example.com"
			}
			got, err := NewUserRepository(db).GetByEmail(ctx, email)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(7), "bob@example.com", "h", "s", "USER", now, now))
	mock.ExpectQuery(`WHERE id = \$1`).
		WithArgs(int64(8)).
		WillReturnError(sql.ErrNoRows)

	repo := NewUserRepository(db)
	u, err := repo.GetByID(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, "bob@example.com", u.Email)
	require.Equal(t, domain.RoleUser, u.Role)

	_, err = repo.GetByID(ctx, 8)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
