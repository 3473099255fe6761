package mysql

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umcorp/users-management/internal/domain"
)

var testTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newRepoTest(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(db, testLogger()), mock
}

func userRows(users ...domain.User) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"user_id", "nickname", "is_active", "is_verified", "avatar", "created_at", "updated_at"})
	for _, u := range users {
		rows.AddRow(u.UserID, u.Nickname, u.IsActive, u.IsVerified, u.Avatar, u.CreatedAt, u.UpdatedAt)
	}
	return rows
}

func storedUser() domain.User {
	return domain.User{
		UserID:     7,
		Nickname:   "neo",
		IsActive:   true,
		IsVerified: false,
		Avatar:     false,
		CreatedAt:  testTime,
		UpdatedAt:  testTime,
	}
}

func TestGetByIDReturnsUser(t *testing.T) {
	repo, mock := newRepoTest(t)

	want := storedUser()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+userColumns+" FROM users WHERE user_id = ?")).
		WithArgs(int64(7)).
		WillReturnRows(userRows(want))

	got, err := repo.GetByID(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, &want, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDAbsenceIsNilNil(t *testing.T) {
	repo, mock := newRepoTest(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+userColumns+" FROM users WHERE user_id = ?")).
		WithArgs(int64(404)).
		WillReturnRows(userRows())

	got, err := repo.GetByID(context.Background(), 404)

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetByIDWrapsDriverError(t *testing.T) {
	repo, mock := newRepoTest(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+userColumns+" FROM users WHERE user_id = ?")).
		WithArgs(int64(7)).
		WillReturnError(errors.New("bad connection"))

	_, err := repo.GetByID(context.Background(), 7)

	assert.ErrorIs(t, err, domain.ErrRepository)
}

func TestGetByNicknameReturnsUser(t *testing.T) {
	repo, mock := newRepoTest(t)

	want := storedUser()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+userColumns+" FROM users WHERE nickname = ?")).
		WithArgs("neo").
		WillReturnRows(userRows(want))

	got, err := repo.GetByNickname(context.Background(), "neo")

	require.NoError(t, err)
	assert.Equal(t, &want, got)
}

func TestGetByNicknameAbsenceIsNilNil(t *testing.T) {
	repo, mock := newRepoTest(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+userColumns+" FROM users WHERE nickname = ?")).
		WithArgs("ghost").
		WillReturnRows(userRows())

	got, err := repo.GetByNickname(context.Background(), "ghost")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListByIDsEmptyInputShortCircuits(t *testing.T) {
	repo, mock := newRepoTest(t)

	got, err := repo.ListByIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByIDsReturnsSubset(t *testing.T) {
	repo, mock := newRepoTest(t)

	want := storedUser()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+userColumns+" FROM users WHERE user_id IN (?,?)")).
		WithArgs(int64(7), int64(8)).
		WillReturnRows(userRows(want))

	got, err := repo.ListByIDs(context.Background(), []int64{7, 8})

	require.NoError(t, err)
	assert.Equal(t, []domain.User{want}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInsertsAndReadsBack(t *testing.T) {
	repo, mock := newRepoTest(t)

	want := storedUser()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (user_id, nickname) VALUES (?, ?)")).
		WithArgs(int64(7), "neo").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+userColumns+" FROM users WHERE user_id = ?")).
		WithArgs(int64(7)).
		WillReturnRows(userRows(want))

	got, err := repo.Create(context.Background(), domain.NewUser{UserID: 7, Nickname: "neo"})

	require.NoError(t, err)
	assert.Equal(t, &want, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateKeyWrapped(t *testing.T) {
	repo, mock := newRepoTest(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (user_id, nickname) VALUES (?, ?)")).
		WithArgs(int64(7), "neo").
		WillReturnError(errors.New("Error 1062: Duplicate entry"))

	_, err := repo.Create(context.Background(), domain.NewUser{UserID: 7, Nickname: "neo"})

	assert.ErrorIs(t, err, domain.ErrRepository)
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	repo, mock := newRepoTest(t)

	nickname := "trinity"
	verified := true
	want := storedUser()
	want.Nickname = nickname
	want.IsVerified = verified

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET nickname = ?, is_verified = ? WHERE user_id = ?")).
		WithArgs(nickname, verified, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+userColumns+" FROM users WHERE user_id = ?")).
		WithArgs(int64(7)).
		WillReturnRows(userRows(want))

	got, err := repo.Update(context.Background(), 7, domain.UserUpdate{Nickname: &nickname, IsVerified: &verified})

	require.NoError(t, err)
	assert.Equal(t, &want, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAbsentRowIsNilNil(t *testing.T) {
	repo, mock := newRepoTest(t)

	nickname := "trinity"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET nickname = ? WHERE user_id = ?")).
		WithArgs(nickname, int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+userColumns+" FROM users WHERE user_id = ?")).
		WithArgs(int64(404)).
		WillReturnRows(userRows())

	got, err := repo.Update(context.Background(), 404, domain.UserUpdate{Nickname: &nickname})

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateEmptyFieldSetIsRepositoryError(t *testing.T) {
	repo, _ := newRepoTest(t)

	_, err := repo.Update(context.Background(), 7, domain.UserUpdate{})

	assert.ErrorIs(t, err, domain.ErrRepository)
	assert.ErrorIs(t, err, errEmptyUpdate)
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo, mock := newRepoTest(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE user_id = ?")).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), 404))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteWrapsDriverError(t *testing.T) {
	repo, mock := newRepoTest(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE user_id = ?")).
		WithArgs(int64(7)).
		WillReturnError(errors.New("lock wait timeout"))

	err := repo.Delete(context.Background(), 7)

	assert.ErrorIs(t, err, domain.ErrRepository)
}
