package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/benx421/payment-gateway/paycore/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_FindByAccountNumber(t *testing.T) {
	database, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectQuery(q("FROM accounts")).
		WithArgs("DE001").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "account_number", "currency", "balance_cents", "available_balance_cents", "created_at", "updated_at",
		}).AddRow(id.String(), "DE001", "EUR", int64(5000_00), int64(4400_00), testNow, testNow))

	account, err := NewAccountRepository(database).FindByAccountNumber(context.Background(), "DE001")
	require.NoError(t, err)
	assert.Equal(t, id, account.ID)
	assert.Equal(t, int64(4400_00), account.AvailableBalanceCents)
}

func TestAccountRepository_FindByAccountNumber_NotFound(t *testing.T) {
	database, mock := newMockDB(t)

	mock.ExpectQuery(q("FROM accounts")).
		WithArgs("DE404").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewAccountRepository(database).FindByAccountNumber(context.Background(), "DE404")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAccountRepository_Upsert(t *testing.T) {
	database, mock := newMockDB(t)
	account := &models.Account{
		ID:                    uuid.New(),
		AccountNumber:         "DE001",
		Currency:              "EUR",
		BalanceCents:          5000_00,
		AvailableBalanceCents: 5000_00,
	}

	mock.ExpectExec(q("ON CONFLICT (account_number) DO UPDATE")).
		WithArgs(account.ID, "DE001", "EUR", int64(5000_00), int64(5000_00)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewAccountRepository(database).Upsert(context.Background(), account))
}

func TestAccountRepository_ReserveAvailable(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "covered", affected: 1, want: true},
		{name: "insufficient or unknown", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			database, mock := newMockDB(t)

			mock.ExpectExec(q("UPDATE accounts")).
				WithArgs("DE001", "EUR", int64(600_00)).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			ok, err := NewAccountRepository(database).ReserveAvailable(context.Background(), "DE001", "EUR", 600_00)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestAccountRepository_ReserveAvailable_Error(t *testing.T) {
	database, mock := newMockDB(t)

	mock.ExpectExec(q("UPDATE accounts")).WillReturnError(errors.New("deadlock detected"))

	ok, err := NewAccountRepository(database).ReserveAvailable(context.Background(), "DE001", "EUR", 600_00)
	assert.Error(t, err)
	assert.False(t, ok)
}
