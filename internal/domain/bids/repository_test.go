package bids

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/bid-ledger/internal/domain/extraction"
)

func TestRepository_Save(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRepository(mock)

	bid := &Bid{
		DocumentID:   uuid.New(),
		TenderID:     uuid.New(),
		BidderID:     uuid.New(),
		Completeness: 1.0,
		Items: []extraction.BidItem{
			{
				ItemNumber: 1,
				CPVCode:    "50421200-4",
				Name:       "Николет",
				Unit:       strPtr("Работен час"),
				Quantity:   decPtr("1.00"),
				RawText:    "50421200\n-4",
			},
		},
		Warnings: []extraction.ParseWarning{
			{Kind: extraction.WarnIncompleteNumericValues, Message: "only 1 of 5 numeric value(s) present", ItemNumber: 1},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM bids`).
		WithArgs(bid.DocumentID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectQuery(`INSERT INTO bids`).
		WithArgs(pgxmock.AnyArg(), bid.DocumentID, bid.TenderID, bid.BidderID, 1.0).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectExec(`INSERT INTO bid_items`).
		WithArgs(pgxmock.AnyArg(), 1, "50421200-4", "Николет", strPtr("Работен час"),
			strPtr("1.00"), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			"50421200\n-4", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO parse_warnings`).
		WithArgs(pgxmock.AnyArg(), 0, "incomplete_numeric_values",
			"only 1 of 5 numeric value(s) present", "", 1).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Save(context.Background(), bid))
	assert.NotEqual(t, uuid.Nil, bid.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Save_RollbackOnItemError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRepository(mock)

	bid := &Bid{
		DocumentID: uuid.New(),
		TenderID:   uuid.New(),
		BidderID:   uuid.New(),
		Items:      []extraction.BidItem{{ItemNumber: 1, CPVCode: "50421200", Name: "Услуга"}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM bids`).
		WithArgs(bid.DocumentID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectQuery(`INSERT INTO bids`).
		WithArgs(pgxmock.AnyArg(), bid.DocumentID, bid.TenderID, bid.BidderID, 0.0).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectExec(`INSERT INTO bid_items`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = repo.Save(context.Background(), bid)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByDocument_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRepository(mock)
	documentID := uuid.New()

	mock.ExpectQuery(`SELECT id, document_id, tender_id, bidder_id, completeness, created_at`).
		WithArgs(documentID).
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetByDocument(context.Background(), documentID)
	assert.ErrorIs(t, err, ErrBidNotFound)
}
