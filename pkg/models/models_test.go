package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_BeforeCreate_GeneratesID(t *testing.T) {
	user := &User{Email: "test@test.com", Username: "tester", Password: "hash"}
	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
}

func TestUser_BeforeCreate_KeepsExistingID(t *testing.T) {
	user := &User{ID: "existing-id"}
	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.Equal(t, "existing-id", user.ID)
}

func TestWallet_BeforeCreate_GeneratesID(t *testing.T) {
	wallet := &Wallet{UserID: "user-1"}
	err := wallet.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, wallet.ID)
}

func TestTransaction_BeforeCreate_GeneratesID(t *testing.T) {
	txn := &Transaction{UserID: "user-1", Type: TransactionTypeDeposit, Amount: 100}
	err := txn.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, txn.ID)
}

func TestContest_BeforeCreate_GeneratesID(t *testing.T) {
	contest := &Contest{GameID: "game-1"}
	err := contest.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, contest.ID)
}

func TestContestParticipant_BeforeCreate_GeneratesID(t *testing.T) {
	p := &ContestParticipant{ContestID: "contest-1", UserID: "user-1"}
	err := p.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, p.ID)
}

func TestGame_BeforeCreate_GeneratesID(t *testing.T) {
	game := &Game{Title: "Test Game"}
	err := game.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, game.ID)
}
