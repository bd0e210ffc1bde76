package command

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/shop"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
	"github.com/ibrhsahin418-alt/cetele/internal/infrastructure/persistence/memory"
)

func TestBuyConsumableStacksInInventory(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStudentRepository()
	stud := seedStudent(t, repo, "alperen")
	stud.AwardXP(0, 2500)
	require.NoError(t, repo.Update(ctx, stud))

	handler := NewBuyItemHandler(repo, stubAvatars{}, nopPublisher{})

	item, err := shop.FindItem(shop.ItemIDStreakFreeze)
	require.NoError(t, err)

	first, err := handler.Handle(ctx, BuyItemCommand{StudentID: stud.ID, ItemID: shop.ItemIDStreakFreeze})
	require.NoError(t, err)
	assert.Equal(t, item.Cost, first.Cost)
	assert.Equal(t, 2500-item.Cost, first.RemainingCoins)
	assert.Equal(t, 1, first.InventoryCount)
	assert.Empty(t, first.NewAvatarURL)

	second, err := handler.Handle(ctx, BuyItemCommand{StudentID: stud.ID, ItemID: shop.ItemIDStreakFreeze})
	require.NoError(t, err)
	assert.Equal(t, 2, second.InventoryCount, "repeat purchases stack")

	stored, err := repo.GetByID(ctx, stud.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.ItemCount(student.ItemStreakFreeze))
	assert.Equal(t, 2500-2*item.Cost, stored.Coins.Int())
}

func TestBuyAvatarReplacesAvatarImmediately(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStudentRepository()
	stud := seedStudent(t, repo, "melike")
	stud.AwardXP(0, 5000)
	require.NoError(t, repo.Update(ctx, stud))

	handler := NewBuyItemHandler(repo, stubAvatars{}, nopPublisher{})

	result, err := handler.Handle(ctx, BuyItemCommand{StudentID: stud.ID, ItemID: shop.ItemIDAvatarKing})
	require.NoError(t, err)
	assert.NotEmpty(t, result.NewAvatarURL)
	assert.Equal(t, 0, result.InventoryCount, "avatars never enter the inventory")

	stored, err := repo.GetByID(ctx, stud.ID)
	require.NoError(t, err)
	assert.Equal(t, result.NewAvatarURL, stored.AvatarURL)
}

func TestBuyItemInsufficientCoins(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStudentRepository()
	stud := seedStudent(t, repo, "bos")

	handler := NewBuyItemHandler(repo, stubAvatars{}, nopPublisher{})

	_, err := handler.Handle(ctx, BuyItemCommand{StudentID: stud.ID, ItemID: shop.ItemIDStreakFreeze})
	assert.ErrorIs(t, err, shared.ErrInsufficientFunds)

	stored, err := repo.GetByID(ctx, stud.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.ItemCount(student.ItemStreakFreeze), "failed purchase changes nothing")
}

func TestBuyItemUnknownItem(t *testing.T) {
	repo := memory.NewStudentRepository()
	stud := seedStudent(t, repo, "gezgin")

	handler := NewBuyItemHandler(repo, stubAvatars{}, nopPublisher{})

	_, err := handler.Handle(context.Background(), BuyItemCommand{StudentID: stud.ID, ItemID: "magic_carpet"})
	assert.ErrorIs(t, err, shared.ErrItemNotFound)
}

func TestToggleVerificationAndApproveAll(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStudentRepository()
	stud := seedStudent(t, repo, "veli")

	logID := uuid.NewString()
	stud.AddLog(student.LogEntry{ID: logID, Type: student.ActivityQuran, Value: 1, Date: time.Now()})
	stud.AddLog(student.LogEntry{ID: uuid.NewString(), Type: student.ActivityNamaz, Value: 1, Date: time.Now()})
	require.NoError(t, repo.Update(ctx, stud))

	toggle := NewToggleVerificationHandler(repo, nopPublisher{})

	on, err := toggle.Handle(ctx, ToggleVerificationCommand{StudentID: stud.ID, LogID: logID})
	require.NoError(t, err)
	assert.True(t, on.Verified)

	off, err := toggle.Handle(ctx, ToggleVerificationCommand{StudentID: stud.ID, LogID: logID})
	require.NoError(t, err)
	assert.False(t, off.Verified, "toggling twice returns to unverified")

	_, err = toggle.Handle(ctx, ToggleVerificationCommand{StudentID: stud.ID, LogID: "missing"})
	assert.ErrorIs(t, err, shared.ErrLogNotFound)

	approve := NewApproveAllLogsHandler(repo)
	result, err := approve.Handle(ctx, ApproveAllLogsCommand{StudentID: stud.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Approved)

	again, err := approve.Handle(ctx, ApproveAllLogsCommand{StudentID: stud.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, again.Approved, "already verified entries are untouched")
}

func TestToggleRewardFlipsDisplayPreference(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStudentRepository()
	stud := seedStudent(t, repo, "nur")
	stud.GrantReward(student.TemporaryReward{
		ID:        student.RewardGoldGlow,
		Name:      "Altın Işıltı",
		ExpiresAt: time.Now().Add(24 * time.Hour),
		IsActive:  true,
	})
	require.NoError(t, repo.Update(ctx, stud))

	handler := NewToggleRewardHandler(repo)

	off, err := handler.Handle(ctx, ToggleRewardCommand{StudentID: stud.ID, RewardID: student.RewardGoldGlow})
	require.NoError(t, err)
	assert.False(t, off.IsActive)
	assert.Empty(t, off.VisualEffect, "toggled-off reward renders nothing")

	on, err := handler.Handle(ctx, ToggleRewardCommand{StudentID: stud.ID, RewardID: student.RewardGoldGlow})
	require.NoError(t, err)
	assert.True(t, on.IsActive)
	assert.Equal(t, student.RewardGoldGlow, on.VisualEffect)

	_, err = handler.Handle(ctx, ToggleRewardCommand{StudentID: stud.ID, RewardID: "UNKNOWN"})
	assert.ErrorIs(t, err, shared.ErrRewardNotFound)
}
