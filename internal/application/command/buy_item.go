package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/shop"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// BUY ITEM COMMAND
// Spends coins on a catalog item: consumables stack in the inventory,
// avatar items replace the student's avatar immediately.
// ══════════════════════════════════════════════════════════════════════════════

// AvatarResolver builds a stable avatar URL for a seed.
// Implemented by infrastructure/external/avatar.
type AvatarResolver interface {
	URL(seed string) string
}

// BuyItemCommand contains the purchase request.
type BuyItemCommand struct {
	StudentID     shared.StudentID
	ItemID        string
	CorrelationID string
}

// Validate validates the command.
func (c BuyItemCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("buy_item: student_id is required")
	}
	if c.ItemID == "" {
		return errors.New("buy_item: item_id is required")
	}
	return nil
}

// BuyItemResult describes the completed purchase.
type BuyItemResult struct {
	ItemID         string
	Cost           int
	RemainingCoins int

	// NewAvatarURL is set when the item was an avatar.
	NewAvatarURL string

	// InventoryCount is the held quantity after a consumable purchase.
	InventoryCount int

	Events []shared.Event
}

// BuyItemHandler handles the BuyItemCommand.
type BuyItemHandler struct {
	studentRepo    student.Repository
	avatars        AvatarResolver
	eventPublisher shared.EventPublisher
}

// NewBuyItemHandler creates a new BuyItemHandler.
func NewBuyItemHandler(studentRepo student.Repository, avatars AvatarResolver, eventPublisher shared.EventPublisher) *BuyItemHandler {
	return &BuyItemHandler{
		studentRepo:    studentRepo,
		avatars:        avatars,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the buy item command.
func (h *BuyItemHandler) Handle(ctx context.Context, cmd BuyItemCommand) (*BuyItemResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("buy_item: validation failed: %w", err)
	}

	item, err := shop.FindItem(cmd.ItemID)
	if err != nil {
		return nil, err
	}

	stud, err := h.studentRepo.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, fmt.Errorf("buy_item: failed to get student: %w", err)
	}

	remaining, err := stud.Coins.Spend(item.Cost)
	if err != nil {
		return nil, err
	}
	stud.Coins = remaining

	result := &BuyItemResult{
		ItemID:         item.ID,
		Cost:           item.Cost,
		RemainingCoins: remaining.Int(),
	}

	switch item.Kind {
	case shop.KindConsumable:
		stud.AddItem(item.InventoryID, 1)
		result.InventoryCount = stud.ItemCount(item.InventoryID)
	case shop.KindAvatar:
		url := h.avatars.URL(item.AvatarSeed)
		stud.SetAvatar(url)
		result.NewAvatarURL = url
	default:
		return nil, shared.NewDomainError("shop", "Buy", shared.ErrInvalidState, "unknown item kind")
	}

	if err := h.studentRepo.Update(ctx, stud); err != nil {
		return nil, fmt.Errorf("buy_item: failed to update student: %w", err)
	}

	event := shared.NewItemPurchasedEvent(stud.ID.String(), item.ID, item.Cost, remaining.Int())
	result.Events = append(result.Events, event)
	_ = h.eventPublisher.Publish(event)

	return result, nil
}
