package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/shop"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/student"
)

// GetShopQuery asks for the catalog as seen by one student.
type GetShopQuery struct {
	StudentID shared.StudentID
}

// Validate validates the query.
func (q *GetShopQuery) Validate() error {
	if q.StudentID == "" {
		return errors.New("student_id is required")
	}
	return nil
}

// ShopItemDTO is one catalog row with the student's purchasing context.
type ShopItemDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
	Kind        string `json:"kind"`

	// CanAfford reports whether the student's balance covers the cost.
	CanAfford bool `json:"can_afford"`

	// Owned is the held quantity for consumables, zero for avatars.
	Owned int `json:"owned"`
}

// GetShopResult contains the catalog view.
type GetShopResult struct {
	Coins       int           `json:"coins"`
	Items       []ShopItemDTO `json:"items"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// GetShopHandler handles shop catalog queries.
type GetShopHandler struct {
	studentRepo student.Repository
}

// NewGetShopHandler creates a new GetShopHandler.
func NewGetShopHandler(studentRepo student.Repository) *GetShopHandler {
	return &GetShopHandler{studentRepo: studentRepo}
}

// Handle executes the shop query.
func (h *GetShopHandler) Handle(ctx context.Context, query GetShopQuery) (*GetShopResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetShop", shared.ErrValidation, err.Error(), err)
	}

	stud, err := h.studentRepo.GetByID(ctx, query.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get_shop: %w", err)
	}

	catalog := shop.Catalog()
	result := &GetShopResult{
		Coins:       stud.Coins.Int(),
		Items:       make([]ShopItemDTO, len(catalog)),
		GeneratedAt: time.Now(),
	}
	for i, item := range catalog {
		dto := ShopItemDTO{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Cost:        item.Cost,
			Kind:        string(item.Kind),
			CanAfford:   stud.Coins.CanAfford(item.Cost),
		}
		if item.Kind == shop.KindConsumable {
			dto.Owned = stud.ItemCount(item.InventoryID)
		}
		result.Items[i] = dto
	}

	return result, nil
}
