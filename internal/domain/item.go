package domain

import (
	"time"

	"github.com/google/uuid"
)

// Item is a merchant catalog item with attribute-driven variants.
type Item struct {
	ID          uuid.UUID `json:"id"`
	MerchantID  uuid.UUID `json:"merchantId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AttributeGroup is a named option axis of an item (e.g. Size, Color).
type AttributeGroup struct {
	ID     uuid.UUID `json:"id"`
	ItemID uuid.UUID `json:"itemId"`
	Name   string    `json:"name"`
}

// AttributeValue is one selectable value within an attribute group.
type AttributeValue struct {
	ID      uuid.UUID `json:"id"`
	GroupID uuid.UUID `json:"groupId"`
	Label   string    `json:"label"`
}

// ItemVariant is a size/color/material variant row diffed by id on update.
type ItemVariant struct {
	ID         uuid.UUID `json:"id"`
	ItemID     uuid.UUID `json:"itemId"`
	Kind       string    `json:"kind"`
	Label      string    `json:"label"`
	PriceDelta float64   `json:"priceDelta"`
}

// CombinationInventoryRecord is stock for one attribute-value combination
// at one location. Unique per (item, location, combination key); at most
// one option value per attribute group contributes to a combination.
type CombinationInventoryRecord struct {
	ID                uuid.UUID   `json:"id"`
	ItemID            uuid.UUID   `json:"itemId"`
	LocationID        uuid.UUID   `json:"locationId"`
	CombinationKey    string      `json:"combinationKey"`
	OptionValueIDs    []uuid.UUID `json:"optionValueIds"`
	QuantityAvailable int         `json:"quantityAvailable"`
	ReservedQuantity  int         `json:"reservedQuantity"`
}
