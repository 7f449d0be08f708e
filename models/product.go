package models

import (
	"github.com/shopspring/decimal"
)

// Sys carries the CMS-assigned identity of an entry.
type Sys struct {
	ID string `json:"id"`
}

// Image is a CMS asset reference with optional display metadata.
type Image struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

// Product represents a full product record as published in the CMS.
// The struct mirrors the GraphQL field selection, so responses decode
// into it directly.
type Product struct {
	Sys          Sys             `json:"sys"`
	SKU          string          `json:"sku"`
	Title        string          `json:"title"`
	Model        string          `json:"model"`
	Price        decimal.Decimal `json:"price"`
	ReleaseDate  string          `json:"releaseDate"` // ISO 8601 date as returned by the CMS
	MainImage    *Image          `json:"mainImage"`   // Pointer for entries without an image
	Description  string          `json:"description,omitempty"`
	ItemsInStock int             `json:"itemsInStock"`
}

// ProductSummary is the reduced projection of Product used on list views.
type ProductSummary struct {
	Sys         Sys             `json:"sys"`
	SKU         string          `json:"sku"`
	Title       string          `json:"title"`
	Model       string          `json:"model"`
	Price       decimal.Decimal `json:"price"`
	ReleaseDate string          `json:"releaseDate"`
	MainImage   *Image          `json:"mainImage,omitempty"`
}
