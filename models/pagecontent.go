package models

import "encoding/json"

// HeroBanner is the optional banner block on a content page.
type HeroBanner struct {
	Headline     string `json:"headline"`
	SubHeading   string `json:"subHeading,omitempty"`
	InternalLink string `json:"internalLink,omitempty"`
	ExternalLink string `json:"externalLink,omitempty"`
	CTAText      string `json:"ctaText,omitempty"`
	Image        *Image `json:"image,omitempty"`
}

// PageContent is a CMS page entry looked up by slug. Body is the rich
// text document with its linked entries and assets; it is kept raw and
// handed to the presentation layer as-is.
type PageContent struct {
	Sys         Sys             `json:"sys"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Slug        string          `json:"slug"`
	HeroBanner  *HeroBanner     `json:"heroBanner,omitempty"`
	Body        json.RawMessage `json:"body,omitempty"`
}
