/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package testmodels holds shared entity fixtures for store tests.
package testmodels

import (
	"github.com/go-openapi/strfmt"

	"github.com/suparena/objectgraph/registry"
)

// Article is a representative entity used across store tests.
type Article struct {

	// Unique identifier for the article.
	// Required: true
	ID string `json:"Id"`

	// Title of the article.
	// Required: true
	Title string `json:"Title"`

	// Body text.
	Body string `json:"Body,omitempty"`

	// Whether the article is publicly visible.
	Published bool `json:"Published"`

	// View counter.
	Views int `json:"Views"`

	// Timestamp when the article was created.
	// Format: date-time
	CreatedAt strfmt.DateTime `json:"CreatedAt,omitempty"`

	// Timestamp when the article was last updated.
	// Format: date-time
	UpdatedAt strfmt.DateTime `json:"UpdatedAt,omitempty"`
}

// EntityName implements the repository capability contract. It must stay
// callable on a nil receiver.
func (*Article) EntityName() string { return "Article" }

// RegisterArticle wires the Article entity into the registry. Tests call it
// once per process, typically from an init function or TestMain.
//
// Key macros reference attribute names as the DynamoDB marshaler emits them,
// i.e. Go field names, not json tag names.
func RegisterArticle() {
	registry.RegisterEntity("Article", func() any { return &Article{} })
	registry.RegisterIndexMap("Article", map[string]string{
		"PK": "ARTICLE#{ID}",
		"SK": "ARTICLE#{ID}",
	})
}
