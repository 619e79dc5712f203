// Package a happily stolen from Working Effectively with Unit Tests.
package a

import (
	"context"
	"time"

	"github.com/gaqzi/review-service/internal/reviewing"
)

type BuilderReview struct {
	p reviewing.NewParams
}

// Review prepares a reviewing.Review that is valid by default but allows for customization.
func Review() BuilderReview {
	return BuilderReview{}.IsValid()
}

// Build returns the prepared reviewing.Review, it panics if the customizations made it invalid.
func (b BuilderReview) Build() reviewing.Review {
	r, err := reviewing.New(context.Background(), b.p)
	if err != nil {
		panic("failed to build review: " + err.Error())
	}

	return r
}

// Params returns the prepared values without constructing, for when you want to see New fail.
func (b BuilderReview) Params() reviewing.NewParams {
	return b.p
}

// Content returns only the client written part of the prepared review.
func (b BuilderReview) Content() reviewing.Content {
	return reviewing.Content{Rating: b.p.Rating, Title: b.p.Title, Comment: b.p.Comment}
}

// IsValid prepares a reviewing.Review that will pass validation.
func (b BuilderReview) IsValid() BuilderReview {
	b.p.ID = "0193dd86-b07e-7e73-a77e-724bee1fa176" // UUIDv7, just a value, no particular meaning
	b.p.Rating = 5
	b.p.Title = "Excellent service"
	b.p.Comment = "Everything was perfect. Highly recommended!"
	b.p.CreatedAt = Timestamp("2024-12-17T18:50:02.1323Z")

	return b
}

// IsInvalid prepares values that break every rule New checks.
func (b BuilderReview) IsInvalid() BuilderReview {
	b.p = reviewing.NewParams{}

	return b
}

func (b BuilderReview) WithID(id string) BuilderReview {
	b.p.ID = id

	return b
}

func (b BuilderReview) WithRating(rating int) BuilderReview {
	b.p.Rating = rating

	return b
}

func (b BuilderReview) WithTitle(title string) BuilderReview {
	b.p.Title = title

	return b
}

func (b BuilderReview) WithComment(comment string) BuilderReview {
	b.p.Comment = comment

	return b
}

func (b BuilderReview) WithCreatedAt(t time.Time) BuilderReview {
	b.p.CreatedAt = t

	return b
}

// Modify allows you to specify a custom override while preparing.
// Note: consider naming your pattern and adding it to the builder.
func (b BuilderReview) Modify(mods ...func(p *reviewing.NewParams)) BuilderReview {
	for _, mod := range mods {
		mod(&b.p)
	}

	return b
}

// Timestamp parses an RFC 3339 timestamp or panics.
func Timestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		panic("failed to parse example timestamp: " + err.Error())
	}

	return t
}
