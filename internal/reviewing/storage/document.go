package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gaqzi/review-service/internal/reviewing"
)

// reviewDocument is how a review is stored in the document stores.
// It's kept apart from the domain type, notably the timestamp is an ISO 8601 string.
type reviewDocument struct {
	// ID doubles as the partition key in Cosmos DB ("/id").
	ID        string `json:"id"`
	Rating    int    `json:"rating"`
	Title     string `json:"title"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"createdAt"`
}

func toDocument(r reviewing.Review) reviewDocument {
	return reviewDocument{
		ID:        r.ID(),
		Rating:    r.Rating(),
		Title:     r.Title(),
		Comment:   r.Comment(),
		CreatedAt: r.CreatedAt().UTC().Format(time.RFC3339Nano),
	}
}

func fromDocument(ctx context.Context, doc reviewDocument) (reviewing.Review, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, doc.CreatedAt)
	if err != nil {
		return reviewing.Review{}, fmt.Errorf("failed to parse createdAt of review %q: %w", doc.ID, err)
	}

	review, err := reviewing.New(ctx, reviewing.NewParams{
		ID:        doc.ID,
		Rating:    doc.Rating,
		Title:     doc.Title,
		Comment:   doc.Comment,
		CreatedAt: createdAt,
	})
	if err != nil {
		return reviewing.Review{}, fmt.Errorf("stored review %q is invalid: %w", doc.ID, err)
	}

	return review, nil
}

func marshalReview(r reviewing.Review) ([]byte, error) {
	b, err := json.Marshal(toDocument(r))
	if err != nil {
		return nil, fmt.Errorf("failed to encode review %q: %w", r.ID(), err)
	}

	return b, nil
}

func unmarshalReview(ctx context.Context, b []byte) (reviewing.Review, error) {
	var doc reviewDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return reviewing.Review{}, fmt.Errorf("failed to decode review document: %w", err)
	}

	return fromDocument(ctx, doc)
}
