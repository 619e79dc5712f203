package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"

	"github.com/gaqzi/review-service/internal/reviewing"
)

type CosmosOptions struct {
	Endpoint    string
	Key         string
	DatabaseID  string
	ContainerID string
}

func (o CosmosOptions) validate() error {
	var missing []string
	if o.Endpoint == "" {
		missing = append(missing, "endpoint")
	}
	if o.Key == "" {
		missing = append(missing, "key")
	}
	if o.DatabaseID == "" {
		missing = append(missing, "databaseId")
	}
	if o.ContainerID == "" {
		missing = append(missing, "containerId")
	}

	if len(missing) > 0 {
		return fmt.Errorf("cosmos store: missing required options: %s", strings.Join(missing, ", "))
	}

	return nil
}

// CosmosStore keeps reviews as documents in a Cosmos DB container partitioned by "/id".
type CosmosStore struct {
	container *azcosmos.ContainerClient
}

func NewCosmosStore(opts CosmosOptions) (*CosmosStore, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	cred, err := azcosmos.NewKeyCredential(opts.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cosmos credential: %w", err)
	}

	client, err := azcosmos.NewClientWithKey(opts.Endpoint, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cosmos client: %w", err)
	}

	container, err := client.NewContainer(opts.DatabaseID, opts.ContainerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cosmos container %s/%s: %w", opts.DatabaseID, opts.ContainerID, err)
	}

	return &CosmosStore{container: container}, nil
}

// isNotFound reports whether Cosmos answered with a 404.
func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}

func (s *CosmosStore) FindByID(ctx context.Context, id string) (reviewing.Review, bool, error) {
	resp, err := s.container.ReadItem(ctx, azcosmos.NewPartitionKeyString(id), id, nil)
	if err != nil {
		if isNotFound(err) {
			return reviewing.Review{}, false, nil
		}
		return reviewing.Review{}, false, fmt.Errorf("failed to find review %q: %w", id, err)
	}

	r, err := unmarshalReview(ctx, resp.Value)
	if err != nil {
		return reviewing.Review{}, false, err
	}

	return r, true, nil
}

func (s *CosmosStore) FindAll(ctx context.Context) ([]reviewing.Review, error) {
	pager := s.container.NewQueryItemsPager("SELECT * FROM c", azcosmos.NewPartitionKey(), nil)

	var ret []reviewing.Review
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to find all reviews: %w", err)
		}

		for _, item := range page.Items {
			r, err := unmarshalReview(ctx, item)
			if err != nil {
				return nil, err
			}
			ret = append(ret, r)
		}
	}

	return ret, nil
}

func (s *CosmosStore) Save(ctx context.Context, review reviewing.Review) (reviewing.Review, error) {
	if err := checkID(review.ID()); err != nil {
		return reviewing.Review{}, err
	}

	value, err := marshalReview(review)
	if err != nil {
		return reviewing.Review{}, err
	}

	if _, err := s.container.UpsertItem(ctx, azcosmos.NewPartitionKeyString(review.ID()), value, nil); err != nil {
		return reviewing.Review{}, fmt.Errorf("failed to save review %q: %w", review.ID(), err)
	}

	return review, nil
}

func (s *CosmosStore) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := s.container.DeleteItem(ctx, azcosmos.NewPartitionKeyString(id), id, nil); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete review %q: %w", id, err)
	}

	return true, nil
}

func (s *CosmosStore) Exists(ctx context.Context, id string) (bool, error) {
	_, ok, err := s.FindByID(ctx, id)
	return ok, err
}
