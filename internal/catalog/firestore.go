package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	storeerrors "github.com/sweetbloom/storefront/internal/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ProductsCollection is the Firestore collection holding catalog documents.
const ProductsCollection = "products"

// FirestoreSource reads products from Firestore. The document ID is the product ID.
// Documents that do not decode are skipped.
type FirestoreSource struct {
	client  *firestore.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewFirestoreClient connects to the project. An empty credentialsFile uses Application Default Credentials.
func NewFirestoreClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return client, nil
}

// NewFirestoreSource reads the products collection. A positive timeout bounds every call.
func NewFirestoreSource(client *firestore.Client, timeout time.Duration, logger *slog.Logger) *FirestoreSource {
	return &FirestoreSource{
		client:  client,
		timeout: timeout,
		logger:  logger.With("component", "firestore_catalog"),
	}
}

func (s *FirestoreSource) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *FirestoreSource) col() *firestore.CollectionRef {
	return s.client.Collection(ProductsCollection)
}

func (s *FirestoreSource) List(ctx context.Context, category string) ([]Product, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	q := s.col().Query
	if category != "" {
		q = q.Where("category", "==", category)
	}
	it := q.Documents(ctx)
	defer it.Stop()

	var products []Product
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}
		p, err := docToProduct(snap)
		if err != nil {
			s.logger.WarnContext(ctx, "Skipping undecodable product document", "ID", snap.Ref.ID, "error", err)
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

func (s *FirestoreSource) Get(ctx context.Context, id string) (*Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, storeerrors.ErrProductNotFound
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	snap, err := s.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, storeerrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	p, err := docToProduct(snap)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func docToProduct(snap *firestore.DocumentSnapshot) (Product, error) {
	var p Product
	if err := snap.DataTo(&p); err != nil {
		return Product{}, fmt.Errorf("%w %q: %v", storeerrors.ErrInvalidProduct, snap.Ref.ID, err)
	}
	p.ID = snap.Ref.ID
	return p, nil
}
