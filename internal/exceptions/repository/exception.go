package repository

import (
	"context"
	"errors"
	"fmt"
	exceptionserrors "slotify/internal/exceptions/errors"
	"slotify/pkg/config"
	"slotify/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "availability_exceptions"
)

type ExceptionRepository interface {
	Create(ctx context.Context, exception *model.AvailabilityException) error
	FindByID(ctx context.Context, id string) (*model.AvailabilityException, error)
	FindByProvider(ctx context.Context, providerID string) ([]*model.AvailabilityException, error)
	FindByProviderAndDate(ctx context.Context, providerID, date string) (*model.AvailabilityException, error)
	Update(ctx context.Context, id string, exception *model.AvailabilityException) error
	Delete(ctx context.Context, id string) error
}

type mongoExceptionRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoExceptionRepository(cfg *config.Config) ExceptionRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoExceptionRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoExceptionRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoExceptionRepository) Create(ctx context.Context, exception *model.AvailabilityException) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	exception.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, exception)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return exceptionserrors.ErrDuplicateDate
		}
		return fmt.Errorf("failed to create exception: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		exception.ID = oid.Hex()
	}
	return nil
}

func (r *mongoExceptionRepository) FindByID(ctx context.Context, id string) (*model.AvailabilityException, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", exceptionserrors.ErrInvalidID, id)
	}

	var exception model.AvailabilityException
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&exception)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, exceptionserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find exception: %w", err)
	}

	return &exception, nil
}

func (r *mongoExceptionRepository) FindByProvider(ctx context.Context, providerID string) ([]*model.AvailabilityException, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"provider_id": providerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find exceptions: %w", err)
	}
	defer cursor.Close(ctx)

	var exceptions []*model.AvailabilityException
	if err = cursor.All(ctx, &exceptions); err != nil {
		return nil, fmt.Errorf("failed to decode exceptions: %w", err)
	}

	return exceptions, nil
}

// FindByProviderAndDate returns the single exception for the date, or
// ErrNotFound. The unique index on (provider_id, date) guarantees at most one.
func (r *mongoExceptionRepository) FindByProviderAndDate(ctx context.Context, providerID, date string) (*model.AvailabilityException, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var exception model.AvailabilityException
	err := r.collection.FindOne(ctx, bson.M{"provider_id": providerID, "date": date}).Decode(&exception)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, exceptionserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find exception: %w", err)
	}

	return &exception, nil
}

func (r *mongoExceptionRepository) Update(ctx context.Context, id string, exception *model.AvailabilityException) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", exceptionserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"start_time":        exception.StartTime,
			"end_time":          exception.EndTime,
			"slot_duration_min": exception.SlotDurationMin,
			"reason":            exception.Reason,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update exception: %w", err)
	}

	if result.MatchedCount == 0 {
		return exceptionserrors.ErrNotFound
	}

	return nil
}

func (r *mongoExceptionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", exceptionserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete exception: %w", err)
	}

	if result.DeletedCount == 0 {
		return exceptionserrors.ErrNotFound
	}

	return nil
}
