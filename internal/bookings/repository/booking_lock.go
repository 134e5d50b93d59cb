package repository

import (
	"context"
	"slotify/pkg/config"
	"slotify/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "admission_locks"

// AdmissionLockRepository manages the advisory locks serializing booking
// admission per provider and date.
type AdmissionLockRepository interface {
	Create(ctx context.Context, lock *model.AdmissionLock) (*model.AdmissionLock, error)
	Delete(ctx context.Context, lockID string) error
}

type mongoAdmissionLockRepository struct {
	collection *mongo.Collection
}

func NewAdmissionLockRepository(cfg *config.Config) AdmissionLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAdmissionLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

// Create inserts the lock document. A duplicate key error means another
// admission currently holds the lock.
func (r *mongoAdmissionLockRepository) Create(ctx context.Context, lock *model.AdmissionLock) (*model.AdmissionLock, error) {
	lock.CreatedAt = time.Now().UTC()

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		return nil, err
	}

	return lock, nil
}

func (r *mongoAdmissionLockRepository) Delete(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
