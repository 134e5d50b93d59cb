package model

import "time"

// AdmissionLock is an advisory lock document serializing booking admission
// per provider and date. The unique _id makes concurrent inserts collide;
// ExpiresAt backs a TTL index so crashed holders cannot wedge a provider.
type AdmissionLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
