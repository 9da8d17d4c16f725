package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/userhub/identity-api/internal/core/ports"
)

const auditCollection = "audit_events"

// AuditRepository persists security audit events. It is the sink behind
// the async recorder; writes are append-only.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

func (r *AuditRepository) Insert(ctx context.Context, event ports.AuditEvent) error {
	doc := bson.M{
		"action":    event.Action,
		"email":     event.Email,
		"outcome":   event.Outcome,
		"timestamp": event.Timestamp.UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
