package ports

import (
	"context"

	"github.com/sgea/academic-events/internal/core/domain"
)

// AuditRepository is the append-only audit log store.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditLog) error
	// Query returns matching entries newest first and the total count.
	Query(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditLog, int64, error)
}

// AuditTrail records sensitive actions. Record never fails the caller: write
// errors are reported on the operational log only.
type AuditTrail interface {
	Record(ctx context.Context, actor *domain.User, action domain.AuditAction, description, ip string)
	List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditLog, int64, error)
}
