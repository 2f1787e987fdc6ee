package pgsql

import (
	portsrepo "github.com/edmart-systems/procurement_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		PurchaseOrderRepo: newPgxPurchaseOrderRepository(dbPool),
		DraftRepo:         newPgxDraftRepository(dbPool),
		UserRepo:          newPgxUserRepository(dbPool),
		NotificationRepo:  newPgxNotificationRepository(dbPool),
	}
}
