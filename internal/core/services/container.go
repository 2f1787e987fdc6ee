package services

import (
	portsrepo "github.com/edmart-systems/procurement_backend/internal/core/ports/repositories"
	portssvc "github.com/edmart-systems/procurement_backend/internal/core/ports/services"
	"github.com/edmart-systems/procurement_backend/internal/platform/config"
)

// NewServiceContainer wires every service to its repositories and outbound adapters.
func NewServiceContainer(
	repos *portsrepo.RepositoryProvider,
	cfg *config.Config,
	email portssvc.POEmailSender,
	pdf portssvc.POPDFGenerator,
) *portssvc.ServiceContainer {
	resolver := NewApprovalChainResolver(cfg.ApprovalChain, repos.UserRepo)

	return &portssvc.ServiceContainer{
		PurchaseOrder: NewPurchaseOrderService(repos.PurchaseOrderRepo, repos.UserRepo, repos.NotificationRepo, email, pdf, resolver),
		Draft:         NewDraftService(repos.DraftRepo, cfg.MaxManualDrafts),
		User:          NewUserService(repos.UserRepo),
		Auth:          NewAuthService(repos.UserRepo, cfg),
		Notification:  NewNotificationService(repos.NotificationRepo),
	}
}
