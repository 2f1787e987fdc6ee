package services

// ServiceContainer holds instances of all the application services. This is the main
// entry point for accessing service functionality, particularly in the handlers.
type ServiceContainer struct {
	PurchaseOrder PurchaseOrderSvcFacade
	Draft         DraftSvcFacade
	User          UserSvcFacade
	Auth          AuthSvcFacade
	Notification  NotificationSvcFacade
}
