// Package di provides dependency injection container for managing service lifecycle and dependencies.
package di

import (
	"context"
	"database/sql"
	"sync"

	"civiccare/internal/config"
	"civiccare/internal/database"
	"civiccare/internal/observability"
	"civiccare/internal/serviceinterfaces"
	"civiccare/internal/services"
	contextutils "civiccare/internal/utils"
)

// ServiceContainerInterface defines the interface for service containers
type ServiceContainerInterface interface {
	GetService(name string) (interface{}, error)
	GetUserService() (serviceinterfaces.UserServiceInterface, error)
	GetAdminService() (serviceinterfaces.AdminServiceInterface, error)
	GetIdentityService() (serviceinterfaces.IdentityServiceInterface, error)
	GetCategoryService() (serviceinterfaces.CategoryServiceInterface, error)
	GetComplaintService() (serviceinterfaces.ComplaintServiceInterface, error)
	GetEmailService() (serviceinterfaces.EmailService, error)
	GetNotificationDispatcher() (serviceinterfaces.NotificationDispatcherInterface, error)
	GetDatabase() *sql.DB
	GetConfig() *config.Config
	GetLogger() *observability.Logger
	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// ServiceContainer manages all service dependencies and lifecycle
type ServiceContainer struct {
	cfg           *config.Config
	logger        *observability.Logger
	dbManager     *database.Manager
	db            *sql.DB
	services      map[string]interface{}
	mu            sync.RWMutex
	shutdownFuncs []func(context.Context) error
}

// NewServiceContainer creates a new dependency injection container
func NewServiceContainer(cfg *config.Config, logger *observability.Logger) *ServiceContainer {
	return &ServiceContainer{
		cfg:      cfg,
		logger:   logger,
		services: make(map[string]interface{}),
	}
}

// Initialize sets up all services and their dependencies
func (sc *ServiceContainer) Initialize(ctx context.Context) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	// Initialize database
	sc.dbManager = database.NewManager(sc.logger)
	db, err := sc.dbManager.InitDBWithConfig(sc.cfg.Database)
	if err != nil {
		return contextutils.WrapErrorf(err, "failed to initialize database")
	}
	sc.db = db
	sc.shutdownFuncs = append(sc.shutdownFuncs, func(_ context.Context) error {
		return db.Close()
	})

	// Initialize core services
	sc.initializeServices(ctx)

	return nil
}

// GetService retrieves a service by name with type assertion
func (sc *ServiceContainer) GetService(name string) (interface{}, error) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	service, exists := sc.services[name]
	if !exists {
		return nil, contextutils.ErrorWithContextf("service %s not found", name)
	}
	return service, nil
}

// GetServiceAs performs type-safe service retrieval
func GetServiceAs[T any](sc *ServiceContainer, name string) (T, error) {
	var zero T
	service, err := sc.GetService(name)
	if err != nil {
		return zero, err
	}

	typed, ok := service.(T)
	if !ok {
		return zero, contextutils.ErrorWithContextf("service %s is not of expected type %T", name, zero)
	}
	return typed, nil
}

// GetUserService returns the user service
func (sc *ServiceContainer) GetUserService() (serviceinterfaces.UserServiceInterface, error) {
	return GetServiceAs[serviceinterfaces.UserServiceInterface](sc, "user")
}

// GetAdminService returns the admin service
func (sc *ServiceContainer) GetAdminService() (serviceinterfaces.AdminServiceInterface, error) {
	return GetServiceAs[serviceinterfaces.AdminServiceInterface](sc, "admin")
}

// GetIdentityService returns the identity resolution service
func (sc *ServiceContainer) GetIdentityService() (serviceinterfaces.IdentityServiceInterface, error) {
	return GetServiceAs[serviceinterfaces.IdentityServiceInterface](sc, "identity")
}

// GetCategoryService returns the category service
func (sc *ServiceContainer) GetCategoryService() (serviceinterfaces.CategoryServiceInterface, error) {
	return GetServiceAs[serviceinterfaces.CategoryServiceInterface](sc, "category")
}

// GetComplaintService returns the complaint service
func (sc *ServiceContainer) GetComplaintService() (serviceinterfaces.ComplaintServiceInterface, error) {
	return GetServiceAs[serviceinterfaces.ComplaintServiceInterface](sc, "complaint")
}

// GetEmailService returns the email service
func (sc *ServiceContainer) GetEmailService() (serviceinterfaces.EmailService, error) {
	return GetServiceAs[serviceinterfaces.EmailService](sc, "email")
}

// GetNotificationDispatcher returns the notification dispatcher
func (sc *ServiceContainer) GetNotificationDispatcher() (serviceinterfaces.NotificationDispatcherInterface, error) {
	return GetServiceAs[serviceinterfaces.NotificationDispatcherInterface](sc, "notification_dispatcher")
}

// GetDatabase returns the database instance
func (sc *ServiceContainer) GetDatabase() *sql.DB {
	return sc.db
}

// GetConfig returns the configuration
func (sc *ServiceContainer) GetConfig() *config.Config {
	return sc.cfg
}

// GetLogger returns the logger
func (sc *ServiceContainer) GetLogger() *observability.Logger {
	return sc.logger
}

// Shutdown gracefully shuts down all services
func (sc *ServiceContainer) Shutdown(ctx context.Context) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	return sc.cleanup(ctx)
}

// cleanup handles shutdown of all services
func (sc *ServiceContainer) cleanup(ctx context.Context) error {
	var errors []error

	// Drain in-flight notification deliveries before closing anything they use
	if dispatcher, ok := sc.services["notification_dispatcher"].(serviceinterfaces.NotificationDispatcherInterface); ok {
		sc.logger.Info(ctx, "Waiting for pending notifications to drain", nil)
		dispatcher.Wait()
	}

	// Shutdown services in reverse order of initialization
	for i := len(sc.shutdownFuncs) - 1; i >= 0; i-- {
		if err := sc.shutdownFuncs[i](ctx); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return contextutils.ErrorWithContextf("shutdown errors: %v", errors)
	}
	return nil
}

// initializeServices sets up all service dependencies
func (sc *ServiceContainer) initializeServices(_ context.Context) {
	// Core services that don't depend on other services
	userService := services.NewUserService(sc.db, sc.logger)
	sc.services["user"] = userService

	adminService := services.NewAdminService(sc.db, sc.logger)
	sc.services["admin"] = adminService

	categoryService := services.NewCategoryService(sc.db, sc.logger)
	sc.services["category"] = categoryService

	// Identity resolution depends on user and admin lookups
	identityService := services.NewIdentityService(sc.cfg, userService, adminService, sc.logger)
	sc.services["identity"] = identityService

	// Email service (test-mode variant when IsTest is set)
	emailService := services.CreateEmailService(sc.cfg, sc.logger, sc.db)
	sc.services["email"] = emailService

	// Dispatcher decouples complaint mutations from email delivery
	dispatcher := services.NewNotificationDispatcher(emailService, sc.logger)
	sc.services["notification_dispatcher"] = dispatcher

	// Complaint service depends on the access policy and dispatcher
	complaintService := services.NewComplaintService(sc.db, services.NewAccessPolicy(), dispatcher, sc.logger)
	sc.services["complaint"] = complaintService
}
