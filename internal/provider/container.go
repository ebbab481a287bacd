package provider

import (
	"github.com/zopumarket/zopumarket/internal/authz"
	"github.com/zopumarket/zopumarket/internal/cache"
	"github.com/zopumarket/zopumarket/internal/cnpjlookup"
	"github.com/zopumarket/zopumarket/internal/config"
	"github.com/zopumarket/zopumarket/internal/logger"
	"github.com/zopumarket/zopumarket/internal/models"
	"github.com/zopumarket/zopumarket/internal/queue"
	"github.com/zopumarket/zopumarket/internal/repository"
	"github.com/zopumarket/zopumarket/internal/service"
)

// Container wires repositories and services for the HTTP and worker entry
// points.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo       repository.AdminRepository
	UserRepo        repository.UserRepository
	PartnerRepo     repository.PartnerRepository
	OfferRepo       repository.OfferRepository
	CategoryRepo    repository.CategoryRepository
	ReferralRepo    repository.ReferralRepository
	LeadRequestRepo repository.LeadRequestRepository
	ContractRepo    repository.ContractRepository
	ReviewRepo      repository.ReviewRepository
	PartnerCaseRepo repository.PartnerCaseRepository
	FavoriteRepo    repository.FavoriteRepository
	AnalyticsRepo   repository.AnalyticsRepository
	ReportRepo      repository.ReportRepository

	// Services
	AuthzService       *authz.Service
	AuthService        *service.AuthService
	UserAuthService    *service.UserAuthService
	EmailService       *service.EmailService
	CaptchaService     *service.CaptchaService
	PartnerService     *service.PartnerService
	OfferService       *service.OfferService
	CategoryService    *service.CategoryService
	ReferralService    *service.ReferralService
	LeadService        *service.LeadService
	ContractService    *service.ContractService
	ReviewService      *service.ReviewService
	PartnerCaseService *service.PartnerCaseService
	FavoriteService    *service.FavoriteService
	AnalyticsService   *service.AnalyticsService
	ReportService      *service.ReportService

	CNPJLookup *cnpjlookup.Client
}

// NewContainer builds the container from the loaded config.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.PartnerRepo = repository.NewPartnerRepository(db)
	c.OfferRepo = repository.NewOfferRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ReferralRepo = repository.NewReferralRepository(db)
	c.LeadRequestRepo = repository.NewLeadRequestRepository(db)
	c.ContractRepo = repository.NewContractRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.PartnerCaseRepo = repository.NewPartnerCaseRepository(db)
	c.FavoriteRepo = repository.NewFavoriteRepository(db)
	c.AnalyticsRepo = repository.NewAnalyticsRepository(db)
	c.ReportRepo = repository.NewReportRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.EmailService = service.NewEmailService(c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.PartnerService = service.NewPartnerService(c.PartnerRepo, c.QueueClient)
	c.OfferService = service.NewOfferService(c.OfferRepo, c.PartnerRepo)
	c.ReferralService = service.NewReferralService(c.ReferralRepo, c.OfferRepo, c.PartnerRepo, c.QueueClient, c.Config.Referral.AckSLAHours)
	c.LeadService = service.NewLeadService(c.LeadRequestRepo, c.OfferRepo, c.ReferralService)
	c.ContractService = service.NewContractService(c.ContractRepo, c.OfferRepo)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.PartnerRepo, c.ContractService)
	c.PartnerCaseService = service.NewPartnerCaseService(c.PartnerCaseRepo, c.PartnerRepo)
	c.FavoriteService = service.NewFavoriteService(c.FavoriteRepo, c.OfferRepo)
	c.AnalyticsService = service.NewAnalyticsService(c.AnalyticsRepo)
	c.ReportService = service.NewReportService(c.ReportRepo, c.ReferralRepo, 12)

	c.CNPJLookup = cnpjlookup.NewClient(c.Config.CNPJLookup)
}
