package router

import (
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zopumarket/zopumarket/internal/authz"
	"github.com/zopumarket/zopumarket/internal/cache"
	"github.com/zopumarket/zopumarket/internal/http/handlers/admin"
	"github.com/zopumarket/zopumarket/internal/http/handlers/public"
	"github.com/zopumarket/zopumarket/internal/http/response"
	"github.com/zopumarket/zopumarket/internal/logger"
	"github.com/zopumarket/zopumarket/internal/provider"
)

// AdminPermission is one grantable console route, exposed so the role
// editor can list what can be granted.
type AdminPermission struct {
	Module string `json:"module"`
	Object string `json:"object"`
	Action string `json:"action"`
}

var adminPermissionCatalog []AdminPermission

// AdminPermissionCatalog returns the grantable console routes collected at
// router setup.
func AdminPermissionCatalog() []AdminPermission {
	return adminPermissionCatalog
}

// SetupRouter wires middlewares and all HTTP routes.
func SetupRouter(c *provider.Container) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestIDMiddleware())
	engine.Use(LoggerMiddleware(logger.Z()))
	engine.Use(CORSMiddleware(c.Config.CORS))

	adminHandler := admin.New(c)
	publicHandler := public.New(c)

	loginLimit := c.Config.Security.LoginRateLimit
	loginRule := RateLimitRule{
		Prefix:        "login",
		WindowSeconds: loginLimit.WindowSeconds,
		MaxRequests:   loginLimit.MaxAttempts,
		BlockSeconds:  loginLimit.BlockSeconds,
	}
	leadRule := RateLimitRule{
		Prefix:        "lead",
		WindowSeconds: loginLimit.WindowSeconds,
		MaxRequests:   loginLimit.MaxAttempts,
		BlockSeconds:  loginLimit.BlockSeconds,
	}
	redisClient := cache.Client()

	engine.GET("/health", func(ctx *gin.Context) {
		response.Success(ctx, gin.H{"status": "ok"})
	})

	apiV1 := engine.Group("/api/v1")

	publicGroup := apiV1.Group("/public")
	{
		publicGroup.GET("/categories", publicHandler.GetCategories)
		publicGroup.GET("/offers", publicHandler.GetOffers)
		publicGroup.GET("/offers/:slug", publicHandler.GetOfferBySlug)
		publicGroup.GET("/partners", publicHandler.GetPartners)
		publicGroup.GET("/partners/:slug", publicHandler.GetPartnerBySlug)
		publicGroup.GET("/partners/:slug/reviews", publicHandler.GetPartnerReviews)
		publicGroup.GET("/captcha/image", publicHandler.GetCaptcha)
		publicGroup.POST("/leads",
			RateLimitMiddleware(redisClient, leadRule, KeyByIP),
			publicHandler.SubmitLead)
		publicGroup.POST("/analytics/events", publicHandler.TrackEvent)
	}

	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/register",
			RateLimitMiddleware(redisClient, loginRule, KeyByIP),
			publicHandler.Register)
		authGroup.POST("/login",
			RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")),
			publicHandler.UserLogin)
	}

	userGroup := apiV1.Group("/user")
	userGroup.Use(UserJWTAuthMiddleware(c.Config.UserJWT.SecretKey, c.UserRepo))
	{
		userGroup.GET("/me", publicHandler.GetMe)
		userGroup.PUT("/me/password", publicHandler.ChangeUserPassword)
		userGroup.POST("/favorites", publicHandler.ToggleFavorite)
		userGroup.GET("/favorites", publicHandler.GetFavorites)
		userGroup.GET("/favorites/:id", publicHandler.GetFavoriteStatus)
		userGroup.POST("/contracts", publicHandler.DeclareContract)
		userGroup.GET("/contracts", publicHandler.GetMyContracts)
		userGroup.GET("/partners/:id/review-eligibility", publicHandler.GetReviewEligibility)
		userGroup.POST("/reviews", publicHandler.CreateReview)
	}

	portalGroup := apiV1.Group("/portal")
	portalGroup.Use(UserJWTAuthMiddleware(c.Config.UserJWT.SecretKey, c.UserRepo))
	portalGroup.Use(RequirePartnerRole())
	{
		portalGroup.GET("/referrals", publicHandler.GetPortalReferrals)
		portalGroup.GET("/referrals/:id", publicHandler.GetPortalReferral)
		portalGroup.PATCH("/referrals/:id/status", publicHandler.UpdatePortalReferralStatus)
		portalGroup.GET("/metrics", publicHandler.GetPortalMetrics)
		portalGroup.GET("/offers", publicHandler.GetPortalOffers)
		portalGroup.GET("/contracts", publicHandler.GetPortalContracts)
	}

	adminGroup := apiV1.Group("/admin")
	{
		adminGroup.POST("/login",
			RateLimitMiddleware(redisClient, loginRule, KeyByIP),
			adminHandler.AdminLogin)
		adminGroup.GET("/captcha", adminHandler.GetAdminCaptcha)
	}

	authorized := adminGroup.Use(
		JWTAuthMiddleware(c.Config.JWT.SecretKey, c.AdminRepo),
		AdminRBACMiddleware(c.AuthzService),
	)
	{
		authorized.GET("/profile", adminHandler.GetAdminProfile)
		authorized.PUT("/password", adminHandler.UpdateAdminPassword)

		authorized.GET("/partners", adminHandler.GetAdminPartners)
		authorized.POST("/partners", adminHandler.CreatePartner)
		authorized.GET("/partners/:id", adminHandler.GetAdminPartner)
		authorized.PUT("/partners/:id", adminHandler.UpdatePartner)
		authorized.DELETE("/partners/:id", adminHandler.DeletePartner)
		authorized.PATCH("/partners/:id/curation", adminHandler.SetPartnerCuration)
		authorized.PATCH("/partners/:id/tier", adminHandler.SetPartnerTier)
		authorized.GET("/cnpj-lookup/:cnpj", adminHandler.LookupCNPJ)

		authorized.GET("/offers", adminHandler.GetAdminOffers)
		authorized.POST("/offers", adminHandler.CreateOffer)
		authorized.GET("/offers/:id", adminHandler.GetAdminOffer)
		authorized.PUT("/offers/:id", adminHandler.UpdateOffer)
		authorized.DELETE("/offers/:id", adminHandler.DeleteOffer)

		authorized.GET("/categories", adminHandler.GetAdminCategories)
		authorized.POST("/categories", adminHandler.CreateCategory)
		authorized.PUT("/categories/:id", adminHandler.UpdateCategory)
		authorized.DELETE("/categories/:id", adminHandler.DeleteCategory)

		authorized.GET("/cases", adminHandler.GetAdminPartnerCases)
		authorized.POST("/cases", adminHandler.CreatePartnerCase)
		authorized.PUT("/cases/:id", adminHandler.UpdatePartnerCase)
		authorized.DELETE("/cases/:id", adminHandler.DeletePartnerCase)

		authorized.GET("/referrals", adminHandler.GetAdminReferrals)
		authorized.POST("/referrals", adminHandler.CreateReferral)
		authorized.GET("/referrals/:id", adminHandler.GetAdminReferral)
		authorized.PATCH("/referrals/:id/status", adminHandler.UpdateReferralStatus)

		authorized.GET("/leads", adminHandler.GetAdminLeads)
		authorized.GET("/leads/:id", adminHandler.GetAdminLead)
		authorized.POST("/leads/:id/convert", adminHandler.ConvertLead)
		authorized.POST("/leads/:id/discard", adminHandler.DiscardLead)

		authorized.GET("/contracts", adminHandler.GetAdminContracts)
		authorized.POST("/contracts/:id/review", adminHandler.ReviewContract)

		authorized.GET("/reviews", adminHandler.GetAdminReviews)

		authorized.GET("/reports/summary", adminHandler.GetReportSummary)
		authorized.GET("/reports/by-category", adminHandler.GetReportByCategory)
		authorized.GET("/reports/aging", adminHandler.GetReportAging)
		authorized.GET("/reports/monthly", adminHandler.GetReportMonthly)
		authorized.GET("/reports/by-partner", adminHandler.GetReportByPartner)
		authorized.GET("/reports/export", adminHandler.ExportReportCSV)

		authorized.GET("/analytics/events", adminHandler.GetAdminAnalyticsEvents)

		authorized.GET("/admins", adminHandler.GetAdmins)
		authorized.POST("/admins", adminHandler.CreateAdmin)
		authorized.PUT("/admins/:id/roles", adminHandler.SetAdminRoles)
		authorized.DELETE("/admins/:id", adminHandler.DeleteAdmin)
		authorized.GET("/authz/roles", adminHandler.GetAuthzRoles)
		authorized.GET("/authz/permissions", func(ctx *gin.Context) {
			response.Success(ctx, gin.H{"permissions": AdminPermissionCatalog()})
		})
		authorized.POST("/authz/roles/:role/policies", adminHandler.GrantRolePolicy)
		authorized.DELETE("/authz/roles/:role/policies", adminHandler.RevokeRolePolicy)
	}

	buildAdminPermissionCatalog(engine)

	return engine
}

// buildAdminPermissionCatalog walks the registered routes and keeps the
// grantable console endpoints. Login and captcha stay out; they are open
// by design of the auth flow.
func buildAdminPermissionCatalog(engine *gin.Engine) {
	catalog := make([]AdminPermission, 0, 48)
	for _, route := range engine.Routes() {
		if !strings.HasPrefix(route.Path, "/api/v1/admin/") {
			continue
		}
		object := authz.NormalizeObject(route.Path)
		if object == "/admin/login" || object == "/admin/captcha" {
			continue
		}
		catalog = append(catalog, AdminPermission{
			Module: deriveAdminPermissionModule(object),
			Object: object,
			Action: route.Method,
		})
	}
	sort.Slice(catalog, func(i, j int) bool {
		if catalog[i].Object != catalog[j].Object {
			return catalog[i].Object < catalog[j].Object
		}
		return catalog[i].Action < catalog[j].Action
	})
	adminPermissionCatalog = catalog
}

func deriveAdminPermissionModule(object string) string {
	trimmed := strings.TrimPrefix(object, "/admin/")
	if trimmed == "" {
		return "admin"
	}
	parts := strings.SplitN(trimmed, "/", 2)
	return parts[0]
}
