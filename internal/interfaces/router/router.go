package router

import (
	authsvc "katmarket-backend/internal/application/auth"
	bidsvc "katmarket-backend/internal/application/bids"
	catsvc "katmarket-backend/internal/application/catalysts"
	cmssvc "katmarket-backend/internal/application/cms"
	listsvc "katmarket-backend/internal/application/listings"
	notifsvc "katmarket-backend/internal/application/notifications"
	setsvc "katmarket-backend/internal/application/settings"
	usersvc "katmarket-backend/internal/application/users"
	"katmarket-backend/internal/config"
	"katmarket-backend/internal/infrastructure/database"
	authhandler "katmarket-backend/internal/interfaces/handlers/auth"
	bidhandler "katmarket-backend/internal/interfaces/handlers/bids"
	cathandler "katmarket-backend/internal/interfaces/handlers/catalysts"
	cmshandler "katmarket-backend/internal/interfaces/handlers/cms"
	healthhandler "katmarket-backend/internal/interfaces/handlers/health"
	listhandler "katmarket-backend/internal/interfaces/handlers/listings"
	notifhandler "katmarket-backend/internal/interfaces/handlers/notifications"
	sethandler "katmarket-backend/internal/interfaces/handlers/settings"
	userhandler "katmarket-backend/internal/interfaces/handlers/users"
	"katmarket-backend/internal/middleware"
	"katmarket-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionHandler, rdb, err := middleware.Session(middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	})
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.ResponseFormatter())
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	app.Use(middleware.Metrics())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             nil,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)
	if cfg.ExposeMetrics {
		app.Get("/metrics", middleware.MetricsHandler())
	}

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		hh.DB = &gormDBPinger{db: db}
	}

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	var userFinder authsvc.UserFinder
	if db != nil {
		userFinder = &authsvc.GormUserFinder{DB: db}
	}
	ah := &authhandler.Handlers{
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	if db != nil && rdb != nil {
		// Users
		us := &usersvc.Service{DB: db}
		uh := &userhandler.Handlers{Service: us, Config: sessionCfg}
		// create-user is public (registration)
		app.Post("/api/v1/users/create-user", uh.CreateUser)
		ug := app.Group("/api/v1/users", middleware.RequireAuth())
		ug.Put("/update-user", uh.UpdateUser)
		ug.Get("/view-user", uh.ViewUser)
		ug.Patch("/update-role", middleware.AuthorizePermission(constants.AssignRole), uh.UpdateRole)
		ug.Delete("/remove-user", middleware.AuthorizePermission(constants.RemoveUser), uh.RemoveUser)

		// Settings
		ss := &setsvc.Service{DB: db}
		sh := &sethandler.Handlers{Service: ss}
		sg := app.Group("/api/v1/settings", middleware.RequireAuth())
		sg.Get("/get-prices", middleware.AuthorizePermission(constants.ViewData), sh.GetPrices)
		sg.Put("/update-prices", middleware.AuthorizePermission(constants.ManagePrices), sh.UpdatePrices)

		// Catalysts
		cs := &catsvc.Service{DB: db, Settings: ss}
		ch := &cathandler.Handlers{Service: cs}
		cg := app.Group("/api/v1/catalysts", middleware.RequireAuth())
		cg.Get("/get-all-catalysts", ch.GetAllCatalysts)
		cg.Get("/search", ch.SearchCatalysts)
		cg.Get("/get-catalyst/:catalyst_id", ch.GetCatalystByID)
		cg.Post("/import", middleware.AuthorizePermission(constants.ImportCatalysts), ch.ImportCatalysts)
		cg.Put("/set-override", middleware.AuthorizePermission(constants.ManageOverrides), ch.SetOverride)
		cg.Delete("/clear-override", middleware.AuthorizePermission(constants.ManageOverrides), ch.ClearOverride)

		// Notifications
		ns := &notifsvc.Service{DB: db}
		nh := &notifhandler.Handlers{Service: ns}
		ng := app.Group("/api/v1/notifications", middleware.RequireAuth())
		ng.Get("/get-notifications", nh.GetNotifications)
		ng.Get("/unread-count", nh.GetUnreadCount)
		ng.Post("/mark-read", nh.MarkRead)
		ng.Post("/mark-all-read", nh.MarkAllRead)

		// Listings
		ls := &listsvc.Service{DB: db, Catalysts: cs}
		lh := &listhandler.Handlers{Service: ls, Notifications: ns}
		lg := app.Group("/api/v1/listings", middleware.RequireAuth())
		lg.Post("/create-listing", middleware.AuthorizePermission(constants.CreateListing), lh.CreateListing)
		lg.Get("/get-all-listings", lh.GetAllListings)
		lg.Get("/get-active-listings", lh.GetActiveListings)
		lg.Get("/get-my-listings", lh.GetMyListings)
		lg.Get("/get-listing/:listing_id", lh.GetListingByID)
		lg.Put("/edit-listing", middleware.AuthorizePermission(constants.EditListing), lh.EditListing)
		lg.Post("/cancel-listing", middleware.AuthorizePermission(constants.CancelListing), lh.CancelListing)

		// Bids
		bs := &bidsvc.Service{DB: db, Notifications: ns}
		bh := &bidhandler.Handlers{Service: bs}
		bg := app.Group("/api/v1/bids", middleware.RequireAuth())
		bg.Post("/place-bid", middleware.AuthorizePermission(constants.PlaceBid), bh.PlaceBid)
		bg.Get("/get-bids/:listing_id", bh.GetBidsForListing)
		bg.Post("/accept-bid", middleware.AuthorizePermission(constants.AcceptBid), bh.AcceptBid)
		bg.Post("/reject-bid", middleware.AuthorizePermission(constants.AcceptBid), bh.RejectBid)
		bg.Get("/seller-overview", bh.SellerOverview)

		// CMS
		cms := &cmssvc.Service{DB: db}
		cmh := &cmshandler.Handlers{Service: cms}
		app.Get("/api/v1/cms/get-setting/:key", cmh.GetSetting)
		app.Get("/api/v1/cms/get-all-settings", cmh.GetAllSettings)
		cmg := app.Group("/api/v1/cms", middleware.RequireAuth())
		cmg.Put("/upsert-setting", middleware.AuthorizePermission(constants.ManageCMS), cmh.UpsertSetting)
	}

	return app, db, rdb, nil
}
