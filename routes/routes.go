// Package routes mounts the storefront HTTP API on a fiber app.
package routes

import (
	"path/filepath"
	"strconv"

	"storefront/apierror"
	"storefront/auth"
	"storefront/basket"
	"storefront/config"
	"storefront/logger"
	"storefront/models"
	"storefront/notify"
	"storefront/service"
	"storefront/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Deps are the process-wide services the handlers use. Hub is optional.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Baskets basket.Store
	Orders  *service.OrderService
	Tokens  *auth.TokenService
	Hub     *notify.Hub
	Log     zerolog.Logger
}

type handler struct {
	Deps
	validate *validation.Validator
}

// NewApp builds the fiber app with middleware and every route mounted.
func NewApp(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: apierror.Handler(deps.Log, deps.Config.IsProduction()),
		BodyLimit:    10 * 1024 * 1024,
	})

	app.Use(requestid.New(requestid.Config{
		ContextKey: apierror.RequestIDKey,
		Generator:  uuid.NewString,
	}))
	app.Use(logger.Middleware(deps.Log, apierror.RequestIDKey))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.CorsOrigin,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: deps.Config.CorsOrigin != "*",
	}))

	app.Static("/images", filepath.Join(deps.Config.StaticDir, "images"))

	SetupRoutes(app, deps)
	return app
}

func SetupRoutes(app *fiber.App, deps Deps) {
	h := &handler{Deps: deps, validate: validation.New()}
	requireUser := auth.RequireAuth(deps.Tokens, deps.DB)
	requireAdmin := auth.RequireRole(models.RoleAdmin)

	if deps.Hub != nil {
		app.Get("/ws/orders", deps.Hub.Handler())
	}
	app.Get("/errors/:code", h.statusCode)

	api := app.Group("/api")

	products := api.Group("/products")
	products.Get("/", h.getProducts)
	products.Get("/brands", h.getBrands)
	products.Get("/categories", h.getCategories)
	products.Get("/:id", h.getProduct)
	products.Post("/", requireUser, requireAdmin, h.createProduct)
	products.Put("/:id", requireUser, requireAdmin, h.updateProduct)
	products.Delete("/:id", requireUser, requireAdmin, h.deleteProduct)
	products.Post("/images", requireUser, requireAdmin, h.uploadImage)
	products.Post("/brands", requireUser, requireAdmin, h.createBrand)
	products.Post("/categories", requireUser, requireAdmin, h.createCategory)

	baskets := api.Group("/basket")
	baskets.Get("/", h.getBasket)
	baskets.Post("/", h.updateBasket)
	baskets.Delete("/", h.deleteBasket)

	account := api.Group("/account")
	account.Post("/login", h.login)
	account.Post("/register", h.register)
	account.Get("/emailexists", h.emailExists)
	account.Get("/", requireUser, h.currentUser)
	account.Get("/address", requireUser, h.getAddress)
	account.Put("/address", requireUser, h.updateAddress)

	orders := api.Group("/orders", requireUser)
	orders.Post("/", h.createOrder)
	orders.Get("/", h.getOrders)
	orders.Get("/:id", h.getOrder)

	app.Use(func(c *fiber.Ctx) error {
		return apierror.NotFound("")
	})
}

// paramID parses the :id route parameter. Anything that is not a positive
// integer is a 400.
func paramID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, apierror.Validation("id must be a positive integer")
	}
	return uint(id), nil
}

// parseBody decodes the request body into dst and validates it.
func (h *handler) parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apierror.Validation("request body could not be parsed: " + err.Error())
	}
	return h.validate.Struct(dst)
}
