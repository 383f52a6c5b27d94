package identity

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// LoginPayload is the login request body
type LoginPayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will validate the payload
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// RegisterPayload is the registration request body. Only email and password
// are required; anything else is accepted as provided.
type RegisterPayload struct {
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
	Email     string `form:"email" json:"email"`
	Password  string `form:"password" json:"password"`
}

// Validate will validate the payload
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	Token string `json:"token"`
}

// HTTPController exposes the authenticator over fiber handlers. All failure
// responses are opaque: internal detail never crosses the boundary.
type HTTPController struct {
	auther Authenticator
	logger Logger
}

// NewHTTPController creates a controller around the given authenticator.
func NewHTTPController(auther Authenticator) *HTTPController {
	return &HTTPController{
		auther: auther,
		logger: defLogger{},
	}
}

func (a *HTTPController) WithLogger(logger Logger) *HTTPController {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// RegisterRoutes mounts the public and protected routes. The gate handler
// is the tokenware middleware; it only establishes identity, role checks
// stay in the route handlers.
func (a *HTTPController) RegisterRoutes(app *fiber.App, gate fiber.Handler) {
	app.Post("/login", a.Login)
	app.Post("/register", a.Register)
	app.Get("/me", gate, a.Me)
	app.Get("/admin", gate, a.Admin)
}

// Login authenticates the payload credentials and returns a session token.
func (a *HTTPController) Login(c *fiber.Ctx) error {
	payload := new(LoginPayload)
	if err := c.BodyParser(payload); err != nil {
		a.logger.Debug("login parse payload failed", "error", err)
		return badRequest(c, "Failed to parse request body")
	}

	if err := payload.Validate(); err != nil {
		// missing fields can never authenticate; keep the response shape
		// identical to a credential mismatch
		a.logger.Debug("login payload incomplete")
		return unauthorized(c)
	}

	token, err := a.auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		if isAuthFailure(err) {
			return unauthorized(c)
		}
		a.logger.Error("login failed", "error", err)
		return internalError(c)
	}

	return c.Status(fiber.StatusOK).JSON(LoginResponse{Token: token})
}

// Register creates a new user with role User and returns its public
// projection. The password hash never appears in the response.
func (a *HTTPController) Register(c *fiber.Ctx) error {
	payload := new(RegisterPayload)
	if err := c.BodyParser(payload); err != nil {
		a.logger.Debug("register parse payload failed", "error", err)
		return badRequest(c, "Failed to parse request body")
	}

	if err := payload.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := a.auther.Register(c.UserContext(), RegisterUserMessage{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Password:  payload.Password,
	})
	if err != nil {
		var rich *errors.Error
		if errors.As(err, &rich) {
			switch rich.Category {
			case errors.CategoryBadInput, errors.CategoryValidation:
				return badRequest(c, rich.Message)
			}
		}
		a.logger.Error("register failed", "error", err)
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(user.Public())
}

// Me echoes the principal the gate attached to the request context.
func (a *HTTPController) Me(c *fiber.Ctx) error {
	principal, ok := FromContext(c.UserContext())
	if !ok {
		return unauthorized(c)
	}
	return c.Status(fiber.StatusOK).JSON(principal)
}

// Admin is an admin-only resource. The gate establishes identity; the role
// check happens here, downstream of it.
func (a *HTTPController) Admin(c *fiber.Ctx) error {
	principal, ok := FromContext(c.UserContext())
	if !ok {
		return unauthorized(c)
	}

	if principal.Role != RoleAdmin {
		a.logger.Debug("admin route rejected", "identity", principal.Identity, "role", principal.Role)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":  "welcome to the admin area",
		"identity": principal.Identity,
	})
}

func isAuthFailure(err error) bool {
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.Category == errors.CategoryAuth || rich.Category == errors.CategoryNotFound
	}
	return false
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}
