package routes

import (
	"strings"

	"storefront/apierror"
	"storefront/auth"
	"storefront/models"
	"storefront/repository"
	"storefront/specification"

	"github.com/gofiber/fiber/v2"
)

func (h *handler) userByEmail(c *fiber.Ctx, uow *repository.UnitOfWork, email string) (*models.User, error) {
	return repository.For[models.User](uow).GetEntityWithSpec(c.UserContext(), specification.UserByEmail(email))
}

func (h *handler) userToReturn(user *models.User) (UserToReturn, error) {
	token, err := h.Tokens.CreateToken(user)
	if err != nil {
		return UserToReturn{}, err
	}
	return UserToReturn{Email: user.Email, DisplayName: user.DisplayName, Token: token}, nil
}

// POST /api/account/login
func (h *handler) login(c *fiber.Ctx) error {
	form := new(LoginForm)
	if err := h.parseBody(c, form); err != nil {
		return err
	}

	user, err := h.userByEmail(c, repository.NewUnitOfWork(h.DB), form.Email)
	if err != nil {
		return err
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, form.Password) {
		return apierror.Unauthorized()
	}

	dto, err := h.userToReturn(user)
	if err != nil {
		return err
	}
	return c.JSON(dto)
}

// POST /api/account/register
func (h *handler) register(c *fiber.Ctx) error {
	form := new(RegisterForm)
	if err := h.parseBody(c, form); err != nil {
		return err
	}

	uow := repository.NewUnitOfWork(h.DB)
	existing, err := h.userByEmail(c, uow, form.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return apierror.Validation("Email address is in use")
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		return err
	}
	user := &models.User{
		DisplayName:  strings.TrimSpace(form.DisplayName),
		Email:        strings.ToLower(strings.TrimSpace(form.Email)),
		PasswordHash: hash,
		Roles:        []string{models.RoleCustomer},
	}
	repository.For[models.User](uow).Add(user)
	if _, err := uow.Complete(c.UserContext()); err != nil {
		return err
	}

	dto, err := h.userToReturn(user)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto)
}

// GET /api/account returns the signed-in user with a fresh token.
func (h *handler) currentUser(c *fiber.Ctx) error {
	dto, err := h.userToReturn(auth.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(dto)
}

// GET /api/account/emailexists?email=
func (h *handler) emailExists(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return apierror.Validation("email is required")
	}
	user, err := h.userByEmail(c, repository.NewUnitOfWork(h.DB), email)
	if err != nil {
		return err
	}
	return c.JSON(user != nil)
}

func (h *handler) addressOf(c *fiber.Ctx, uow *repository.UnitOfWork, userID uint) (*models.Address, error) {
	return repository.For[models.Address](uow).GetEntityWithSpec(c.UserContext(),
		specification.New[models.Address]().Where("addresses.user_id = ?", userID))
}

// GET /api/account/address
func (h *handler) getAddress(c *fiber.Ctx) error {
	address, err := h.addressOf(c, repository.NewUnitOfWork(h.DB), auth.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	if address == nil {
		return apierror.NotFound("No address saved for this account")
	}
	return c.JSON(toAddress(address))
}

// PUT /api/account/address creates the address on first use.
func (h *handler) updateAddress(c *fiber.Ctx) error {
	form := new(AddressForm)
	if err := h.parseBody(c, form); err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	uow := repository.NewUnitOfWork(h.DB)
	address, err := h.addressOf(c, uow, user.ID)
	if err != nil {
		return err
	}

	isNew := address == nil
	if isNew {
		address = &models.Address{UserID: user.ID}
	}
	address.FirstName = form.FirstName
	address.LastName = form.LastName
	address.Street = form.Street
	address.City = form.City
	address.State = form.State
	address.ZipCode = form.ZipCode

	addresses := repository.For[models.Address](uow)
	if isNew {
		addresses.Add(address)
	} else {
		addresses.Update(address)
	}
	if _, err := uow.Complete(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(toAddress(address))
}
