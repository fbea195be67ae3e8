package routes

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"storefront/apierror"
	"storefront/models"
	"storefront/repository"
	"storefront/specification"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var imageExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true}

// GET /api/products
func (h *handler) getProducts(c *fiber.Ctx) error {
	params := specification.DefaultProductSpecParams()
	if err := c.QueryParser(&params); err != nil {
		return apierror.Validation("query could not be parsed: " + err.Error())
	}
	if err := h.validate.Struct(&params); err != nil {
		return err
	}
	params.Normalize()

	products := repository.For[models.Product](repository.NewUnitOfWork(h.DB))
	total, err := products.Count(c.UserContext(), specification.ProductWithFilterForCount(params))
	if err != nil {
		return err
	}
	list, err := products.ListWithSpec(c.UserContext(), specification.ProductsWithBrandsAndCategories(params))
	if err != nil {
		return err
	}

	data := make([]ProductToReturn, 0, len(list))
	for i := range list {
		data = append(data, toProduct(h.Config.ApiURL, &list[i]))
	}
	return c.JSON(Pagination[ProductToReturn]{
		PageIndex: params.PageNumber,
		PageSize:  params.PageSize,
		Count:     total,
		Data:      data,
	})
}

// GET /api/products/:id
func (h *handler) getProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	products := repository.For[models.Product](repository.NewUnitOfWork(h.DB))
	product, err := products.GetEntityWithSpec(c.UserContext(), specification.ProductWithBrandAndCategory(id))
	if err != nil {
		return err
	}
	if product == nil {
		return apierror.NotFound("")
	}
	return c.JSON(toProduct(h.Config.ApiURL, product))
}

func (h *handler) getBrands(c *fiber.Ctx) error {
	brands, err := repository.For[models.Brand](repository.NewUnitOfWork(h.DB)).ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(brands)
}

func (h *handler) getCategories(c *fiber.Ctx) error {
	categories, err := repository.For[models.Category](repository.NewUnitOfWork(h.DB)).ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

// checkReferences reports unknown brand or category ids as validation
// errors.
func (h *handler) checkReferences(c *fiber.Ctx, uow *repository.UnitOfWork, form *ProductForm) error {
	var messages []string

	brand, err := repository.For[models.Brand](uow).GetByID(c.UserContext(), form.BrandID)
	if err != nil {
		return err
	}
	if brand == nil {
		messages = append(messages, fmt.Sprintf("brand %d does not exist", form.BrandID))
	}
	category, err := repository.For[models.Category](uow).GetByID(c.UserContext(), form.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		messages = append(messages, fmt.Sprintf("category %d does not exist", form.CategoryID))
	}

	if len(messages) > 0 {
		return apierror.Validation(messages...)
	}
	return nil
}

func (form *ProductForm) apply(p *models.Product) {
	p.Name = strings.TrimSpace(form.Name)
	p.Description = form.Description
	p.Price = form.Price
	p.PictureURL = form.PictureURL
	p.BrandID = form.BrandID
	p.CategoryID = form.CategoryID
}

// POST /api/products
func (h *handler) createProduct(c *fiber.Ctx) error {
	form := new(ProductForm)
	if err := h.parseBody(c, form); err != nil {
		return err
	}

	uow := repository.NewUnitOfWork(h.DB)
	if err := h.checkReferences(c, uow, form); err != nil {
		return err
	}

	product := &models.Product{}
	form.apply(product)
	products := repository.For[models.Product](uow)
	products.Add(product)
	if _, err := uow.Complete(c.UserContext()); err != nil {
		return err
	}

	created, err := products.GetEntityWithSpec(c.UserContext(), specification.ProductWithBrandAndCategory(product.ID))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toProduct(h.Config.ApiURL, created))
}

// PUT /api/products/:id
func (h *handler) updateProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	form := new(ProductForm)
	if err := h.parseBody(c, form); err != nil {
		return err
	}

	uow := repository.NewUnitOfWork(h.DB)
	products := repository.For[models.Product](uow)
	product, err := products.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	if product == nil {
		return apierror.NotFound("")
	}
	if err := h.checkReferences(c, uow, form); err != nil {
		return err
	}

	form.apply(product)
	products.Update(product)
	if _, err := uow.Complete(c.UserContext()); err != nil {
		return err
	}

	updated, err := products.GetEntityWithSpec(c.UserContext(), specification.ProductWithBrandAndCategory(id))
	if err != nil {
		return err
	}
	return c.JSON(toProduct(h.Config.ApiURL, updated))
}

// DELETE /api/products/:id
func (h *handler) deleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	uow := repository.NewUnitOfWork(h.DB)
	products := repository.For[models.Product](uow)
	product, err := products.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	if product == nil {
		return apierror.NotFound("")
	}

	products.Delete(product)
	if _, err := uow.Complete(c.UserContext()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handler) createBrand(c *fiber.Ctx) error {
	return createNamed(h, c, func(name string) *models.Brand { return &models.Brand{Name: name} })
}

func (h *handler) createCategory(c *fiber.Ctx) error {
	return createNamed(h, c, func(name string) *models.Category { return &models.Category{Name: name} })
}

// createNamed inserts a brand or category. Names are unique, a duplicate is
// a 400.
func createNamed[T any](h *handler, c *fiber.Ctx, build func(string) *T) error {
	form := new(NamedForm)
	if err := h.parseBody(c, form); err != nil {
		return err
	}
	name := strings.TrimSpace(form.Name)

	var existing int64
	if err := h.DB.WithContext(c.UserContext()).Model(new(T)).
		Where("LOWER(name) = ?", strings.ToLower(name)).Count(&existing).Error; err != nil {
		return fmt.Errorf("%w: %w", repository.ErrDataAccess, err)
	}
	if existing > 0 {
		return apierror.Validation(fmt.Sprintf("%q already exists", name))
	}

	uow := repository.NewUnitOfWork(h.DB)
	entity := build(name)
	repository.For[T](uow).Add(entity)
	if _, err := uow.Complete(c.UserContext()); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(entity)
}

// POST /api/products/images stores the multipart "image" file under
// <static>/images/products with a random name.
func (h *handler) uploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return apierror.Validation("image file is required")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExtensions[ext] {
		return apierror.Validation("image must be a png, jpg, gif or webp file")
	}

	dir := filepath.Join(h.Config.StaticDir, "images", "products")
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	filename := uuid.New().String() + ext
	if err := c.SaveFile(file, filepath.Join(dir, filename)); err != nil {
		return err
	}

	path := "images/products/" + filename
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"filename":   filename,
		"path":       path,
		"pictureUrl": pictureURL(h.Config.ApiURL, path),
	})
}
