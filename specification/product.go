package specification

import (
	"math"
	"strings"

	"storefront/models"
)

const (
	MaxPageSize     = 50
	DefaultPageSize = 6
	// MaxPageNumber keeps the row offset of the last page within an int32.
	MaxPageNumber = math.MaxInt32 / MaxPageSize

	SortName      = "name"
	SortPriceAsc  = "priceAsc"
	SortPriceDesc = "priceDesc"
)

// ProductSpecParams are the catalog query parameters accepted by
// GET /api/products.
type ProductSpecParams struct {
	PageNumber int    `query:"pageNumber" json:"pageNumber" validate:"min=1,max=42949672"`
	PageSize   int    `query:"pageSize" json:"pageSize" validate:"min=1"`
	BrandID    *uint  `query:"brandId" json:"brandId"`
	CategoryID *uint  `query:"categoryId" json:"categoryId"`
	Sort       string `query:"sort" json:"sort"`
	Search     string `query:"search" json:"search" validate:"max=100"`
}

func DefaultProductSpecParams() ProductSpecParams {
	return ProductSpecParams{PageNumber: 1, PageSize: DefaultPageSize}
}

// Normalize clamps the page size, lower-cases the search text and treats a
// zero brand or category id as "all".
func (p *ProductSpecParams) Normalize() {
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	p.Search = strings.ToLower(strings.TrimSpace(p.Search))
	if p.BrandID != nil && *p.BrandID == 0 {
		p.BrandID = nil
	}
	if p.CategoryID != nil && *p.CategoryID == 0 {
		p.CategoryID = nil
	}
}

// Skip is the number of rows before the requested page. Page numbers start
// at 1. The result saturates at math.MaxInt32 instead of overflowing.
func (p ProductSpecParams) Skip() int {
	if p.PageNumber < 1 || p.PageSize < 1 {
		return 0
	}
	if p.PageNumber-1 > math.MaxInt32/p.PageSize {
		return math.MaxInt32
	}
	return (p.PageNumber - 1) * p.PageSize
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// productFilter is shared by the list and count specifications so both
// always select the same rows.
func productFilter(spec *Base[models.Product], p ProductSpecParams) *Base[models.Product] {
	if p.Search != "" {
		spec.Where("LOWER(products.name) LIKE ? ESCAPE '!'", containsPattern(strings.ToLower(p.Search)))
	}
	if p.BrandID != nil {
		spec.Where("products.brand_id = ?", *p.BrandID)
	}
	if p.CategoryID != nil {
		spec.Where("products.category_id = ?", *p.CategoryID)
	}
	return spec
}

func ProductsWithBrandsAndCategories(p ProductSpecParams) *Base[models.Product] {
	spec := productFilter(New[models.Product](), p).
		Include("Brand").
		Include("Category")

	switch p.Sort {
	case SortPriceAsc:
		spec.OrderBy("price")
	case SortPriceDesc:
		spec.OrderByDescending("price")
	default:
		spec.OrderBy("name")
	}
	spec.OrderBy("id")

	return spec.ApplyPaging(p.Skip(), p.PageSize)
}

func ProductWithFilterForCount(p ProductSpecParams) *Base[models.Product] {
	return productFilter(New[models.Product](), p)
}

func ProductWithBrandAndCategory(id uint) *Base[models.Product] {
	return New[models.Product]().
		Where("products.id = ?", id).
		Include("Brand").
		Include("Category")
}
