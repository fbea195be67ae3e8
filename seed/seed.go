// Package seed fills an empty database with the demo catalog and users.
package seed

import (
	"context"
	"embed"
	"fmt"

	"storefront/auth"
	"storefront/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed data/*.yaml
var files embed.FS

type catalogFile struct {
	Brands     []string      `yaml:"brands"`
	Categories []string      `yaml:"categories"`
	Products   []productSeed `yaml:"products"`
}

type productSeed struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Price       decimal.Decimal `yaml:"price"`
	Picture     string          `yaml:"picture"`
	Brand       string          `yaml:"brand"`
	Category    string          `yaml:"category"`
}

type usersFile struct {
	Users []userSeed `yaml:"users"`
}

type userSeed struct {
	DisplayName string       `yaml:"displayName"`
	Email       string       `yaml:"email"`
	Password    string       `yaml:"password"`
	Roles       []string     `yaml:"roles"`
	Address     *addressSeed `yaml:"address"`
}

type addressSeed struct {
	FirstName string `yaml:"firstName"`
	LastName  string `yaml:"lastName"`
	Street    string `yaml:"street"`
	City      string `yaml:"city"`
	State     string `yaml:"state"`
	ZipCode   string `yaml:"zipCode"`
}

// Seed inserts every seed set whose tables are still empty. Each set is
// written in its own transaction.
func Seed(ctx context.Context, conn *gorm.DB, log zerolog.Logger) error {
	conn = conn.WithContext(ctx)

	if err := seedCatalog(conn, log); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if err := seedUsers(conn, log); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	return nil
}

func readYAML(name string, out any) error {
	raw, err := files.ReadFile("data/" + name)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(raw, out)
}

func seedCatalog(conn *gorm.DB, log zerolog.Logger) error {
	var existing int64
	if err := conn.Model(&models.Product{}).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	var catalog catalogFile
	if err := readYAML("catalog.yaml", &catalog); err != nil {
		return err
	}

	return conn.Transaction(func(tx *gorm.DB) error {
		brands, err := ensureNamed[models.Brand](tx, catalog.Brands, func(name string) *models.Brand {
			return &models.Brand{Name: name}
		}, func(b *models.Brand) (string, uint) { return b.Name, b.ID })
		if err != nil {
			return err
		}
		categories, err := ensureNamed[models.Category](tx, catalog.Categories, func(name string) *models.Category {
			return &models.Category{Name: name}
		}, func(c *models.Category) (string, uint) { return c.Name, c.ID })
		if err != nil {
			return err
		}

		products := make([]models.Product, 0, len(catalog.Products))
		for _, p := range catalog.Products {
			brandID, ok := brands[p.Brand]
			if !ok {
				return fmt.Errorf("product %q references unknown brand %q", p.Name, p.Brand)
			}
			categoryID, ok := categories[p.Category]
			if !ok {
				return fmt.Errorf("product %q references unknown category %q", p.Name, p.Category)
			}
			products = append(products, models.Product{
				Name:        p.Name,
				Description: p.Description,
				Price:       p.Price,
				PictureURL:  p.Picture,
				BrandID:     brandID,
				CategoryID:  categoryID,
			})
		}
		if err := tx.Create(&products).Error; err != nil {
			return err
		}

		log.Info().
			Int("brands", len(brands)).
			Int("categories", len(categories)).
			Int("products", len(products)).
			Msg("Seeded catalog")
		return nil
	})
}

// ensureNamed creates the named rows that do not exist yet and returns the
// id of every name.
func ensureNamed[T any](tx *gorm.DB, names []string, build func(string) *T, key func(*T) (string, uint)) (map[string]uint, error) {
	var rows []T
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make(map[string]uint, len(names))
	for i := range rows {
		name, id := key(&rows[i])
		ids[name] = id
	}
	for _, name := range names {
		if _, ok := ids[name]; ok {
			continue
		}
		row := build(name)
		if err := tx.Create(row).Error; err != nil {
			return nil, err
		}
		_, id := key(row)
		ids[name] = id
	}
	return ids, nil
}

func seedUsers(conn *gorm.DB, log zerolog.Logger) error {
	var existing int64
	if err := conn.Model(&models.User{}).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	var seeds usersFile
	if err := readYAML("users.yaml", &seeds); err != nil {
		return err
	}

	return conn.Transaction(func(tx *gorm.DB) error {
		for _, s := range seeds.Users {
			hash, err := auth.HashPassword(s.Password)
			if err != nil {
				return err
			}
			user := &models.User{
				DisplayName:  s.DisplayName,
				Email:        s.Email,
				PasswordHash: hash,
				Roles:        s.Roles,
			}
			if a := s.Address; a != nil {
				user.Address = &models.Address{
					FirstName: a.FirstName,
					LastName:  a.LastName,
					Street:    a.Street,
					City:      a.City,
					State:     a.State,
					ZipCode:   a.ZipCode,
				}
			}
			if err := tx.Create(user).Error; err != nil {
				return err
			}
		}
		log.Info().Int("users", len(seeds.Users)).Msg("Seeded users")
		return nil
	})
}
