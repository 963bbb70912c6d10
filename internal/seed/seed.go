package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/util"
)

var ErrAdminPasswordRequired = errors.New("admin password is required to create the admin user")

// Result summarizes an import run.
type Result struct {
	Created int
	Updated int
	Failed  []RowError
}

type Importer struct {
	products    service.ProductService
	productRepo repository.ProductRepository
	users       repository.UserRepository
}

func NewImporter(productRepo repository.ProductRepository, userRepo repository.UserRepository) *Importer {
	return &Importer{
		products:    service.NewProductService(productRepo),
		productRepo: productRepo,
		users:       userRepo,
	}
}

// ImportProducts upserts products keyed by title. Rows rejected by product
// validation are reported in the result; storage failures abort the run.
func (im *Importer) ImportProducts(ctx context.Context, entries []Entry) (*Result, error) {
	result := &Result{}

	for _, entry := range entries {
		p := entry.Product
		row := entry.Row

		existing, err := im.productRepo.FindByTitle(ctx, p.Title)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			if err := im.products.CreateProduct(ctx, &p); err != nil {
				if rejected(err) {
					result.Failed = append(result.Failed, RowError{Row: row, Reason: err.Error()})
					continue
				}
				return result, fmt.Errorf("create product %q: %w", p.Title, err)
			}
			result.Created++
		case err != nil:
			return result, fmt.Errorf("find product %q: %w", p.Title, err)
		default:
			if _, err := im.products.UpdateProduct(ctx, existing.ID, patchFrom(p)); err != nil {
				if rejected(err) {
					result.Failed = append(result.Failed, RowError{Row: row, Reason: err.Error()})
					continue
				}
				return result, fmt.Errorf("update product %q: %w", p.Title, err)
			}
			result.Updated++
		}
	}

	logger.Info("Product import finished", map[string]interface{}{
		"created": result.Created,
		"updated": result.Updated,
		"failed":  len(result.Failed),
	})
	return result, nil
}

func rejected(err error) bool {
	return errors.Is(err, service.ErrInvalidProduct) || errors.Is(err, service.ErrProductRequiredFields)
}

func patchFrom(p model.Product) service.ProductPatch {
	patch := service.ProductPatch{
		Description:          &p.Description,
		Price:                &p.Price,
		DiscountedPrice:      p.DiscountedPrice,
		ClearDiscountedPrice: p.DiscountedPrice == nil,
		Sizes:                &p.Sizes,
		Category:             &p.Category,
		Stock:                &p.Stock,
	}
	if len(p.Images) > 0 {
		patch.Images = p.Images
	}
	return patch
}

// EnsureAdmin makes sure an admin account exists for email. An existing
// account is promoted; a missing one is created with password.
func (im *Importer) EnsureAdmin(ctx context.Context, email, password, fullName string) (*model.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := im.users.FindByEmail(ctx, email)
	if err == nil {
		if user.IsAdmin() {
			return user, false, nil
		}
		user.Role = model.RoleAdmin
		if err := im.users.Update(ctx, user); err != nil {
			return nil, false, fmt.Errorf("promote admin: %w", err)
		}
		logger.Info("Promoted existing user to admin", map[string]interface{}{
			"user_id": user.ID,
		})
		return user, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("find admin: %w", err)
	}

	if password == "" {
		return nil, false, ErrAdminPasswordRequired
	}
	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	user = &model.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         model.RoleAdmin,
	}
	if err := im.users.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("create admin: %w", err)
	}
	logger.Info("Created admin user", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return user, true, nil
}
