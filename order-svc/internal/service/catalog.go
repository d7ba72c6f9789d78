package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"bistro-backend/order-svc/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// lookupTimeout bounds a shared lookup once it no longer follows the
// cancellation of the caller that started it.
const lookupTimeout = 5 * time.Second

type MenuService struct {
	repo   CatalogRepository
	cache  CatalogCache
	images ImageStore
	sfg    singleflight.Group
}

// NewMenuService accepts a nil cache or image store; lookups then always hit
// the repository and uploads are rejected.
func NewMenuService(repo CatalogRepository, cache CatalogCache, images ImageStore) *MenuService {
	return &MenuService{repo: repo, cache: cache, images: images}
}

func (s *MenuService) Resolve(ctx context.Context, menuItemID int64) (*domain.MenuItem, error) {
	return s.repo.GetMenuItem(ctx, menuItemID)
}

func (s *MenuService) Lookup(ctx context.Context, menuItemID int64) (*domain.MenuItem, error) {
	if s.cache == nil {
		return s.repo.GetMenuItem(ctx, menuItemID)
	}

	v, err, _ := s.sfg.Do(strconv.FormatInt(menuItemID, 10), func() (interface{}, error) {
		// Other callers may be waiting on this result.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()

		item, err := s.cache.Get(ctx, menuItemID)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			zap.L().Warn("catalog cache get failed", zap.Int64("menu_item_id", menuItemID), zap.Error(err))
		}

		item, err = s.repo.GetMenuItem(ctx, menuItemID)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, item); err != nil {
			zap.L().Warn("catalog cache set failed", zap.Int64("menu_item_id", menuItemID), zap.Error(err))
		}
		return item, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.MenuItem), nil
}

func (s *MenuService) List(ctx context.Context) ([]domain.MenuItem, error) {
	return s.repo.ListMenuItems(ctx)
}

func (s *MenuService) Create(ctx context.Context, item *domain.MenuItem, image *domain.Upload) error {
	item.Name = strings.TrimSpace(item.Name)
	item.Description = strings.TrimSpace(item.Description)
	if item.Name == "" || item.Description == "" || item.CategoryID <= 0 || image == nil {
		return domain.ErrMissingFields
	}
	if !item.Price.IsPositive() {
		return domain.ErrInvalidPrice
	}
	if _, err := s.repo.GetCategory(ctx, item.CategoryID); err != nil {
		return err
	}

	url, err := s.saveImage(ctx, "menu", image)
	if err != nil {
		return err
	}
	item.Image = url
	return s.repo.CreateMenuItem(ctx, item)
}

func (s *MenuService) Update(ctx context.Context, id int64, patch domain.MenuItemPatch, image *domain.Upload) (*domain.MenuItem, error) {
	item, err := s.repo.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if name := strings.TrimSpace(*patch.Name); name != "" {
			item.Name = name
		}
	}
	if patch.Description != nil {
		if description := strings.TrimSpace(*patch.Description); description != "" {
			item.Description = description
		}
	}
	if patch.Price != nil {
		if !patch.Price.IsPositive() {
			return nil, domain.ErrInvalidPrice
		}
		item.Price = *patch.Price
	}
	if patch.CategoryID != nil && *patch.CategoryID != item.CategoryID {
		category, err := s.repo.GetCategory(ctx, *patch.CategoryID)
		if err != nil {
			return nil, err
		}
		item.CategoryID = category.ID
		item.CategoryName = category.Name
	}
	if patch.IsAvailable != nil {
		item.IsAvailable = *patch.IsAvailable
	}
	if image != nil {
		url, err := s.saveImage(ctx, "menu", image)
		if err != nil {
			return nil, err
		}
		item.Image = url
	}

	if err := s.repo.UpdateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return item, nil
}

func (s *MenuService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteMenuItem(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *MenuService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		zap.L().Warn("catalog cache invalidation failed", zap.Int64("menu_item_id", id), zap.Error(err))
	}
}

func (s *MenuService) saveImage(ctx context.Context, prefix string, image *domain.Upload) (string, error) {
	return saveImage(ctx, s.images, prefix, image)
}

func saveImage(ctx context.Context, images ImageStore, prefix string, image *domain.Upload) (string, error) {
	if images == nil {
		return "", domain.Validationf("image uploads are disabled")
	}
	return images.Save(ctx, prefix, image.Filename, image.Reader)
}

type CategoryService struct {
	repo   CatalogRepository
	images ImageStore
}

func NewCategoryService(repo CatalogRepository, images ImageStore) *CategoryService {
	return &CategoryService{repo: repo, images: images}
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *CategoryService) Create(ctx context.Context, name string, image *domain.Upload) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" || image == nil {
		return nil, domain.ErrMissingFields
	}

	url, err := saveImage(ctx, s.images, "category", image)
	if err != nil {
		return nil, err
	}

	category := &domain.Category{Name: name, Image: url}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, name string, image *domain.Upload) (*domain.Category, error) {
	category, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		category.Name = name
	}
	if image != nil {
		url, err := saveImage(ctx, s.images, "category", image)
		if err != nil {
			return nil, err
		}
		category.Image = url
	}

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteCategory(ctx, id)
}
