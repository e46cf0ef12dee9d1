package repository

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/models"
)

// CachedHours memoises operating-hours lookups. Everything else, including
// reads inside WithClinicLock, goes straight to the wrapped repository.
type CachedHours struct {
	domain.Repository
	cache *gocache.Cache
}

func NewCachedHours(repo domain.Repository, ttl time.Duration) *CachedHours {
	return &CachedHours{
		Repository: repo,
		cache:      gocache.New(ttl, 2*ttl),
	}
}

func hoursKey(clinicID uint, day string) string {
	return fmt.Sprintf("%d:%s", clinicID, day)
}

type cachedHour struct {
	rec *models.ClinicOperatingHour
}

func (c *CachedHours) GetOperatingHour(
	ctx context.Context,
	clinicID uint,
	day string,
) (*models.ClinicOperatingHour, error) {

	key := hoursKey(clinicID, day)
	if v, ok := c.cache.Get(key); ok {
		return v.(cachedHour).rec, nil
	}

	rec, err := c.Repository.GetOperatingHour(ctx, clinicID, day)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(key, cachedHour{rec: rec})
	return rec, nil
}

func (c *CachedHours) ReplaceOperatingHours(
	ctx context.Context,
	clinicID uint,
	hours []models.ClinicOperatingHour,
) error {

	if err := c.Repository.ReplaceOperatingHours(ctx, clinicID, hours); err != nil {
		return err
	}
	for _, d := range domain.Weekdays {
		c.cache.Delete(hoursKey(clinicID, d))
	}
	return nil
}

var _ domain.Repository = (*CachedHours)(nil)
