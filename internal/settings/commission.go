package settings

import (
	"context"
	"strconv"
	"time"

	"github.com/BruksfildServices01/home-services-api/internal/commission"
	"github.com/BruksfildServices01/home-services-api/internal/httperr"
	"github.com/BruksfildServices01/home-services-api/internal/models"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RateSource entrega a taxa vigente da plataforma para o orquestrador.
type RateSource interface {
	CurrentRateBps(ctx context.Context) int64
}

const (
	rateCacheKey = "settings:commission_rate_bps"
	rateCacheTTL = 60 * time.Second
)

// CommissionSettings lê a taxa do banco com read-through no redis.
// Qualquer falha (cache ou banco) cai no default: cobrar a taxa
// padrão é sempre melhor do que travar um aceite.
type CommissionSettings struct {
	db     *gorm.DB
	redis  *redis.Client
	log    *zap.Logger
	defBps int64
}

func NewCommissionSettings(db *gorm.DB, rdb *redis.Client, log *zap.Logger, defaultBps int64) *CommissionSettings {
	if defaultBps <= 0 {
		defaultBps = commission.DefaultRateBps
	}
	return &CommissionSettings{
		db:     db,
		redis:  rdb,
		log:    log.Named("settings"),
		defBps: defaultBps,
	}
}

func (s *CommissionSettings) CurrentRateBps(ctx context.Context) int64 {
	if s.redis != nil {
		if v, err := s.redis.Get(ctx, rateCacheKey).Result(); err == nil {
			if bps, err := strconv.ParseInt(v, 10, 64); err == nil && bps >= 0 && bps < 10000 {
				return bps
			}
		}
	}

	var setting models.CommissionSetting
	err := s.db.WithContext(ctx).Order("id ASC").First(&setting).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			s.log.Warn("falha ao ler commission_settings, usando default",
				zap.Error(err), zap.Int64("default_bps", s.defBps))
		}
		return s.defBps
	}

	bps := setting.RateBps
	if bps < 0 || bps >= 10000 {
		s.log.Warn("commission_settings com taxa fora da faixa, usando default",
			zap.Int64("rate_bps", bps))
		return s.defBps
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, rateCacheKey, strconv.FormatInt(bps, 10), rateCacheTTL).Err(); err != nil {
			s.log.Debug("cache da taxa não gravado", zap.Error(err))
		}
	}

	return bps
}

// UpdateRate grava a nova taxa e invalida o cache. Uso exclusivo do admin.
func (s *CommissionSettings) UpdateRate(ctx context.Context, bps int64, updatedBy uint) error {
	if bps < 0 || bps >= 10000 {
		return httperr.ErrBusiness("invalid_commission_rate")
	}

	var setting models.CommissionSetting
	err := s.db.WithContext(ctx).Order("id ASC").First(&setting).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		setting = models.CommissionSetting{RateBps: bps, UpdatedBy: &updatedBy}
		err = s.db.WithContext(ctx).Create(&setting).Error
	case err == nil:
		setting.RateBps = bps
		setting.UpdatedBy = &updatedBy
		err = s.db.WithContext(ctx).Save(&setting).Error
	}
	if err != nil {
		return err
	}

	if s.redis != nil {
		if err := s.redis.Del(ctx, rateCacheKey).Err(); err != nil {
			s.log.Debug("cache da taxa não invalidado", zap.Error(err))
		}
	}
	return nil
}

var _ RateSource = (*CommissionSettings)(nil)
