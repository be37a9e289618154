package settings

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/home-services-api/internal/httperr"
	"github.com/BruksfildServices01/home-services-api/internal/models"
)

func testSettings(t *testing.T) *CommissionSettings {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.CommissionSetting{}))
	// redis nil: o read-through é opcional, o banco basta
	return NewCommissionSettings(db, nil, zap.NewNop(), 1500)
}

func TestCurrentRateFallsBackToDefault(t *testing.T) {
	s := testSettings(t)
	assert.Equal(t, int64(1500), s.CurrentRateBps(context.Background()))
}

func TestUpdateRateThenRead(t *testing.T) {
	s := testSettings(t)
	admin := uint(1)

	require.NoError(t, s.UpdateRate(context.Background(), 2000, admin))
	assert.Equal(t, int64(2000), s.CurrentRateBps(context.Background()))

	// segunda escrita atualiza a mesma linha, não cria outra
	require.NoError(t, s.UpdateRate(context.Background(), 500, admin))
	assert.Equal(t, int64(500), s.CurrentRateBps(context.Background()))

	var count int64
	s.db.Model(&models.CommissionSetting{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUpdateRateRejectsOutOfRange(t *testing.T) {
	s := testSettings(t)

	err := s.UpdateRate(context.Background(), 10000, 1)
	assert.True(t, httperr.IsBusiness(err, "invalid_commission_rate"))

	err = s.UpdateRate(context.Background(), -1, 1)
	assert.True(t, httperr.IsBusiness(err, "invalid_commission_rate"))

	// zero é taxa válida: plataforma pode abrir mão da comissão
	assert.NoError(t, s.UpdateRate(context.Background(), 0, 1))
	assert.Equal(t, int64(0), s.CurrentRateBps(context.Background()))
}
