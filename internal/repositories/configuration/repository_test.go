package configuration

import (
	"context"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Ramsey-B/sapling/internal/repositories/repotest"
	"github.com/Ramsey-B/sapling/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository(t *testing.T) {
	repo := NewRepository(repotest.Open(t), repotest.Logger())
	ctx := context.Background()

	description := "Open road"
	for _, c := range []models.Configuration{
		{ConfigType: models.ConfigTypeODD, Code: "CFG-ODD-2", Description: &description},
		{ConfigType: models.ConfigTypeODD, Code: "CFG-ODD-1"},
		{ConfigType: models.ConfigTypePlatform, Code: "Terberg-1"},
	} {
		created, err := repo.Create(ctx, &c)
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
	}

	t.Run("duplicate code conflicts", func(t *testing.T) {
		_, err := repo.Create(ctx, &models.Configuration{ConfigType: models.ConfigTypeODD, Code: "CFG-ODD-1"})
		assert.True(t, httperror.IsStatus(err, 409))
	})

	t.Run("same code under another type is allowed", func(t *testing.T) {
		_, err := repo.Create(ctx, &models.Configuration{ConfigType: models.ConfigTypeTrailer, Code: "CFG-ODD-1"})
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, models.ConfigTypeTrailer, "CFG-ODD-1"))
	})

	t.Run("list by type", func(t *testing.T) {
		odd, err := repo.List(ctx, models.ConfigTypeODD)
		require.NoError(t, err)
		require.Len(t, odd, 2)
		assert.Equal(t, "CFG-ODD-1", odd[0].Code)
		assert.Nil(t, odd[0].Description)
		assert.Equal(t, "Open road", models.StringValue(odd[1].Description))
	})

	t.Run("list all", func(t *testing.T) {
		all, err := repo.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 3)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("update description", func(t *testing.T) {
		_, err := repo.Update(ctx, &models.Configuration{ConfigType: models.ConfigTypeODD, Code: "CFG-ODD-1", Description: models.StringPtr("Depot")})
		require.NoError(t, err)

		odd, err := repo.List(ctx, models.ConfigTypeODD)
		require.NoError(t, err)
		assert.Equal(t, "Depot", models.StringValue(odd[0].Description))

		_, err = repo.Update(ctx, &models.Configuration{ConfigType: models.ConfigTypeODD, Code: "CFG-ODD-7"})
		assert.True(t, httperror.IsNotFound(err))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, models.ConfigTypePlatform, "Terberg-1"))
		assert.True(t, httperror.IsNotFound(repo.Delete(ctx, models.ConfigTypePlatform, "Terberg-1")))
	})
}
