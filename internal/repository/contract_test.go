package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"linkbot/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPromo = model.PromoConfig{Enabled: true, Limit: 5, Prefix: "LP"}

// runRepositoryContract exercises the behaviour every backend must share.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) DocumentRepository) {
	t.Run("Load without data returns defaults", func(t *testing.T) {
		repo := newRepo(t)
		doc, err := repo.Load(context.Background())

		require.NoError(t, err)
		assert.Empty(t, doc.Quick)
		assert.Equal(t, model.DefaultChannels, doc.Channels)
		assert.Equal(t, model.DefaultSites, doc.Sites)
		assert.True(t, doc.Promo.Enabled)
		assert.Equal(t, 5, doc.Promo.Limit)
		assert.Equal(t, "LP", doc.Promo.Prefix)
		assert.NotNil(t, doc.Promo.Winners)
		assert.Empty(t, doc.Promo.Winners)
	})

	t.Run("Init is idempotent and keeps existing data", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Init(ctx))

		doc, err := repo.Load(ctx)
		require.NoError(t, err)
		doc.Quick = append(doc.Quick, model.Link{Title: "Q", URL: "https://q.example"})
		require.NoError(t, repo.Save(ctx, doc))

		require.NoError(t, repo.Init(ctx))

		doc, err = repo.Load(ctx)
		require.NoError(t, err)
		require.Len(t, doc.Quick, 1)
		assert.Equal(t, "Q", doc.Quick[0].Title)
	})

	t.Run("Save and Load round-trip the whole document", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		doc := model.NewDefaultDocument(testPromo)
		doc.Sites = append(doc.Sites, model.Link{Title: "İnternet Siteleri 🌐", URL: "https://sites.example"})
		doc.Promo.Winners["100"] = "LP-ABCDEFGHIJ"
		doc.Promo.Enabled = false
		doc.Users = []int64{100, 200}

		require.NoError(t, repo.Save(ctx, doc))

		loaded, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, doc, loaded)
	})

	t.Run("Update without change does not write", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.Init(ctx))

		err := repo.Update(ctx, func(doc *model.Document) (bool, error) {
			doc.Quick = append(doc.Quick, model.Link{Title: "lost", URL: "https://lost.example"})
			return false, nil
		})
		require.NoError(t, err)

		doc, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, doc.Quick)
	})

	t.Run("Update propagates callback errors without writing", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.Init(ctx))

		boom := errors.New("boom")
		err := repo.Update(ctx, func(doc *model.Document) (bool, error) {
			doc.Promo.Winners["1"] = "LP-XXXXXXXXXX"
			return true, boom
		})
		require.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, model.ErrStorage)

		doc, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, doc.Promo.Winners)
	})

	t.Run("Concurrent updates never lose writes", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.Init(ctx))

		const writers = 8
		var wg sync.WaitGroup
		errs := make(chan error, writers)

		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				errs <- repo.Update(ctx, func(doc *model.Document) (bool, error) {
					doc.Promo.Winners[fmt.Sprint(id)] = fmt.Sprintf("LP-%010d", id)
					return true, nil
				})
			}(i)
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}

		doc, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, doc.Promo.Winners, writers)
	})
}
