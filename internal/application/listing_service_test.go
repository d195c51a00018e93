package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dorpsplein/dorpsplein-api/internal/domain/entity"
	repo "github.com/dorpsplein/dorpsplein-api/internal/domain/repository"
)

func intPtr(i int) *int { return &i }

func newTestListingService(t *testing.T) (*ListingService, *fakeListingRepo) {
	t.Helper()
	rdb, _ := setupTestRedis(t)
	r := newFakeListingRepo()
	return NewListingService(r, rdb, testLogger(), nil, "", 30*time.Minute), r
}

func validRecipeListing() *entity.Listing {
	return &entity.Listing{
		Category: entity.CategoryCheff,
		Title:    "Stamppot boerenkool",
		Photos: []entity.Photo{
			{URL: "https://img/1.jpg", Index: 0, IsMain: true},
		},
		Recipe: &entity.RecipeDetails{
			Ingredients:  []string{"boerenkool", "aardappelen"},
			Instructions: []string{"Kook de aardappelen", "Stamp alles"},
			PrepTime:     45,
			Servings:     4,
			Difficulty:   "easy",
		},
	}
}

func TestCreate_SaveGuardBlocksWrite(t *testing.T) {
	svc, r := newTestListingService(t)

	l := &entity.Listing{
		Category: entity.CategoryCheff,
		Photos:   []entity.Photo{{URL: "https://img/step.jpg", StepNumber: intPtr(1)}},
	}
	_, err := svc.Create(context.Background(), "user-1", l)

	var saveErr *SaveError
	require.ErrorAs(t, err, &saveErr)
	assert.Len(t, saveErr.Violations, 2, "missing title and missing main photo are both reported")
	assert.Equal(t, 0, r.createCalls, "a failed guard must not write")
}

func TestCreate_UnknownCategory(t *testing.T) {
	svc, _ := newTestListingService(t)
	_, err := svc.Create(context.Background(), "user-1", &entity.Listing{Category: "POTTERY", Title: "x"})
	require.ErrorIs(t, err, ErrUnknownCategory)
}

func TestCreate_DefaultsToPrivate(t *testing.T) {
	svc, _ := newTestListingService(t)
	l, err := svc.Create(context.Background(), "user-1", validRecipeListing())
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPrivate, l.Status)
	assert.Equal(t, "user-1", l.UserID)
}

func TestCreate_RecipeStepPhotoMustMatchInstruction(t *testing.T) {
	svc, _ := newTestListingService(t)

	l := validRecipeListing()
	l.Photos = append(l.Photos, entity.Photo{URL: "https://img/step9.jpg", StepNumber: intPtr(9)})
	_, err := svc.Create(context.Background(), "user-1", l)

	var saveErr *SaveError
	require.ErrorAs(t, err, &saveErr)
}

func TestNormalizePhotos(t *testing.T) {
	l := &entity.Listing{
		Photos: []entity.Photo{
			{URL: "c", Index: 7},
			{URL: "step", StepNumber: intPtr(1), IsMain: true},
			{URL: "a", Index: 2, IsMain: true},
			{URL: "b", Index: 5, IsMain: true},
		},
	}
	normalizePhotos(l)

	heroes := l.MainPhotos()
	require.Len(t, heroes, 3)
	for i, p := range heroes {
		assert.Equal(t, i, p.Index, "hero photos re-indexed 0..n")
	}

	mains := 0
	for _, p := range l.Photos {
		if p.IsMain {
			mains++
		}
		if p.IsProcess() {
			assert.False(t, p.IsMain, "process photos are never main")
		}
	}
	assert.Equal(t, 1, mains, "exactly one main photo after save")
}

func TestNormalizePhotos_FallbackMain(t *testing.T) {
	l := &entity.Listing{
		Photos: []entity.Photo{
			{URL: "step", StepNumber: intPtr(1)},
			{URL: "hero", Index: 0},
		},
	}
	normalizePhotos(l)
	heroes := l.MainPhotos()
	require.Len(t, heroes, 1)
	assert.True(t, heroes[0].IsMain, "first hero becomes main when none is flagged")
}

func TestGet_HidesPrivateFromNonOwners(t *testing.T) {
	svc, _ := newTestListingService(t)
	l, err := svc.Create(context.Background(), "user-1", validRecipeListing())
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "user-2", l.ID)
	require.ErrorIs(t, err, ErrListingNotFound)

	got, err := svc.Get(context.Background(), "user-1", l.ID)
	require.NoError(t, err)
	assert.Equal(t, l.ID, got.ID)
}

func TestList_ViewsSplitByPrice(t *testing.T) {
	svc, _ := newTestListingService(t)
	ctx := context.Background()

	priced := validRecipeListing()
	priced.Status = entity.StatusPublished
	priced.PriceCents = 750
	priced.DeliveryMode = entity.DeliveryPickup
	_, err := svc.Create(ctx, "user-1", priced)
	require.NoError(t, err)

	free := validRecipeListing()
	free.Title = "Appeltaart"
	free.Status = entity.StatusPublished
	_, err = svc.Create(ctx, "user-1", free)
	require.NoError(t, err)

	dorpsplein, err := svc.List(ctx, "user-1", repo.ListingFilter{UserID: "user-1", View: "dorpsplein"})
	require.NoError(t, err)
	require.Len(t, dorpsplein, 1)
	assert.Equal(t, "Stamppot boerenkool", dorpsplein[0].Title)

	inspiratie, err := svc.List(ctx, "user-1", repo.ListingFilter{UserID: "user-1", View: "inspiratie"})
	require.NoError(t, err)
	require.Len(t, inspiratie, 1)
	assert.Equal(t, "Appeltaart", inspiratie[0].Title)
}

func TestList_NonOwnersOnlySeePublished(t *testing.T) {
	svc, _ := newTestListingService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", validRecipeListing()) // private
	require.NoError(t, err)

	ls, err := svc.List(ctx, "user-2", repo.ListingFilter{UserID: "user-1"})
	require.NoError(t, err)
	assert.Empty(t, ls)
}

func TestUpdate_OwnerOnly(t *testing.T) {
	svc, _ := newTestListingService(t)
	ctx := context.Background()
	l, err := svc.Create(ctx, "user-1", validRecipeListing())
	require.NoError(t, err)

	_, err = svc.Update(ctx, "user-2", l.ID, func(l *entity.Listing) { l.Title = "gekaapt" })
	require.ErrorIs(t, err, ErrNotOwner)

	updated, err := svc.Update(ctx, "user-1", l.ID, func(l *entity.Listing) { l.Title = "Nieuwe titel" })
	require.NoError(t, err)
	assert.Equal(t, "Nieuwe titel", updated.Title)
}

func TestUpdate_GuardFailureKeepsStored(t *testing.T) {
	svc, r := newTestListingService(t)
	ctx := context.Background()
	l, err := svc.Create(ctx, "user-1", validRecipeListing())
	require.NoError(t, err)

	updates := r.updateCalls
	_, err = svc.Update(ctx, "user-1", l.ID, func(l *entity.Listing) { l.Title = "" })
	var saveErr *SaveError
	require.ErrorAs(t, err, &saveErr)
	assert.Equal(t, updates, r.updateCalls)

	stored, err := svc.Get(ctx, "user-1", l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stamppot boerenkool", stored.Title)
}

func TestSetActive_Toggles(t *testing.T) {
	svc, _ := newTestListingService(t)
	ctx := context.Background()
	l, err := svc.Create(ctx, "user-1", validRecipeListing())
	require.NoError(t, err)

	on, err := svc.SetActive(ctx, "user-1", l.ID, true)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPublished, on.Status)

	off, err := svc.SetActive(ctx, "user-1", l.ID, false)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPrivate, off.Status)
}

func TestPromoteAndConsumeDraft(t *testing.T) {
	svc, _ := newTestListingService(t)
	ctx := context.Background()
	l, err := svc.Create(ctx, "user-1", validRecipeListing())
	require.NoError(t, err)

	draftID, draft, err := svc.Promote(ctx, "user-1", l.ID)
	require.NoError(t, err)
	assert.Equal(t, l.ID, draft.SourceListingID)
	assert.Equal(t, l.Title, draft.Title)
	assert.Len(t, draft.Photos, 1, "only hero photos carry over")

	// Wrong owner cannot consume.
	_, err = svc.ConsumeDraft(ctx, "user-2", draftID)
	require.ErrorIs(t, err, ErrDraftNotFound)

	got, err := svc.ConsumeDraft(ctx, "user-1", draftID)
	require.NoError(t, err)
	assert.Equal(t, draft.SourceListingID, got.SourceListingID)

	// One-shot: a second consume fails.
	_, err = svc.ConsumeDraft(ctx, "user-1", draftID)
	require.ErrorIs(t, err, ErrDraftNotFound)
}

func TestPromote_OwnerOnly(t *testing.T) {
	svc, _ := newTestListingService(t)
	ctx := context.Background()
	l, err := svc.Create(ctx, "user-1", validRecipeListing())
	require.NoError(t, err)

	_, _, err = svc.Promote(ctx, "user-2", l.ID)
	require.ErrorIs(t, err, ErrNotOwner)
}

func TestDelete_RemovedFromNextList(t *testing.T) {
	svc, _ := newTestListingService(t)
	ctx := context.Background()

	keep, err := svc.Create(ctx, "user-1", validRecipeListing())
	require.NoError(t, err)
	gone, err := svc.Create(ctx, "user-1", validRecipeListing())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "user-1", gone.ID))

	ls, err := svc.List(ctx, "user-1", repo.ListingFilter{UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, ls, 1)
	assert.Equal(t, keep.ID, ls[0].ID)

	_, err = svc.Get(ctx, "user-1", gone.ID)
	require.ErrorIs(t, err, ErrListingNotFound)
}

func TestDelete_OwnerOnly(t *testing.T) {
	svc, r := newTestListingService(t)
	ctx := context.Background()

	l, err := svc.Create(ctx, "user-1", validRecipeListing())
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, "user-2", l.ID), ErrNotOwner)

	stored, err := r.GetByID(l.ID)
	require.NoError(t, err)
	require.NotNil(t, stored, "listing survives a non-owner delete")

	require.ErrorIs(t, svc.Delete(ctx, "user-1", "missing"), ErrListingNotFound)
}

func TestStatsFor(t *testing.T) {
	svc, _ := newTestListingService(t)
	ctx := context.Background()

	priced := validRecipeListing()
	priced.Status = entity.StatusPublished
	priced.PriceCents = 500
	_, err := svc.Create(ctx, "user-1", priced)
	require.NoError(t, err)

	free := validRecipeListing()
	free.Status = entity.StatusPublished
	_, err = svc.Create(ctx, "user-1", free)
	require.NoError(t, err)

	_, err = svc.Create(ctx, "user-1", validRecipeListing()) // private
	require.NoError(t, err)

	st, err := svc.StatsFor(ctx, "user-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 2, st.Published)
	assert.Equal(t, 1, st.Dorpsplein)
	assert.Equal(t, 1, st.Inspiratie)
	assert.Equal(t, 3, st.PerCategory[entity.CategoryCheff])

	// Other viewers only see published listings in the counts.
	st, err = svc.StatsFor(ctx, "user-2", "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, st.Total)
	assert.Equal(t, 2, st.Published)
}

func TestCategoryValidation_Garden(t *testing.T) {
	svc, _ := newTestListingService(t)

	l := &entity.Listing{
		Category: entity.CategoryGrown,
		Title:    "Snijbiet",
		Photos:   []entity.Photo{{URL: "https://img/1.jpg", IsMain: true}},
		Garden:   &entity.GardenDetails{Sunlight: "neon", Water: "medium", Location: "allotment"},
	}
	_, err := svc.Create(context.Background(), "user-1", l)
	var saveErr *SaveError
	require.ErrorAs(t, err, &saveErr)

	l.Garden.Sunlight = "full"
	_, err = svc.Create(context.Background(), "user-1", l)
	require.NoError(t, err)
}

func TestCategoryValidation_HarvestBeforeSowing(t *testing.T) {
	svc, _ := newTestListingService(t)

	sowing := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	harvest := sowing.Add(-24 * time.Hour)
	l := &entity.Listing{
		Category: entity.CategoryGrown,
		Title:    "Snijbiet",
		Photos:   []entity.Photo{{URL: "https://img/1.jpg", IsMain: true}},
		Garden: &entity.GardenDetails{
			Sunlight: "full", Water: "medium", Location: "garden",
			SowingDate: &sowing, HarvestDate: &harvest,
		},
	}
	_, err := svc.Create(context.Background(), "user-1", l)
	var saveErr *SaveError
	require.ErrorAs(t, err, &saveErr)
}
