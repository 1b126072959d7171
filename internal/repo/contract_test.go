package repo_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/domain"
	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/repo"
)

// repoFactory returns a fresh, isolated pair of repositories for one test.
type repoFactory func(t *testing.T) (repo.TripRepo, repo.UserRepo)

// mustCreateUser inserts a user with a unique email and returns it. Trips
// reference their owner, so every trip test starts here.
func mustCreateUser(t *testing.T, users repo.UserRepo) domain.User {
	t.Helper()
	u, err := users.Create(context.Background(), domain.User{
		Email: "user-" + uuid.NewString() + "@example.com",
		Name:  "Traveller",
	})
	require.NoError(t, err)
	return u
}

// tripFixture returns a two-day trip owned by ownerID.
// Callers can override individual fields after calling this function.
func tripFixture(ownerID uuid.UUID) domain.TripPlan {
	hotel := decimal.NewFromInt(200)
	dinner := decimal.RequireFromString("45.50")
	return domain.TripPlan{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Destination: "Paris",
		Origin:      "Warsaw",
		StartDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Travelers:   2,
		Budget:      decimal.NewFromInt(1500),
		Style:       domain.StyleBalanced,
		CreatedAt:   time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
		Days: []domain.TripDay{
			{Date: "2025-06-01", Activities: []domain.Activity{
				{ID: "a1", Type: domain.ActivityHotel, Name: "Hotel Comfort", Time: "14:00", Price: &hotel},
				{ID: "a2", Type: domain.ActivityAttraction, Name: "Old Town", Time: "10:00", Duration: 120,
					Location: &domain.Location{Lat: 48.85, Lng: 2.35, Address: "Paris"}},
			}},
			{Date: "2025-06-02", Activities: []domain.Activity{
				{ID: "a3", Type: domain.ActivityRestaurant, Name: "Bistro Moderne", Time: "19:00", Price: &dinner},
			}},
		},
	}
}

// assertSameTrip compares two trips field by field. Decimals and times are
// compared by value because storage may change their representation.
func assertSameTrip(t *testing.T, want, got domain.TripPlan) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.OwnerID, got.OwnerID)
	assert.Equal(t, want.Destination, got.Destination)
	assert.Equal(t, want.Origin, got.Origin)
	assert.True(t, want.StartDate.Equal(got.StartDate), "StartDate: want %s got %s", want.StartDate, got.StartDate)
	assert.True(t, want.EndDate.Equal(got.EndDate), "EndDate: want %s got %s", want.EndDate, got.EndDate)
	assert.Equal(t, want.Travelers, got.Travelers)
	assert.True(t, want.Budget.Equal(got.Budget), "Budget: want %s got %s", want.Budget, got.Budget)
	assert.Equal(t, want.Style, got.Style)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "CreatedAt: want %s got %s", want.CreatedAt, got.CreatedAt)

	require.Len(t, got.Days, len(want.Days))
	for i := range want.Days {
		assert.Equal(t, want.Days[i].Date, got.Days[i].Date)
		require.Len(t, got.Days[i].Activities, len(want.Days[i].Activities))
		for j, wa := range want.Days[i].Activities {
			ga := got.Days[i].Activities[j]
			assert.Equal(t, wa.ID, ga.ID)
			assert.Equal(t, wa.Type, ga.Type)
			assert.Equal(t, wa.Name, ga.Name)
			assert.Equal(t, wa.Duration, ga.Duration)
			assert.Equal(t, wa.Location, ga.Location)
			if wa.Price == nil {
				assert.Nil(t, ga.Price)
				continue
			}
			require.NotNil(t, ga.Price)
			assert.True(t, wa.Price.Equal(*ga.Price), "price of %s", wa.ID)
		}
	}
}

func runTripRepoTests(t *testing.T, newRepos repoFactory) {
	ctx := context.Background()

	t.Run("save then get", func(t *testing.T) {
		trips, users := newRepos(t)
		owner := mustCreateUser(t, users)
		input := tripFixture(owner.ID)

		saved, err := trips.Save(ctx, input)
		require.NoError(t, err)
		assertSameTrip(t, input, saved)

		got, err := trips.GetByID(ctx, owner.ID, input.ID)
		require.NoError(t, err)
		assertSameTrip(t, input, got)
	})

	t.Run("save replaces existing trip", func(t *testing.T) {
		trips, users := newRepos(t)
		owner := mustCreateUser(t, users)
		input := tripFixture(owner.ID)
		_, err := trips.Save(ctx, input)
		require.NoError(t, err)

		input.Destination = "Rome"
		input.Budget = decimal.RequireFromString("999.99")
		input.Days = input.Days[:1]
		_, err = trips.Save(ctx, input)
		require.NoError(t, err)

		got, err := trips.GetByID(ctx, owner.ID, input.ID)
		require.NoError(t, err)
		assertSameTrip(t, input, got)

		all, err := trips.List(ctx, owner.ID)
		require.NoError(t, err)
		assert.Len(t, all, 1, "upsert must not duplicate")
	})

	t.Run("replace keeps original created at", func(t *testing.T) {
		trips, users := newRepos(t)
		owner := mustCreateUser(t, users)
		input := tripFixture(owner.ID)
		_, err := trips.Save(ctx, input)
		require.NoError(t, err)

		edited := input
		edited.Destination = "Rome"
		edited.CreatedAt = input.CreatedAt.Add(72 * time.Hour)
		saved, err := trips.Save(ctx, edited)
		require.NoError(t, err)
		assert.True(t, saved.CreatedAt.Equal(input.CreatedAt), "save returned %s", saved.CreatedAt)

		got, err := trips.GetByID(ctx, owner.ID, input.ID)
		require.NoError(t, err)
		assert.Equal(t, "Rome", got.Destination)
		assert.True(t, got.CreatedAt.Equal(input.CreatedAt), "stored %s", got.CreatedAt)
	})

	t.Run("fractional budget round trips exactly", func(t *testing.T) {
		trips, users := newRepos(t)
		owner := mustCreateUser(t, users)
		for _, amount := range []string{"1234.56", "0.01", "99999.9"} {
			input := tripFixture(owner.ID)
			input.ID = uuid.New()
			input.Budget = decimal.RequireFromString(amount)

			_, err := trips.Save(ctx, input)
			require.NoError(t, err)

			got, err := trips.GetByID(ctx, owner.ID, input.ID)
			require.NoError(t, err)
			assert.True(t, got.Budget.Equal(input.Budget), "budget %s stored as %s", amount, got.Budget)
		}
	})

	t.Run("empty days round trip as empty", func(t *testing.T) {
		trips, users := newRepos(t)
		owner := mustCreateUser(t, users)
		input := tripFixture(owner.ID)
		input.Days = nil

		_, err := trips.Save(ctx, input)
		require.NoError(t, err)

		got, err := trips.GetByID(ctx, owner.ID, input.ID)
		require.NoError(t, err)
		assert.NotNil(t, got.Days)
		assert.Empty(t, got.Days)
	})

	t.Run("save rejects another owner's id", func(t *testing.T) {
		trips, users := newRepos(t)
		alice, bob := mustCreateUser(t, users), mustCreateUser(t, users)
		input := tripFixture(alice.ID)
		_, err := trips.Save(ctx, input)
		require.NoError(t, err)

		hijack := input
		hijack.OwnerID = bob.ID
		hijack.Destination = "Elsewhere"
		_, err = trips.Save(ctx, hijack)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		got, err := trips.GetByID(ctx, alice.ID, input.ID)
		require.NoError(t, err)
		assert.Equal(t, "Paris", got.Destination)
	})

	t.Run("get is owner scoped", func(t *testing.T) {
		trips, users := newRepos(t)
		alice, bob := mustCreateUser(t, users), mustCreateUser(t, users)
		input := tripFixture(alice.ID)
		_, err := trips.Save(ctx, input)
		require.NoError(t, err)

		_, err = trips.GetByID(ctx, bob.ID, input.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("get unknown id", func(t *testing.T) {
		trips, users := newRepos(t)
		owner := mustCreateUser(t, users)

		_, err := trips.GetByID(ctx, owner.ID, uuid.New())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("list orders by start date then creation", func(t *testing.T) {
		trips, users := newRepos(t)
		owner, other := mustCreateUser(t, users), mustCreateUser(t, users)

		june := tripFixture(owner.ID)
		june.Destination = "June"

		july := tripFixture(owner.ID)
		july.Destination = "July"
		july.StartDate = june.StartDate.AddDate(0, 1, 0)
		july.EndDate = june.EndDate.AddDate(0, 1, 0)

		juneLater := tripFixture(owner.ID)
		juneLater.Destination = "June, created later"
		juneLater.CreatedAt = june.CreatedAt.Add(time.Hour)

		foreign := tripFixture(other.ID)
		foreign.Destination = "Foreign"

		for _, tr := range []domain.TripPlan{june, july, juneLater, foreign} {
			_, err := trips.Save(ctx, tr)
			require.NoError(t, err)
		}

		got, err := trips.List(ctx, owner.ID)
		require.NoError(t, err)

		var names []string
		for _, tr := range got {
			names = append(names, tr.Destination)
		}
		assert.Equal(t, []string{"July", "June, created later", "June"}, names)
	})

	t.Run("list empty", func(t *testing.T) {
		trips, users := newRepos(t)
		owner := mustCreateUser(t, users)

		got, err := trips.List(ctx, owner.ID)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("delete", func(t *testing.T) {
		trips, users := newRepos(t)
		owner := mustCreateUser(t, users)
		input := tripFixture(owner.ID)
		_, err := trips.Save(ctx, input)
		require.NoError(t, err)

		require.NoError(t, trips.Delete(ctx, owner.ID, input.ID))

		_, err = trips.GetByID(ctx, owner.ID, input.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound, "trip should be gone after delete")

		err = trips.Delete(ctx, owner.ID, input.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound, "second delete")
	})

	t.Run("delete is owner scoped", func(t *testing.T) {
		trips, users := newRepos(t)
		alice, bob := mustCreateUser(t, users), mustCreateUser(t, users)
		input := tripFixture(alice.ID)
		_, err := trips.Save(ctx, input)
		require.NoError(t, err)

		err = trips.Delete(ctx, bob.ID, input.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = trips.GetByID(ctx, alice.ID, input.ID)
		assert.NoError(t, err)
	})
}

func runUserRepoTests(t *testing.T, newRepos repoFactory) {
	ctx := context.Background()

	t.Run("create then get", func(t *testing.T) {
		_, users := newRepos(t)
		email := "Anna." + uuid.NewString() + "@Example.com"

		created, err := users.Create(ctx, domain.User{Email: email, Name: "Anna", Avatar: "https://example.com/a.png"})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, strings.ToLower(email), created.Email)
		assert.False(t, created.IsPremium)
		assert.False(t, created.CreatedAt.IsZero())

		byID, err := users.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Email, byID.Email)
		assert.Equal(t, "Anna", byID.Name)
		assert.Equal(t, "https://example.com/a.png", byID.Avatar)

		byEmail, err := users.GetByEmail(ctx, strings.ToUpper(email))
		require.NoError(t, err)
		assert.Equal(t, created.ID, byEmail.ID)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, users := newRepos(t)
		email := uuid.NewString() + "@example.com"
		_, err := users.Create(ctx, domain.User{Email: email, Name: "First"})
		require.NoError(t, err)

		_, err = users.Create(ctx, domain.User{Email: "  " + strings.ToUpper(email), Name: "Second"})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, users := newRepos(t)

		_, err := users.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = users.GetByEmail(ctx, "nobody-"+uuid.NewString()+"@example.com")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = users.SetPremium(ctx, uuid.New(), true)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("set premium", func(t *testing.T) {
		_, users := newRepos(t)
		u := mustCreateUser(t, users)

		upgraded, err := users.SetPremium(ctx, u.ID, true)
		require.NoError(t, err)
		assert.True(t, upgraded.IsPremium)
		assert.Equal(t, u.Email, upgraded.Email)

		got, err := users.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.True(t, got.IsPremium)
	})
}
