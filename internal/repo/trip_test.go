package repo_test

import (
	"testing"

	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/repo"
	"github.com/jedrzejp08-cloud/wanderlust-planner/testutil"
)

// newPostgresRepos opens a transaction against the test database and returns
// repositories backed by that transaction. The transaction is rolled back when
// the test finishes, giving free per-test isolation.
//
// Requires TEST_DATABASE_URL; TestMain applies the migrations.
func newPostgresRepos(t *testing.T) (repo.TripRepo, repo.UserRepo) {
	t.Helper()
	tx := testutil.NewTx(t)
	return repo.NewTripRepo(tx), repo.NewUserRepo(tx)
}

func TestPostgresTripRepo(t *testing.T) {
	runTripRepoTests(t, newPostgresRepos)
}

func TestPostgresUserRepo(t *testing.T) {
	runUserRepoTests(t, newPostgresRepos)
}
