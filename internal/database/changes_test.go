package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfalcone/fund-tracker/internal/models"
)

func TestChangesRepository(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	register := func(t *testing.T, lookup string) {
		t.Helper()
		require.NoError(t, testDB.RegisterFunds([]models.Fund{
			{Name: lookup + " Fund", Lookup: lookup},
		}))
	}

	t.Run("RecordChange round-trips the exact fixed-point value", func(t *testing.T) {
		testDB.TruncateAll(t)
		register(t, "FBGR")

		require.NoError(t, testDB.RecordChange("FBGR", 123, "2021-09-05"))

		changes, err := testDB.RangeQuery("FBGR", "2021-09-01", "2021-09-30")
		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Equal(t, "2021-09-05", changes[0].Date)
		assert.Equal(t, int64(123), changes[0].Delta)
	})

	t.Run("RecordChange rejects unknown lookup codes", func(t *testing.T) {
		testDB.TruncateAll(t)

		err := testDB.RecordChange("NOPE", 123, "2021-09-05")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownFund)
	})

	t.Run("RangeQuery orders ascending by date", func(t *testing.T) {
		testDB.TruncateAll(t)
		register(t, "FBAL")

		require.NoError(t, testDB.RecordChange("FBAL", 300, "2021-09-03"))
		require.NoError(t, testDB.RecordChange("FBAL", 100, "2021-09-01"))
		require.NoError(t, testDB.RecordChange("FBAL", 200, "2021-09-02"))

		changes, err := testDB.RangeQuery("FBAL", "2021-09-01", "2021-09-30")
		require.NoError(t, err)
		require.Len(t, changes, 3)
		assert.Equal(t, "2021-09-01", changes[0].Date)
		assert.Equal(t, "2021-09-02", changes[1].Date)
		assert.Equal(t, "2021-09-03", changes[2].Date)
	})

	t.Run("RangeQuery restricts to the window", func(t *testing.T) {
		testDB.TruncateAll(t)
		register(t, "FBGR")

		require.NoError(t, testDB.RecordChange("FBGR", 1, "2020-08-31"))
		require.NoError(t, testDB.RecordChange("FBGR", 2, "2021-06-15"))
		require.NoError(t, testDB.RecordChange("FBGR", 3, "2021-09-06"))

		changes, err := testDB.RangeQuery("FBGR", "2020-09-05", "2021-09-05")
		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Equal(t, int64(2), changes[0].Delta)
	})

	t.Run("RangeQuery scopes to the requested fund", func(t *testing.T) {
		testDB.TruncateAll(t)
		register(t, "FBGR")
		register(t, "FBAL")

		require.NoError(t, testDB.RecordChange("FBGR", 111, "2021-09-05"))
		require.NoError(t, testDB.RecordChange("FBAL", 222, "2021-09-05"))

		changes, err := testDB.RangeQuery("FBAL", "2021-09-01", "2021-09-30")
		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Equal(t, int64(222), changes[0].Delta)
	})

	t.Run("duplicate fund/date rows are not deduplicated", func(t *testing.T) {
		// single-invocation-per-day is the orchestrator's job, not the store's
		testDB.TruncateAll(t)
		register(t, "FBGR")

		require.NoError(t, testDB.RecordChange("FBGR", 100, "2021-09-05"))
		require.NoError(t, testDB.RecordChange("FBGR", 100, "2021-09-05"))

		changes, err := testDB.RangeQuery("FBGR", "2021-09-01", "2021-09-30")
		require.NoError(t, err)
		assert.Len(t, changes, 2)
	})
}
