package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jonathan/career-assessor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProfile() types.UserProfile {
	return types.UserProfile{
		Name:           "Ada",
		Email:          "ada@example.com",
		EducationLevel: "Bachelor",
		Skills:         []string{"math"},
		Interests:      []string{"engines"},
	}
}

func sampleRaw() types.RawScores {
	raw := types.NewRawScores()
	raw.Add(types.Personality, types.Resilience, 4)
	raw.Add(types.Personality, types.Teamwork, 5)
	return raw
}

func sampleReport() *types.ReportData {
	report := &types.ReportData{
		ProfileSummary:    "Steady and collaborative.",
		Strengths:         []types.Strength{{Title: "Teamwork", Description: "Works well with others"}},
		CareerMatches:     []types.CareerMatch{{Title: "Project Coordinator", MatchPercent: 70, Reason: "Teamwork"}},
		ConcludingRemarks: "Good luck.",
	}
	for _, cat := range types.AllCategories() {
		report.DetailedAnalyses = append(report.DetailedAnalyses, types.CategoryAnalysis{Category: cat, Summary: "ok"})
	}
	return report
}

func saveFull(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.SaveCheckpoint(ctx, sampleProfile(), sampleRaw()))
	require.NoError(t, store.SaveReport(ctx, sampleReport()))
}

func TestStore_RoundTrip(t *testing.T) {
	for name, factory := range cacheFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			cache := factory(t)
			t.Cleanup(func() {
				_ = cache.Clear(ctx)
				_ = cache.Close()
			})
			store := NewStore(cache, nil)
			saveFull(t, store)

			snap, err := store.Load(ctx)
			require.NoError(t, err)
			require.NotNil(t, snap)
			assert.Equal(t, sampleProfile(), snap.Profile)
			assert.Equal(t, sampleRaw(), snap.Raw)
			assert.Equal(t, *sampleReport(), snap.Report)
		})
	}
}

func TestStore_LoadEmpty(t *testing.T) {
	snap, err := NewStore(NewMemoryCache(), nil).Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestStore_CheckpointWithoutReportIsAbsent(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()
	store := NewStore(cache, nil)
	require.NoError(t, store.SaveCheckpoint(ctx, sampleProfile(), sampleRaw()))

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)

	// A partial snapshot is left in place.
	data, err := cache.Get(ctx, KeyProfile)
	require.NoError(t, err)
	assert.NotNil(t, data)
}

func TestStore_CheckpointDropsOldReport(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()
	store := NewStore(cache, nil)
	saveFull(t, store)

	require.NoError(t, store.SaveCheckpoint(ctx, sampleProfile(), types.NewRawScores()))

	report, err := cache.Get(ctx, KeyReport)
	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestStore_CorruptRecordsWipeCache(t *testing.T) {
	badRaw := types.NewRawScores()
	badRaw[types.Personality]["charisma"] = 3
	badRawJSON, err := json.Marshal(badRaw)
	require.NoError(t, err)

	misaligned := sampleReport()
	misaligned.DetailedAnalyses = misaligned.DetailedAnalyses[:2]
	misalignedJSON, err := json.Marshal(misaligned)
	require.NoError(t, err)

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"profile not json", KeyProfile, "{not json"},
		{"profile null", KeyProfile, "null"},
		{"profile unknown field", KeyProfile, `{"name": "Ada", "favourite_colour": "blue"}`},
		{"raw scores wrong shape", KeyRawScores, string(badRawJSON)},
		{"raw scores missing category", KeyRawScores, `{"Personality": {"resilience": 1, "teamwork": 0, "decisionMaking": 0, "openness": 0}}`},
		{"report truncated", KeyReport, `{"profile_summary": "x"`},
		{"report missing fields", KeyReport, `{"profile_summary": ""}`},
		{"report misaligned", KeyReport, string(misalignedJSON)},
		{"trailing garbage", KeyReport, `{} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			cache := NewMemoryCache()
			store := NewStore(cache, nil)
			saveFull(t, store)
			require.NoError(t, cache.Put(ctx, tt.key, []byte(tt.value)))

			snap, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, snap)

			for _, key := range []string{KeyProfile, KeyRawScores, KeyReport} {
				data, err := cache.Get(ctx, key)
				require.NoError(t, err)
				assert.Nil(t, data, "cache wiped: %s", key)
			}
		})
	}
}

type failingCache struct {
	*MemoryCache
	getErr   error
	putErr   error
	clearErr error
}

func (f *failingCache) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.MemoryCache.Get(ctx, key)
}

func (f *failingCache) Put(ctx context.Context, key string, value []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	return f.MemoryCache.Put(ctx, key, value)
}

func (f *failingCache) Clear(ctx context.Context) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	return f.MemoryCache.Clear(ctx)
}

func TestStore_IOErrorsSurface(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk on fire")

	_, err := NewStore(&failingCache{MemoryCache: NewMemoryCache(), getErr: boom}, nil).Load(ctx)
	assert.ErrorIs(t, err, boom)

	err = NewStore(&failingCache{MemoryCache: NewMemoryCache(), putErr: boom}, nil).SaveCheckpoint(ctx, sampleProfile(), sampleRaw())
	assert.ErrorIs(t, err, boom)

	err = NewStore(&failingCache{MemoryCache: NewMemoryCache(), clearErr: boom}, nil).SaveCheckpoint(ctx, sampleProfile(), sampleRaw())
	assert.ErrorIs(t, err, boom)

	assert.Error(t, NewStore(NewMemoryCache(), nil).SaveReport(ctx, nil))
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryCache(), nil)
	saveFull(t, store)

	require.NoError(t, store.Clear(ctx))

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)
}
