package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablefolk/dmvault/pkg/types"
)

func newTestCampaignStore(t *testing.T) *CampaignStore {
	t.Helper()
	return NewCampaignStore(t.TempDir())
}

func makeCampaign(t *testing.T, s *CampaignStore, name string) *types.Campaign {
	t.Helper()
	c, err := s.Create(types.NewCampaign(types.CreateCampaignRequest{
		Name:            name,
		Description:     "test campaign",
		Setting:         "Testlands",
		DifficultyLevel: types.DifficultyNormal,
	}))
	require.NoError(t, err)
	return c
}

func readFileBytes(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestCampaignStore_CreateAndGet(t *testing.T) {
	s := newTestCampaignStore(t)
	created := makeCampaign(t, s, "The Sunken Keep")

	got, err := s.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, types.StatusPlanning, got.Info.CampaignStatus)

	assert.FileExists(t, s.Path())
}

func TestCampaignStore_CreateDuplicateID(t *testing.T) {
	s := newTestCampaignStore(t)
	created := makeCampaign(t, s, "Original")

	dup := created.Clone()
	_, err := s.Create(dup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrCampaign))
	assert.Contains(t, err.Error(), "already exists")
}

func TestCampaignStore_GetUnknown(t *testing.T) {
	s := newTestCampaignStore(t)
	_, err := s.Get("no-such-id")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestCampaignStore_InitializeCreatesDefaults(t *testing.T) {
	s := newTestCampaignStore(t)
	require.NoError(t, s.Initialize())
	assert.FileExists(t, s.Path())

	settings, err := s.Settings()
	require.NoError(t, err)
	assert.True(t, settings.AutoBackup)
	assert.Equal(t, types.ThemeDark, settings.Theme)

	all, err := s.All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCampaignStore_RoundTripThroughDisk(t *testing.T) {
	dir := t.TempDir()
	created := makeCampaignIn(t, dir, "Persistent")

	// A fresh store over the same directory sees the same data.
	reopened := NewCampaignStore(dir)
	got, err := reopened.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.CreatedAt.UTC(), got.CreatedAt.UTC())
}

func makeCampaignIn(t *testing.T, dir, name string) *types.Campaign {
	t.Helper()
	s := NewCampaignStore(dir)
	return makeCampaign(t, s, name)
}

func TestCampaignStore_Summaries_Ordering(t *testing.T) {
	s := newTestCampaignStore(t)
	never := makeCampaign(t, s, "Never played")
	earlier := makeCampaign(t, s, "Played earlier")
	later := makeCampaign(t, s, "Played later")

	_, err := s.StartSession(earlier.ID)
	require.NoError(t, err)
	_, err = s.StartSession(later.ID)
	require.NoError(t, err)

	summaries, err := s.Summaries()
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, later.ID, summaries[0].ID)
	assert.Equal(t, earlier.ID, summaries[1].ID)
	assert.Equal(t, never.ID, summaries[2].ID, "campaigns without sessions sort last")
}

func TestCampaignStore_Update(t *testing.T) {
	s := newTestCampaignStore(t)
	c := makeCampaign(t, s, "Renameable")

	t.Run("applies partial patch", func(t *testing.T) {
		name := "Renamed"
		updated, err := s.Update(c.ID, types.CampaignPatch{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, "test campaign", updated.Description)
	})

	t.Run("completed campaigns reject updates", func(t *testing.T) {
		done := makeCampaign(t, s, "Done")
		_, err := s.Complete(done.ID)
		require.NoError(t, err)

		name := "Too late"
		_, err = s.Update(done.ID, types.CampaignPatch{Name: &name})
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrCampaign))
	})

	t.Run("invalid patch touches nothing", func(t *testing.T) {
		before := readFileBytes(t, s.Path())
		empty := ""
		_, err := s.Update(c.ID, types.CampaignPatch{Name: &empty})
		require.Error(t, err)
		assert.Equal(t, before, readFileBytes(t, s.Path()))
	})
}

func TestCampaignStore_Delete(t *testing.T) {
	t.Run("unknown id leaves file byte-for-byte unchanged", func(t *testing.T) {
		s := newTestCampaignStore(t)
		makeCampaign(t, s, "Bystander")
		before := readFileBytes(t, s.Path())

		err := s.Delete("no-such-id")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrNotFound))
		assert.Equal(t, before, readFileBytes(t, s.Path()))
	})

	t.Run("active campaign with characters refuses deletion", func(t *testing.T) {
		s := newTestCampaignStore(t)
		c := makeCampaign(t, s, "Crowded")
		_, err := s.UpdateStats(c.ID, 2, 3, 4.0)
		require.NoError(t, err)
		before := readFileBytes(t, s.Path())

		err = s.Delete(c.ID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrCampaign))
		assert.Contains(t, err.Error(), "archive")
		assert.Equal(t, before, readFileBytes(t, s.Path()))
	})

	t.Run("deletion forgets current and recent references", func(t *testing.T) {
		s := newTestCampaignStore(t)
		c := makeCampaign(t, s, "Ephemeral")
		_, err := s.SetCurrent(c.ID)
		require.NoError(t, err)

		require.NoError(t, s.Delete(c.ID))

		current, err := s.Current()
		require.NoError(t, err)
		assert.Nil(t, current)

		recents, err := s.Recent()
		require.NoError(t, err)
		assert.Empty(t, recents)
	})

	t.Run("archived campaign with characters can be deleted", func(t *testing.T) {
		s := newTestCampaignStore(t)
		c := makeCampaign(t, s, "Retired")
		_, err := s.UpdateStats(c.ID, 2, 3, 4.0)
		require.NoError(t, err)
		_, err = s.Archive(c.ID)
		require.NoError(t, err)

		require.NoError(t, s.Delete(c.ID))
		_, err = s.Get(c.ID)
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})
}

func TestCampaignStore_Lifecycle(t *testing.T) {
	s := newTestCampaignStore(t)

	t.Run("start session flips planning to active", func(t *testing.T) {
		c := makeCampaign(t, s, "Fresh")
		updated, err := s.StartSession(c.ID)
		require.NoError(t, err)
		assert.Equal(t, uint(1), updated.CurrentSession)
		assert.Equal(t, types.StatusActive, updated.Info.CampaignStatus)
	})

	t.Run("archived campaigns cannot run sessions", func(t *testing.T) {
		c := makeCampaign(t, s, "Shelved")
		_, err := s.Archive(c.ID)
		require.NoError(t, err)

		_, err = s.StartSession(c.ID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrCampaign))
	})

	t.Run("pause requires active status", func(t *testing.T) {
		c := makeCampaign(t, s, "Still planning")
		_, err := s.Pause(c.ID)
		require.Error(t, err)

		_, err = s.StartSession(c.ID)
		require.NoError(t, err)
		paused, err := s.Pause(c.ID)
		require.NoError(t, err)
		assert.Equal(t, types.StatusOnHold, paused.Info.CampaignStatus)
	})

	t.Run("resume requires on-hold status", func(t *testing.T) {
		c := makeCampaign(t, s, "Running")
		_, err := s.Resume(c.ID)
		require.Error(t, err)

		_, err = s.StartSession(c.ID)
		require.NoError(t, err)
		_, err = s.Pause(c.ID)
		require.NoError(t, err)
		resumed, err := s.Resume(c.ID)
		require.NoError(t, err)
		assert.Equal(t, types.StatusActive, resumed.Info.CampaignStatus)
	})
}

func TestCampaignStore_UpdateStats_Validation(t *testing.T) {
	s := newTestCampaignStore(t)
	c := makeCampaign(t, s, "Statistical")

	_, err := s.UpdateStats(c.ID, 5, 3, 4.0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrValidation))

	_, err = s.UpdateStats(c.ID, 1, 2, 0.5)
	require.Error(t, err)

	updated, err := s.UpdateStats(c.ID, 2, 3, 4.5)
	require.NoError(t, err)
	assert.Equal(t, uint(2), updated.Info.ActiveCharacters)
	assert.Equal(t, uint(3), updated.Info.TotalCharacters)
	assert.Equal(t, 4.5, updated.AverageLevel)
}

func TestCampaignStore_CurrentSelection(t *testing.T) {
	s := newTestCampaignStore(t)
	a := makeCampaign(t, s, "Alpha")
	b := makeCampaign(t, s, "Beta")

	t.Run("current defaults to none", func(t *testing.T) {
		current, err := s.Current()
		require.NoError(t, err)
		assert.Nil(t, current)
	})

	t.Run("use and recent ordering", func(t *testing.T) {
		_, err := s.SetCurrent(a.ID)
		require.NoError(t, err)
		_, err = s.SetCurrent(b.ID)
		require.NoError(t, err)

		current, err := s.Current()
		require.NoError(t, err)
		require.NotNil(t, current)
		assert.Equal(t, b.ID, current.ID)

		recents, err := s.Recent()
		require.NoError(t, err)
		require.Len(t, recents, 2)
		assert.Equal(t, b.ID, recents[0].ID)
		assert.Equal(t, a.ID, recents[1].ID)
	})

	t.Run("non-playable campaigns cannot become current", func(t *testing.T) {
		archived := makeCampaign(t, s, "Archived")
		_, err := s.Archive(archived.ID)
		require.NoError(t, err)

		_, err = s.SetCurrent(archived.ID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrCampaign))
	})

	t.Run("clear current", func(t *testing.T) {
		require.NoError(t, s.ClearCurrent())
		current, err := s.Current()
		require.NoError(t, err)
		assert.Nil(t, current)
	})
}

func TestCampaignStore_Duplicate(t *testing.T) {
	s := newTestCampaignStore(t)
	original := makeCampaign(t, s, "Original")
	_, err := s.StartSession(original.ID)
	require.NoError(t, err)
	_, err = s.UpdateStats(original.ID, 2, 3, 5.0)
	require.NoError(t, err)

	dup, err := s.Duplicate(original.ID, "Second Run")
	require.NoError(t, err)
	assert.NotEqual(t, original.ID, dup.ID)
	assert.Equal(t, "Second Run", dup.Name)
	assert.Equal(t, "test campaign", dup.Description)
	assert.Equal(t, types.StatusPlanning, dup.Info.CampaignStatus)
	assert.Equal(t, uint(0), dup.CurrentSession)
	assert.Equal(t, uint(0), dup.Info.TotalCharacters)
	assert.Nil(t, dup.LastSessionDate)

	_, err = s.Duplicate(original.ID, " ")
	require.Error(t, err)

	_, err = s.Duplicate("no-such-id", "Name")
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestCampaignStore_ExportImport(t *testing.T) {
	s := newTestCampaignStore(t)
	original := makeCampaign(t, s, "Exportable")

	data, err := s.Export(original.ID)
	require.NoError(t, err)
	assert.Contains(t, data, "Exportable")

	imported, err := s.Import(data)
	require.NoError(t, err)
	assert.NotEqual(t, original.ID, imported.ID, "import always mints a fresh id")
	assert.Equal(t, original.Name, imported.Name)

	_, err = s.Import("")
	require.Error(t, err)

	_, err = s.Import("{not json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrSerialization))
}

func TestCampaignStore_NameAvailable(t *testing.T) {
	s := newTestCampaignStore(t)
	makeCampaign(t, s, "Taken Name")

	available, err := s.NameAvailable("Fresh Name")
	require.NoError(t, err)
	assert.True(t, available)

	available, err = s.NameAvailable("taken name")
	require.NoError(t, err)
	assert.False(t, available, "comparison is case-insensitive")

	_, err = s.NameAvailable("  ")
	require.Error(t, err)
}

func TestCampaignStore_Counts(t *testing.T) {
	s := newTestCampaignStore(t)
	makeCampaign(t, s, "One")
	two := makeCampaign(t, s, "Two")
	_, err := s.Archive(two.ID)
	require.NoError(t, err)

	total, active, err := s.Counts()
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, active)
}

func TestCampaignStore_Backup(t *testing.T) {
	s := newTestCampaignStore(t)
	makeCampaign(t, s, "Precious")

	path, err := s.Backup()
	require.NoError(t, err)
	assert.FileExists(t, path)

	base := filepath.Base(path)
	assert.True(t, strings.HasPrefix(base, "campaigns.backup_"), "got %s", base)
	assert.True(t, strings.HasSuffix(base, ".json"))

	// Backup holds the same content as the live file.
	assert.Equal(t, readFileBytes(t, s.Path()), readFileBytes(t, path))
}

func TestCampaignStore_BackupMissingFile(t *testing.T) {
	s := newTestCampaignStore(t)
	_, err := s.Backup()
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestCampaignStore_ConcurrentModifies(t *testing.T) {
	s := newTestCampaignStore(t)

	ids := make([]string, 8)
	for i := range ids {
		ids[i] = makeCampaign(t, s, "Concurrent").ID
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				_, err := s.Modify(id, func(c *types.Campaign) error {
					c.CurrentSession++
					return nil
				})
				assert.NoError(t, err)
			}
		}(id)
	}
	wg.Wait()

	// No update is lost: every campaign saw all five increments.
	for _, id := range ids {
		c, err := s.Get(id)
		require.NoError(t, err)
		assert.Equal(t, uint(5), c.CurrentSession)
	}
}

func TestCampaignStore_MutatorFailureAborts(t *testing.T) {
	s := newTestCampaignStore(t)
	c := makeCampaign(t, s, "Careful")
	before := readFileBytes(t, s.Path())

	_, err := s.Modify(c.ID, func(c *types.Campaign) error {
		c.Name = "Half done"
		return types.Validation("changed my mind")
	})
	require.Error(t, err)
	assert.Equal(t, before, readFileBytes(t, s.Path()))

	got, err := s.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Careful", got.Name)
}
