package analytics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablefolk/dmvault/internal/store"
	"github.com/tablefolk/dmvault/pkg/types"
)

func seedCampaign(t *testing.T, campaigns *store.CampaignStore, name string) *types.Campaign {
	t.Helper()
	c, err := campaigns.Create(types.NewCampaign(types.CreateCampaignRequest{
		Name:            name,
		Description:     "seeded",
		Setting:         "Testlands",
		DifficultyLevel: types.DifficultyDeadly,
	}))
	require.NoError(t, err)
	return c
}

func seedCharacter(t *testing.T, characters *store.CharacterStore, campaignID, name, class string, level int, active bool) *types.Character {
	t.Helper()
	c, err := characters.Create(types.NewCharacter(types.CreateCharacterRequest{
		CampaignID:   campaignID,
		Name:         name,
		Race:         "Human",
		Class:        class,
		Level:        level,
		HitPoints:    10,
		MaxHitPoints: 10,
	}))
	require.NoError(t, err)
	if !active {
		c, err = characters.ToggleActive(campaignID, c.ID)
		require.NoError(t, err)
	}
	return c
}

func TestCampaignReport(t *testing.T) {
	dir := t.TempDir()
	campaigns := store.NewCampaignStore(dir)
	characters := store.NewCharacterStore(dir)
	engine := NewEngine(campaigns, characters)

	c := seedCampaign(t, campaigns, "Aggregated")
	_, err := campaigns.StartSession(c.ID)
	require.NoError(t, err)

	a := seedCharacter(t, characters, c.ID, "A", "Fighter", 4, true)
	seedCharacter(t, characters, c.ID, "B", "Wizard", 6, true)
	seedCharacter(t, characters, c.ID, "C", "Fighter", 10, false)

	_, err = characters.AddAchievement(c.ID, types.AddAchievementRequest{
		CharacterID: a.ID,
		Title:       "First down",
		Type:        types.AchievementCombatVictory,
	})
	require.NoError(t, err)
	_, err = characters.UpdateRelationship(c.ID, types.UpdateRelationshipRequest{
		CharacterID: a.ID,
		NpcID:       "018f4e2a-2222-7000-8000-000000000002",
		Type:        types.RelationAlly,
	})
	require.NoError(t, err)

	report, err := engine.CampaignReport(c.ID)
	require.NoError(t, err)

	assert.Equal(t, c.ID, report.CampaignID)
	assert.Equal(t, "Aggregated", report.CampaignName)
	assert.Equal(t, types.StatusActive, report.Status)
	assert.Equal(t, uint(1), report.TotalSessions)
	assert.Equal(t, 3, report.TotalCharacters)
	assert.Equal(t, 2, report.ActiveCharacters)
	assert.Equal(t, 5.0, report.AverageLevel, "inactive characters do not count toward the average")
	assert.Equal(t, 4, report.MinLevel)
	assert.Equal(t, 10, report.MaxLevel)
	assert.Equal(t, 1, report.TotalAchievements)
	assert.Equal(t, 1, report.TotalRelationships)
	assert.Equal(t, map[string]int{"Fighter": 2, "Wizard": 1}, report.ClassCounts)
	assert.Equal(t, 1.5, report.EncounterMultiplier)
}

func TestCampaignReport_EmptyCampaign(t *testing.T) {
	dir := t.TempDir()
	campaigns := store.NewCampaignStore(dir)
	characters := store.NewCharacterStore(dir)
	engine := NewEngine(campaigns, characters)

	c := seedCampaign(t, campaigns, "Empty")
	report, err := engine.CampaignReport(c.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, report.TotalCharacters)
	assert.Equal(t, 0, report.ActiveCharacters)
	assert.Equal(t, 0.0, report.AverageLevel)
	assert.Empty(t, report.ClassCounts)
	assert.Equal(t, 0.0, report.QuestCompletionRate)
}

func TestCampaignReport_UnknownCampaign(t *testing.T) {
	dir := t.TempDir()
	engine := NewEngine(store.NewCampaignStore(dir), store.NewCharacterStore(dir))

	_, err := engine.CampaignReport("no-such-id")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestStoreOverview(t *testing.T) {
	dir := t.TempDir()
	campaigns := store.NewCampaignStore(dir)
	characters := store.NewCharacterStore(dir)
	engine := NewEngine(campaigns, characters)

	first := seedCampaign(t, campaigns, "First")
	second := seedCampaign(t, campaigns, "Second")

	_, err := campaigns.StartSession(first.ID)
	require.NoError(t, err)
	_, err = campaigns.StartSession(first.ID)
	require.NoError(t, err)
	_, err = campaigns.Complete(second.ID)
	require.NoError(t, err)

	seedCharacter(t, characters, first.ID, "A", "Fighter", 3, true)
	seedCharacter(t, characters, first.ID, "B", "Wizard", 7, true)
	seedCharacter(t, characters, second.ID, "C", "Rogue", 12, false)

	o, err := engine.StoreOverview()
	require.NoError(t, err)

	assert.Equal(t, 2, o.TotalCampaigns)
	assert.Equal(t, 1, o.ActiveCampaigns)
	assert.Equal(t, 1, o.CompletedCampaigns)
	assert.Equal(t, 2, o.TotalSessions)
	assert.Equal(t, 3, o.TotalCharacters)
	assert.Equal(t, 2, o.ActiveCharacters)
	assert.Equal(t, 5.0, o.AverageLevel, "inactive characters do not count toward the average")
}

func TestStoreOverview_Empty(t *testing.T) {
	dir := t.TempDir()
	engine := NewEngine(store.NewCampaignStore(dir), store.NewCharacterStore(dir))

	o, err := engine.StoreOverview()
	require.NoError(t, err)
	assert.Equal(t, 0, o.TotalCampaigns)
	assert.Equal(t, 0, o.TotalCharacters)
	assert.Equal(t, 0.0, o.AverageLevel)
}

func TestAllReports(t *testing.T) {
	dir := t.TempDir()
	campaigns := store.NewCampaignStore(dir)
	characters := store.NewCharacterStore(dir)
	engine := NewEngine(campaigns, characters)

	first := seedCampaign(t, campaigns, "First")
	second := seedCampaign(t, campaigns, "Second")
	seedCharacter(t, characters, first.ID, "Solo", "Rogue", 2, true)

	_, err := campaigns.StartSession(second.ID)
	require.NoError(t, err)

	reports, err := engine.AllReports()
	require.NoError(t, err)
	require.Len(t, reports, 2)

	// Summaries order: the campaign with a session sorts first.
	assert.Equal(t, second.ID, reports[0].CampaignID)
	assert.Equal(t, first.ID, reports[1].CampaignID)
	assert.Equal(t, 1, reports[1].TotalCharacters)
}
