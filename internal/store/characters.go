package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tablefolk/dmvault/pkg/types"
)

const (
	campaignsDirName   = "campaigns"
	charactersFileName = "characters.json"
)

// CharacterFile is the on-disk document for one campaign's characters. The
// campaign ID is stored redundantly so a document identifies its owner even
// when moved out of the directory tree.
type CharacterFile struct {
	CampaignID string                        `json:"campaignId"`
	Characters *Collection[*types.Character] `json:"characters"`
	CreatedAt  time.Time                     `json:"createdAt"`
	UpdatedAt  time.Time                     `json:"updatedAt"`
}

// NewCharacterFile returns an empty document for the given campaign.
func NewCharacterFile(campaignID string) *CharacterFile {
	now := time.Now().UTC()
	return &CharacterFile{
		CampaignID: campaignID,
		Characters: NewCollection[*types.Character](),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (f *CharacterFile) touch() {
	f.UpdatedAt = time.Now().UTC()
}

// CharacterStore binds per-campaign character collections to
// campaigns/<campaignID>/characters.json under a data root. Every method
// takes the owning campaign's ID; characters never move between campaigns.
type CharacterStore struct {
	root string
}

// NewCharacterStore returns a store rooted at the given data directory.
func NewCharacterStore(root string) *CharacterStore {
	return &CharacterStore{root: root}
}

// Path returns the location of a campaign's characters document.
func (s *CharacterStore) Path(campaignID string) string {
	return filepath.Join(s.root, campaignsDirName, campaignID, charactersFileName)
}

// Exists reports whether a campaign's characters document is on disk.
func (s *CharacterStore) Exists(campaignID string) bool {
	return fileExists(s.Path(campaignID))
}

// load reads a campaign's document, returning an empty one if the file is
// absent. Unlike the campaign store, absence does not create the file: a
// campaign with no characters has no directory until the first create. The
// caller must hold the path lock.
func (s *CharacterStore) load(campaignID string) (*CharacterFile, error) {
	path := s.Path(campaignID)
	if !fileExists(path) {
		return NewCharacterFile(campaignID), nil
	}

	var f CharacterFile
	if err := readJSON(path, &f); err != nil {
		return nil, err
	}
	if f.CampaignID == "" {
		f.CampaignID = campaignID
	}
	if f.Characters == nil {
		f.Characters = NewCollection[*types.Character]()
	}
	return &f, nil
}

// save rewrites a campaign's document. The caller must hold the path lock.
func (s *CharacterStore) save(campaignID string, f *CharacterFile) error {
	return writeJSON(s.Path(campaignID), f)
}

// Create inserts a new character into its campaign's document, creating the
// campaign directory on first use.
func (s *CharacterStore) Create(c *types.Character) (*types.Character, error) {
	mu := lockPath(s.Path(c.CampaignID))
	mu.Lock()
	defer mu.Unlock()

	f, err := s.load(c.CampaignID)
	if err != nil {
		return nil, err
	}
	if _, ok := f.Characters.Get(c.ID); ok {
		return nil, types.CharacterErr(fmt.Sprintf("character with ID '%s' already exists", c.ID))
	}
	f.Characters.Add(c)
	f.touch()
	if err := s.save(c.CampaignID, f); err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

// Get returns the character with the given ID in the given campaign.
func (s *CharacterStore) Get(campaignID, characterID string) (*types.Character, error) {
	mu := lockPath(s.Path(campaignID))
	mu.Lock()
	defer mu.Unlock()

	f, err := s.load(campaignID)
	if err != nil {
		return nil, err
	}
	c, ok := f.Characters.Get(characterID)
	if !ok {
		return nil, types.NotFound("Character", characterID)
	}
	return c.Clone(), nil
}

// Find locates a character by ID alone, scanning every campaign directory.
// Useful when the caller knows the character but not its campaign.
func (s *CharacterStore) Find(characterID string) (*types.Character, error) {
	dir := filepath.Join(s.root, campaignsDirName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.NotFound("Character", characterID)
		}
		return nil, types.StorageErr(fmt.Sprintf("read directory %s", dir), err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		c, err := s.Get(entry.Name(), characterID)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				continue
			}
			return nil, err
		}
		return c, nil
	}
	return nil, types.NotFound("Character", characterID)
}

// ByCampaign returns every character in a campaign in unspecified order.
func (s *CharacterStore) ByCampaign(campaignID string) ([]*types.Character, error) {
	mu := lockPath(s.Path(campaignID))
	mu.Lock()
	defer mu.Unlock()

	f, err := s.load(campaignID)
	if err != nil {
		return nil, err
	}
	return cloneCharacters(f.Characters.All()), nil
}

// ActiveByCampaign returns the characters in a campaign whose IsActive flag
// is set.
func (s *CharacterStore) ActiveByCampaign(campaignID string) ([]*types.Character, error) {
	mu := lockPath(s.Path(campaignID))
	mu.Lock()
	defer mu.Unlock()

	f, err := s.load(campaignID)
	if err != nil {
		return nil, err
	}
	active := f.Characters.Filter(func(c *types.Character) bool { return c.IsActive })
	return cloneCharacters(active), nil
}

// Modify runs the load-locate-mutate-stamp-save transaction on one
// character. If the mutator fails the transaction aborts and the file is
// untouched.
func (s *CharacterStore) Modify(campaignID, characterID string, mutate func(*types.Character) error) (*types.Character, error) {
	mu := lockPath(s.Path(campaignID))
	mu.Lock()
	defer mu.Unlock()

	f, err := s.load(campaignID)
	if err != nil {
		return nil, err
	}
	c, ok := f.Characters.Get(characterID)
	if !ok {
		return nil, types.NotFound("Character", characterID)
	}
	if err := mutate(c); err != nil {
		return nil, err
	}
	c.UpdatedAt = time.Now().UTC()
	f.touch()
	if err := s.save(campaignID, f); err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

// Update applies a partial patch to a character. Patch shape is validated
// before any file is touched; cross-field hit point checks run against the
// merged result inside the transaction.
func (s *CharacterStore) Update(campaignID, characterID string, patch types.CharacterPatch) (*types.Character, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return s.Modify(campaignID, characterID, patch.ApplyTo)
}

// Delete removes a character. Deleting an unknown ID fails NotFound and
// leaves the document byte-for-byte unchanged.
func (s *CharacterStore) Delete(campaignID, characterID string) error {
	mu := lockPath(s.Path(campaignID))
	mu.Lock()
	defer mu.Unlock()

	f, err := s.load(campaignID)
	if err != nil {
		return err
	}
	if !f.Characters.Remove(characterID) {
		return types.NotFound("Character", characterID)
	}
	f.touch()
	return s.save(campaignID, f)
}

// AddAchievement appends an achievement to a character's record.
func (s *CharacterStore) AddAchievement(campaignID string, r types.AddAchievementRequest) (*types.Character, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return s.Modify(campaignID, r.CharacterID, func(c *types.Character) error {
		c.AddAchievement(r)
		return nil
	})
}

// RemoveAchievement deletes one achievement from a character's record.
func (s *CharacterStore) RemoveAchievement(campaignID, characterID, achievementID string) (*types.Character, error) {
	if _, err := types.ValidateUUID(achievementID, "achievement"); err != nil {
		return nil, err
	}
	return s.Modify(campaignID, characterID, func(c *types.Character) error {
		return c.RemoveAchievement(achievementID)
	})
}

// UpdateRelationship creates or updates a character's relationship with an
// NPC. A character holds at most one relationship per NPC.
func (s *CharacterStore) UpdateRelationship(campaignID string, r types.UpdateRelationshipRequest) (*types.Character, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return s.Modify(campaignID, r.CharacterID, func(c *types.Character) error {
		c.UpsertRelationship(r)
		return nil
	})
}

// RemoveRelationship deletes a character's relationship with an NPC.
func (s *CharacterStore) RemoveRelationship(campaignID, characterID, npcID string) (*types.Character, error) {
	if _, err := types.ValidateUUID(npcID, "NPC"); err != nil {
		return nil, err
	}
	return s.Modify(campaignID, characterID, func(c *types.Character) error {
		return c.RemoveRelationship(npcID)
	})
}

// LevelUp raises a character one level, capped at the level cap.
func (s *CharacterStore) LevelUp(campaignID, characterID string) (*types.Character, error) {
	return s.Modify(campaignID, characterID, func(c *types.Character) error {
		return c.LevelUp()
	})
}

// ToggleActive flips whether a character is active in its campaign.
func (s *CharacterStore) ToggleActive(campaignID, characterID string) (*types.Character, error) {
	return s.Modify(campaignID, characterID, func(c *types.Character) error {
		c.ToggleActive()
		return nil
	})
}

// Stats computes the aggregate character statistics for a campaign: active
// count, total count, and the average level across active characters. The
// average defaults to 1.0 when no character is active.
func (s *CharacterStore) Stats(campaignID string) (active, total uint, averageLevel float64, err error) {
	mu := lockPath(s.Path(campaignID))
	mu.Lock()
	defer mu.Unlock()

	f, err := s.load(campaignID)
	if err != nil {
		return 0, 0, 0, err
	}

	levelSum := 0
	for _, c := range f.Characters.All() {
		total++
		if c.IsActive {
			active++
			levelSum += c.Level
		}
	}
	averageLevel = 1.0
	if active > 0 {
		averageLevel = float64(levelSum) / float64(active)
	}
	return active, total, averageLevel, nil
}

// Count returns the number of characters in a campaign.
func (s *CharacterStore) Count(campaignID string) (int, error) {
	mu := lockPath(s.Path(campaignID))
	mu.Lock()
	defer mu.Unlock()

	f, err := s.load(campaignID)
	if err != nil {
		return 0, err
	}
	return f.Characters.Len(), nil
}

// Backup copies a campaign's characters document to a timestamped sibling
// file.
func (s *CharacterStore) Backup(campaignID string) (string, error) {
	mu := lockPath(s.Path(campaignID))
	mu.Lock()
	defer mu.Unlock()

	return backupFile(s.Path(campaignID))
}

func cloneCharacters(in []*types.Character) []*types.Character {
	out := make([]*types.Character, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}
