package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tablefolk/dmvault/pkg/types"
)

// campaignsFileName is the single document holding every campaign plus the
// app settings.
const campaignsFileName = "campaigns.json"

// CampaignFile is the on-disk document for the campaign collection: a full
// snapshot of every campaign, the singleton app settings, and the
// collection-level timestamps.
type CampaignFile struct {
	Campaigns   *Collection[*types.Campaign] `json:"campaigns"`
	AppSettings *types.AppSettings           `json:"appSettings"`
	CreatedAt   time.Time                    `json:"createdAt"`
	UpdatedAt   time.Time                    `json:"updatedAt"`
}

// NewCampaignFile returns an empty document with default settings.
func NewCampaignFile() *CampaignFile {
	now := time.Now().UTC()
	return &CampaignFile{
		Campaigns:   NewCollection[*types.Campaign](),
		AppSettings: types.NewAppSettings(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// touch stamps the collection-level UpdatedAt.
func (f *CampaignFile) touch() {
	f.UpdatedAt = time.Now().UTC()
}

// CampaignStore binds the campaign collection to campaigns.json under a data
// root. The root is passed in at construction; the store never consults
// global state, so tests can isolate it in a temporary directory.
type CampaignStore struct {
	root string
}

// NewCampaignStore returns a store rooted at the given data directory.
func NewCampaignStore(root string) *CampaignStore {
	return &CampaignStore{root: root}
}

// Path returns the location of the campaigns document.
func (s *CampaignStore) Path() string {
	return filepath.Join(s.root, campaignsFileName)
}

// Exists reports whether the campaigns document is on disk.
func (s *CampaignStore) Exists() bool {
	return fileExists(s.Path())
}

// load reads the whole document, creating and persisting a default one if
// the file is absent. First access always leaves a file on disk. The caller
// must hold the path lock.
func (s *CampaignStore) load() (*CampaignFile, error) {
	path := s.Path()
	if !fileExists(path) {
		f := NewCampaignFile()
		if err := writeJSON(path, f); err != nil {
			return nil, err
		}
		return f, nil
	}

	var f CampaignFile
	if err := readJSON(path, &f); err != nil {
		return nil, err
	}
	// Tolerate hand-edited documents with missing sections.
	if f.Campaigns == nil {
		f.Campaigns = NewCollection[*types.Campaign]()
	}
	if f.AppSettings == nil {
		f.AppSettings = types.NewAppSettings()
	}
	return &f, nil
}

// save rewrites the whole document. The caller must hold the path lock.
func (s *CampaignStore) save(f *CampaignFile) error {
	return writeJSON(s.Path(), f)
}

// Initialize creates the campaigns document with defaults if it is absent.
func (s *CampaignStore) Initialize() error {
	mu := lockPath(s.Path())
	mu.Lock()
	defer mu.Unlock()

	_, err := s.load()
	return err
}

// Create inserts a new campaign. A duplicate ID fails with a campaign error.
func (s *CampaignStore) Create(c *types.Campaign) (*types.Campaign, error) {
	mu := lockPath(s.Path())
	mu.Lock()
	defer mu.Unlock()

	f, err := s.load()
	if err != nil {
		return nil, err
	}
	if _, ok := f.Campaigns.Get(c.ID); ok {
		return nil, types.CampaignErr(fmt.Sprintf("campaign with ID '%s' already exists", c.ID))
	}
	f.Campaigns.Add(c)
	f.touch()
	if err := s.save(f); err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

// Get returns the campaign with the given ID.
func (s *CampaignStore) Get(id string) (*types.Campaign, error) {
	mu := lockPath(s.Path())
	mu.Lock()
	defer mu.Unlock()

	f, err := s.load()
	if err != nil {
		return nil, err
	}
	c, ok := f.Campaigns.Get(id)
	if !ok {
		return nil, types.NotFound("Campaign", id)
	}
	return c.Clone(), nil
}

// All returns every campaign in unspecified order.
func (s *CampaignStore) All() ([]*types.Campaign, error) {
	mu := lockPath(s.Path())
	mu.Lock()
	defer mu.Unlock()

	f, err := s.load()
	if err != nil {
		return nil, err
	}
	return cloneCampaigns(f.Campaigns.All()), nil
}

// Active returns the campaigns whose IsActive flag is set.
func (s *CampaignStore) Active() ([]*types.Campaign, error) {
	mu := lockPath(s.Path())
	mu.Lock()
	defer mu.Unlock()

	f, err := s.load()
	if err != nil {
		return nil, err
	}
	active := f.Campaigns.Filter(func(c *types.Campaign) bool { return c.IsActive })
	return cloneCampaigns(active), nil
}

// Summaries returns list-view projections sorted by last session date
// descending with campaigns that never ran a session last, ties broken by
// creation date descending. Map iteration order is never exposed.
func (s *CampaignStore) Summaries() ([]types.CampaignSummary, error) {
	mu := lockPath(s.Path())
	mu.Lock()
	defer mu.Unlock()

	f, err := s.load()
	if err != nil {
		return nil, err
	}

	summaries := make([]types.CampaignSummary, 0, f.Campaigns.Len())
	for _, c := range f.Campaigns.All() {
		summaries = append(summaries, c.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		switch {
		case a.LastSessionDate != nil && b.LastSessionDate != nil:
			if !a.LastSessionDate.Equal(*b.LastSessionDate) {
				return a.LastSessionDate.After(*b.LastSessionDate)
			}
		case a.LastSessionDate != nil:
			return true
		case b.LastSessionDate != nil:
			return false
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return summaries, nil
}

// Modify runs the load-locate-mutate-stamp-save transaction on one campaign.
// If the mutator fails the transaction aborts and the file is untouched. The
// returned campaign is a defensive copy of the persisted state.
func (s *CampaignStore) Modify(id string, mutate func(*types.Campaign) error) (*types.Campaign, error) {
	mu := lockPath(s.Path())
	mu.Lock()
	defer mu.Unlock()

	f, err := s.load()
	if err != nil {
		return nil, err
	}
	c, ok := f.Campaigns.Get(id)
	if !ok {
		return nil, types.NotFound("Campaign", id)
	}
	if err := mutate(c); err != nil {
		return nil, err
	}
	c.UpdatedAt = time.Now().UTC()
	f.touch()
	if err := s.save(f); err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

// Update applies a partial patch to a campaign. Patch shape is validated
// before any file is touched; campaigns in Completed or Archived status
// reject modifications.
func (s *CampaignStore) Update(id string, patch types.CampaignPatch) (*types.Campaign, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return s.Modify(id, func(c *types.Campaign) error {
		if !c.Info.CampaignStatus.AllowsModifications() {
			return types.CampaignErr("campaign cannot be modified in its current status; only Planning, Active, and OnHold campaigns accept changes")
		}
		return patch.ApplyTo(c)
	})
}

// Delete removes a campaign. Deleting an unknown ID fails NotFound and
// leaves the document byte-for-byte unchanged. An active campaign that still
// has characters refuses deletion; archive it instead.
func (s *CampaignStore) Delete(id string) error {
	mu := lockPath(s.Path())
	mu.Lock()
	defer mu.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}
	c, ok := f.Campaigns.Get(id)
	if !ok {
		return types.NotFound("Campaign", id)
	}
	if c.IsActive && c.Info.TotalCharacters > 0 {
		return types.CampaignErr("cannot delete an active campaign with characters; archive it first")
	}
	f.Campaigns.Remove(id)
	f.AppSettings.ForgetCampaign(id)
	f.touch()
	return s.save(f)
}

// Archive marks a campaign archived. Safer than deletion.
func (s *CampaignStore) Archive(id string) (*types.Campaign, error) {
	return s.Modify(id, func(c *types.Campaign) error {
		c.Archive()
		return nil
	})
}

// StartSession starts a new session in a playable campaign.
func (s *CampaignStore) StartSession(id string) (*types.Campaign, error) {
	return s.Modify(id, func(c *types.Campaign) error {
		if !c.IsPlayable() {
			return types.CampaignErr("cannot start a session in a non-playable campaign")
		}
		c.StartSession()
		return nil
	})
}

// UpdateStats replaces a campaign's character statistics. The totals are
// validated before the transaction begins.
func (s *CampaignStore) UpdateStats(id string, activeCharacters, totalCharacters uint, averageLevel float64) (*types.Campaign, error) {
	if totalCharacters < activeCharacters {
		return nil, types.Validation("total characters cannot be less than active characters")
	}
	if err := types.ValidateRange(averageLevel, 1.0, 20.0, "average level"); err != nil {
		return nil, err
	}
	return s.Modify(id, func(c *types.Campaign) error {
		c.UpdateStats(activeCharacters, totalCharacters, averageLevel)
		return nil
	})
}

// Complete marks a playable campaign finished.
func (s *CampaignStore) Complete(id string) (*types.Campaign, error) {
	return s.Modify(id, func(c *types.Campaign) error {
		if !c.IsPlayable() {
			return types.CampaignErr("cannot complete a non-playable campaign")
		}
		c.Complete()
		return nil
	})
}

// Pause puts an active campaign on hold.
func (s *CampaignStore) Pause(id string) (*types.Campaign, error) {
	return s.Modify(id, func(c *types.Campaign) error {
		if c.Info.CampaignStatus != types.StatusActive {
			return types.CampaignErr("only active campaigns can be paused")
		}
		c.Info.CampaignStatus = types.StatusOnHold
		return nil
	})
}

// Resume reactivates an on-hold campaign.
func (s *CampaignStore) Resume(id string) (*types.Campaign, error) {
	return s.Modify(id, func(c *types.Campaign) error {
		if c.Info.CampaignStatus != types.StatusOnHold {
			return types.CampaignErr("only on-hold campaigns can be resumed")
		}
		c.Info.CampaignStatus = types.StatusActive
		return nil
	})
}

// Duplicate clones a campaign under a new name with a fresh ID. Session and
// character counters reset and the clone starts over in Planning.
func (s *CampaignStore) Duplicate(id, newName string) (*types.Campaign, error) {
	if err := types.ValidateNonEmpty(newName, "new campaign name"); err != nil {
		return nil, err
	}

	mu := lockPath(s.Path())
	mu.Lock()
	defer mu.Unlock()

	f, err := s.load()
	if err != nil {
		return nil, err
	}
	original, ok := f.Campaigns.Get(id)
	if !ok {
		return nil, types.NotFound("Campaign", id)
	}

	now := time.Now().UTC()
	dup := original.Clone()
	dup.ID = types.NewID()
	dup.Name = newName
	dup.CurrentSession = 0
	dup.LastSessionDate = nil
	dup.Info.TotalSessions = 0
	dup.Info.TotalCharacters = 0
	dup.Info.ActiveCharacters = 0
	dup.Info.CampaignStatus = types.StatusPlanning
	dup.AverageLevel = 1.0
	dup.IsActive = true
	dup.CreatedAt = now
	dup.UpdatedAt = now

	f.Campaigns.Add(dup)
	f.touch()
	if err := s.save(f); err != nil {
		return nil, err
	}
	return dup.Clone(), nil
}

// SetCurrent records a playable campaign as current and moves it to the
// front of the recent list.
func (s *CampaignStore) SetCurrent(id string) (*types.Campaign, error) {
	mu := lockPath(s.Path())
	mu.Lock()
	defer mu.Unlock()

	f, err := s.load()
	if err != nil {
		return nil, err
	}
	c, ok := f.Campaigns.Get(id)
	if !ok {
		return nil, types.NotFound("Campaign", id)
	}
	if !c.IsPlayable() {
		return nil, types.CampaignErr("cannot set a non-playable campaign as current")
	}
	f.AppSettings.SetCurrentCampaign(id)
	f.touch()
	if err := s.save(f); err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

// Current returns the current campaign, or nil when none is set.
func (s *CampaignStore) Current() (*types.Campaign, error) {
	mu := lockPath(s.Path())
	mu.Lock()
	defer mu.Unlock()

	f, err := s.load()
	if err != nil {
		return nil, err
	}
	if f.AppSettings.CurrentCampaignID == nil {
		return nil, nil
	}
	c, ok := f.Campaigns.Get(*f.AppSettings.CurrentCampaignID)
	if !ok {
		return nil, nil
	}
	return c.Clone(), nil
}

// ClearCurrent unsets the current campaign.
func (s *CampaignStore) ClearCurrent() error {
	mu := lockPath(s.Path())
	mu.Lock()
	defer mu.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}
	f.AppSettings.ClearCurrentCampaign()
	f.touch()
	return s.save(f)
}

// Recent returns the most-recently-used campaigns in MRU order, skipping any
// that no longer exist.
func (s *CampaignStore) Recent() ([]*types.Campaign, error) {
	mu := lockPath(s.Path())
	mu.Lock()
	defer mu.Unlock()

	f, err := s.load()
	if err != nil {
		return nil, err
	}
	recents := make([]*types.Campaign, 0, len(f.AppSettings.RecentCampaignIDs))
	for _, id := range f.AppSettings.RecentCampaignIDs {
		if c, ok := f.Campaigns.Get(id); ok {
			recents = append(recents, c.Clone())
		}
	}
	return recents, nil
}

// Settings returns a copy of the app settings.
func (s *CampaignStore) Settings() (*types.AppSettings, error) {
	mu := lockPath(s.Path())
	mu.Lock()
	defer mu.Unlock()

	f, err := s.load()
	if err != nil {
		return nil, err
	}
	return f.AppSettings.Clone(), nil
}

// UpdateSettings runs a mutator against the app settings inside the usual
// transaction. A mutator failure aborts with nothing written.
func (s *CampaignStore) UpdateSettings(mutate func(*types.AppSettings) error) (*types.AppSettings, error) {
	mu := lockPath(s.Path())
	mu.Lock()
	defer mu.Unlock()

	f, err := s.load()
	if err != nil {
		return nil, err
	}
	if err := mutate(f.AppSettings); err != nil {
		return nil, err
	}
	f.AppSettings.UpdatedAt = time.Now().UTC()
	f.touch()
	if err := s.save(f); err != nil {
		return nil, err
	}
	return f.AppSettings.Clone(), nil
}

// SetTheme updates the UI theme setting.
func (s *CampaignStore) SetTheme(theme string) (*types.AppSettings, error) {
	return s.UpdateSettings(func(settings *types.AppSettings) error {
		return settings.SetTheme(theme)
	})
}

// SetBackupPolicy updates the automatic backup settings.
func (s *CampaignStore) SetBackupPolicy(autoBackup bool, frequencyHours uint) (*types.AppSettings, error) {
	return s.UpdateSettings(func(settings *types.AppSettings) error {
		return settings.SetBackupPolicy(autoBackup, frequencyHours)
	})
}

// Export serializes one campaign to pretty JSON for backup or sharing.
func (s *CampaignStore) Export(id string) (string, error) {
	c, err := s.Get(id)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", types.SerializationErr("export campaign", err)
	}
	return string(data), nil
}

// Import creates a campaign from exported JSON. A fresh ID is always minted
// so an import can never collide with an existing campaign.
func (s *CampaignStore) Import(jsonData string) (*types.Campaign, error) {
	if err := types.ValidateNonEmpty(jsonData, "JSON data"); err != nil {
		return nil, err
	}
	var c types.Campaign
	if err := json.Unmarshal([]byte(jsonData), &c); err != nil {
		return nil, types.SerializationErr("import campaign", err)
	}
	c.ID = types.NewID()
	c.UpdatedAt = time.Now().UTC()
	return s.Create(&c)
}

// Backup copies the campaigns document to a timestamped sibling file.
func (s *CampaignStore) Backup() (string, error) {
	mu := lockPath(s.Path())
	mu.Lock()
	defer mu.Unlock()

	return backupFile(s.Path())
}

// NameAvailable reports whether no campaign already uses the given name,
// compared case-insensitively.
func (s *CampaignStore) NameAvailable(name string) (bool, error) {
	if err := types.ValidateNonEmpty(name, "campaign name"); err != nil {
		return false, err
	}
	all, err := s.All()
	if err != nil {
		return false, err
	}
	for _, c := range all {
		if strings.EqualFold(c.Name, name) {
			return false, nil
		}
	}
	return true, nil
}

// Counts returns the total and active campaign counts.
func (s *CampaignStore) Counts() (total, active int, err error) {
	mu := lockPath(s.Path())
	mu.Lock()
	defer mu.Unlock()

	f, err := s.load()
	if err != nil {
		return 0, 0, err
	}
	total = f.Campaigns.Len()
	active = len(f.Campaigns.Filter(func(c *types.Campaign) bool { return c.IsActive }))
	return total, active, nil
}

func cloneCampaigns(in []*types.Campaign) []*types.Campaign {
	out := make([]*types.Campaign, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}
