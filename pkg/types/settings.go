package types

import (
	"fmt"
	"time"
)

// UI themes.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// validThemes is the set of recognized theme values.
var validThemes = map[string]bool{
	ThemeLight:  true,
	ThemeDark:   true,
	ThemeSystem: true,
}

// Backup frequency bounds in hours (one hour to one week).
const (
	MinBackupFrequencyHours = 1
	MaxBackupFrequencyHours = 168
)

// maxRecentCampaigns caps the most-recently-used campaign list.
const maxRecentCampaigns = 5

// AppSettings is the singleton settings record stored alongside the campaign
// collection. RecentCampaignIDs is most-recent-first, de-duplicated, and
// never longer than maxRecentCampaigns.
type AppSettings struct {
	CurrentCampaignID    *string   `json:"currentCampaignId"`
	RecentCampaignIDs    []string  `json:"recentCampaignIds"`
	AutoBackup           bool      `json:"autoBackup"`
	BackupFrequencyHours uint      `json:"backupFrequencyHours"`
	Theme                string    `json:"theme"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// NewAppSettings returns settings with the application defaults.
func NewAppSettings() *AppSettings {
	now := time.Now().UTC()
	return &AppSettings{
		RecentCampaignIDs:    []string{},
		AutoBackup:           true,
		BackupFrequencyHours: 24,
		Theme:                ThemeDark,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// SetCurrentCampaign records id as the current campaign and moves it to the
// front of the recent list, dropping any previous occurrence and trimming the
// list to its cap.
func (s *AppSettings) SetCurrentCampaign(id string) {
	s.CurrentCampaignID = &id

	recents := make([]string, 0, len(s.RecentCampaignIDs)+1)
	recents = append(recents, id)
	for _, r := range s.RecentCampaignIDs {
		if r != id {
			recents = append(recents, r)
		}
	}
	if len(recents) > maxRecentCampaigns {
		recents = recents[:maxRecentCampaigns]
	}
	s.RecentCampaignIDs = recents
	s.UpdatedAt = time.Now().UTC()
}

// ClearCurrentCampaign unsets the current campaign.
func (s *AppSettings) ClearCurrentCampaign() {
	s.CurrentCampaignID = nil
	s.UpdatedAt = time.Now().UTC()
}

// ForgetCampaign removes id from the current-campaign slot and the recent
// list. Called when a campaign is deleted.
func (s *AppSettings) ForgetCampaign(id string) {
	if s.CurrentCampaignID != nil && *s.CurrentCampaignID == id {
		s.CurrentCampaignID = nil
	}
	recents := s.RecentCampaignIDs[:0]
	for _, r := range s.RecentCampaignIDs {
		if r != id {
			recents = append(recents, r)
		}
	}
	s.RecentCampaignIDs = recents
	s.UpdatedAt = time.Now().UTC()
}

// SetTheme sets the UI theme. Returns a Validation error for unknown themes.
func (s *AppSettings) SetTheme(theme string) error {
	if !validThemes[theme] {
		return Validation("theme must be 'light', 'dark', or 'system'")
	}
	s.Theme = theme
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// SetBackupPolicy sets automatic backup behavior. The frequency must be
// between one hour and one week.
func (s *AppSettings) SetBackupPolicy(autoBackup bool, frequencyHours uint) error {
	if frequencyHours < MinBackupFrequencyHours || frequencyHours > MaxBackupFrequencyHours {
		return Validation(fmt.Sprintf("backup frequency must be between %d and %d hours",
			MinBackupFrequencyHours, MaxBackupFrequencyHours))
	}
	s.AutoBackup = autoBackup
	s.BackupFrequencyHours = frequencyHours
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Clone returns a deep copy of the settings.
func (s *AppSettings) Clone() *AppSettings {
	cp := *s
	if s.CurrentCampaignID != nil {
		id := *s.CurrentCampaignID
		cp.CurrentCampaignID = &id
	}
	cp.RecentCampaignIDs = append([]string{}, s.RecentCampaignIDs...)
	return &cp
}
