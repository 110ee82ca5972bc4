package types

import (
	"fmt"
	"time"
)

// Campaign workflow statuses.
const (
	StatusPlanning  CampaignStatus = "Planning"
	StatusActive    CampaignStatus = "Active"
	StatusOnHold    CampaignStatus = "OnHold"
	StatusCompleted CampaignStatus = "Completed"
	StatusArchived  CampaignStatus = "Archived"
)

// CampaignStatus is the workflow state of a campaign.
type CampaignStatus string

// validStatuses is the set of recognized campaign statuses.
var validStatuses = map[CampaignStatus]bool{
	StatusPlanning:  true,
	StatusActive:    true,
	StatusOnHold:    true,
	StatusCompleted: true,
	StatusArchived:  true,
}

// Valid reports whether s is a recognized status.
func (s CampaignStatus) Valid() bool {
	return validStatuses[s]
}

// AllowsModifications reports whether a campaign in this status accepts
// updates. Completed and archived campaigns are read-only.
func (s CampaignStatus) AllowsModifications() bool {
	return s == StatusPlanning || s == StatusActive || s == StatusOnHold
}

// Difficulty levels for encounter balancing.
const (
	DifficultyCasual DifficultyLevel = "Casual"
	DifficultyNormal DifficultyLevel = "Normal"
	DifficultyHard   DifficultyLevel = "Hard"
	DifficultyDeadly DifficultyLevel = "Deadly"
)

// DifficultyLevel tunes encounter balance for a campaign.
type DifficultyLevel string

var validDifficulties = map[DifficultyLevel]bool{
	DifficultyCasual: true,
	DifficultyNormal: true,
	DifficultyHard:   true,
	DifficultyDeadly: true,
}

// Valid reports whether d is a recognized difficulty level.
func (d DifficultyLevel) Valid() bool {
	return validDifficulties[d]
}

// EncounterMultiplier returns the challenge-rating multiplier for d.
func (d DifficultyLevel) EncounterMultiplier() float64 {
	switch d {
	case DifficultyCasual:
		return 0.75
	case DifficultyHard:
		return 1.25
	case DifficultyDeadly:
		return 1.5
	default:
		return 1.0
	}
}

// CampaignInfo holds aggregate counters and workflow metadata for a campaign.
type CampaignInfo struct {
	TotalSessions    uint            `json:"totalSessions"`
	TotalCharacters  uint            `json:"totalCharacters"`
	ActiveCharacters uint            `json:"activeCharacters"`
	TotalNpcs        uint            `json:"totalNpcs"`
	TotalLocations   uint            `json:"totalLocations"`
	TotalQuests      uint            `json:"totalQuests"`
	CompletedQuests  uint            `json:"completedQuests"`
	TotalEncounters  uint            `json:"totalEncounters"`
	CampaignStatus   CampaignStatus  `json:"campaignStatus"`
	DifficultyLevel  DifficultyLevel `json:"difficultyLevel"`
}

// QuestCompletionRate returns the percentage of completed quests.
func (i CampaignInfo) QuestCompletionRate() float64 {
	if i.TotalQuests == 0 {
		return 0
	}
	return float64(i.CompletedQuests) / float64(i.TotalQuests) * 100
}

// Campaign is a top-level entity. The ID is assigned once at creation and
// never reassigned; CreatedAt is set once; UpdatedAt is bumped on every
// successful mutation.
type Campaign struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	Setting         string       `json:"setting"`
	DmNotes         string       `json:"dmNotes"`
	CurrentSession  uint         `json:"currentSession"`
	IsActive        bool         `json:"isActive"`
	Info            CampaignInfo `json:"campaignInfo"`
	PlayerCount     uint         `json:"playerCount"`
	AverageLevel    float64      `json:"averageLevel"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
	LastSessionDate *time.Time   `json:"lastSessionDate"`
}

// EntityID returns the campaign's unique identifier.
func (c *Campaign) EntityID() string { return c.ID }

// CreateCampaignRequest carries the payload for creating a campaign.
type CreateCampaignRequest struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Setting         string          `json:"setting"`
	DmNotes         *string         `json:"dmNotes"`
	DifficultyLevel DifficultyLevel `json:"difficultyLevel"`
	PlayerCount     *uint           `json:"playerCount"`
}

// Validate checks the creation payload. It runs before any file is touched.
func (r CreateCampaignRequest) Validate() error {
	if err := ValidateNonEmpty(r.Name, "campaign name"); err != nil {
		return err
	}
	if err := ValidateNonEmpty(r.Description, "campaign description"); err != nil {
		return err
	}
	if err := ValidateNonEmpty(r.Setting, "campaign setting"); err != nil {
		return err
	}
	if !r.DifficultyLevel.Valid() {
		return Validation(fmt.Sprintf("unknown difficulty level %q", string(r.DifficultyLevel)))
	}
	if r.PlayerCount != nil {
		if err := ValidateRange(*r.PlayerCount, 1, 12, "player count"); err != nil {
			return err
		}
	}
	return nil
}

// NewCampaign builds a campaign from a validated creation request. New
// campaigns start in Planning with a fresh ID and an average level of 1.0.
func NewCampaign(r CreateCampaignRequest) *Campaign {
	now := time.Now().UTC()
	dmNotes := ""
	if r.DmNotes != nil {
		dmNotes = *r.DmNotes
	}
	playerCount := uint(4)
	if r.PlayerCount != nil {
		playerCount = *r.PlayerCount
	}
	return &Campaign{
		ID:           NewID(),
		Name:         r.Name,
		Description:  r.Description,
		Setting:      r.Setting,
		DmNotes:      dmNotes,
		IsActive:     true,
		Info:         newCampaignInfo(r.DifficultyLevel),
		PlayerCount:  playerCount,
		AverageLevel: 1.0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func newCampaignInfo(difficulty DifficultyLevel) CampaignInfo {
	return CampaignInfo{
		CampaignStatus:  StatusPlanning,
		DifficultyLevel: difficulty,
	}
}

// StartSession increments the session counters, stamps the session date, and
// flips a Planning campaign to Active.
func (c *Campaign) StartSession() {
	now := time.Now().UTC()
	c.CurrentSession++
	c.Info.TotalSessions++
	c.LastSessionDate = &now
	if c.Info.CampaignStatus == StatusPlanning {
		c.Info.CampaignStatus = StatusActive
	}
	c.UpdatedAt = now
}

// UpdateStats replaces the character statistics computed by the character
// store.
func (c *Campaign) UpdateStats(activeCharacters, totalCharacters uint, averageLevel float64) {
	c.Info.ActiveCharacters = activeCharacters
	c.Info.TotalCharacters = totalCharacters
	c.PlayerCount = activeCharacters
	c.AverageLevel = averageLevel
	c.UpdatedAt = time.Now().UTC()
}

// Complete marks the campaign finished and inactive.
func (c *Campaign) Complete() {
	c.Info.CampaignStatus = StatusCompleted
	c.IsActive = false
	c.UpdatedAt = time.Now().UTC()
}

// Archive marks the campaign archived and inactive.
func (c *Campaign) Archive() {
	c.Info.CampaignStatus = StatusArchived
	c.IsActive = false
	c.UpdatedAt = time.Now().UTC()
}

/// IsPlayable reports whether sessions can run: the campaign must be active
// and in Planning or Active status.
func (c *Campaign) IsPlayable() bool {
	return c.IsActive &&
		(c.Info.CampaignStatus == StatusActive || c.Info.CampaignStatus == StatusPlanning)
}

// Clone returns a deep copy of the campaign.
func (c *Campaign) Clone() *Campaign {
	cp := *c
	if c.LastSessionDate != nil {
		d := *c.LastSessionDate
		cp.LastSessionDate = &d
	}
	return &cp
}

// CampaignSummary is the list-view projection of a campaign.
type CampaignSummary struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	Status           CampaignStatus `json:"status"`
	CurrentSession   uint           `json:"currentSession"`
	ActiveCharacters uint           `json:"activeCharacters"`
	AverageLevel     float64        `json:"averageLevel"`
	LastSessionDate  *time.Time     `json:"lastSessionDate"`
	CreatedAt        time.Time      `json:"createdAt"`
	IsActive         bool           `json:"isActive"`
}

// Summary returns the list-view projection of the campaign.
func (c *Campaign) Summary() CampaignSummary {
	return CampaignSummary{
		ID:               c.ID,
		Name:             c.Name,
		Description:      c.Description,
		Status:           c.Info.CampaignStatus,
		CurrentSession:   c.CurrentSession,
		ActiveCharacters: c.Info.ActiveCharacters,
		AverageLevel:     c.AverageLevel,
		LastSessionDate:  c.LastSessionDate,
		CreatedAt:        c.CreatedAt,
		IsActive:         c.IsActive,
	}
}

// CampaignPatch is the optional-field counterpart of a campaign's mutable
// fields. A nil field means "leave unchanged". The ID and CreatedAt fields
// are immutable and have no patch counterpart.
type CampaignPatch struct {
	Name            *string          `json:"name"`
	Description     *string          `json:"description"`
	Setting         *string          `json:"setting"`
	DmNotes         *string          `json:"dmNotes"`
	DifficultyLevel *DifficultyLevel `json:"difficultyLevel"`
	PlayerCount     *uint            `json:"playerCount"`
	IsActive        *bool            `json:"isActive"`
}

// Validate runs shape checks on the provided fields alone.
func (p CampaignPatch) Validate() error {
	if p.Name != nil {
		if err := ValidateNonEmpty(*p.Name, "campaign name"); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := ValidateNonEmpty(*p.Description, "campaign description"); err != nil {
			return err
		}
	}
	if p.Setting != nil {
		if err := ValidateNonEmpty(*p.Setting, "campaign setting"); err != nil {
			return err
		}
	}
	if p.DifficultyLevel != nil && !p.DifficultyLevel.Valid() {
		return Validation(fmt.Sprintf("unknown difficulty level %q", string(*p.DifficultyLevel)))
	}
	if p.PlayerCount != nil {
		if err := ValidateRange(*p.PlayerCount, 1, 12, "player count"); err != nil {
			return err
		}
	}
	return nil
}

// ApplyTo validates the patch and copies the provided fields onto c,
// stamping UpdatedAt. Either every provided field is written or none is.
func (p CampaignPatch) ApplyTo(c *Campaign) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Setting != nil {
		c.Setting = *p.Setting
	}
	if p.DmNotes != nil {
		c.DmNotes = *p.DmNotes
	}
	if p.DifficultyLevel != nil {
		c.Info.DifficultyLevel = *p.DifficultyLevel
	}
	if p.PlayerCount != nil {
		c.PlayerCount = *p.PlayerCount
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}
