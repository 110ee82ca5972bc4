package types

import (
	"fmt"
	"time"
)

// MaxCharacterLevel is the level cap.
const MaxCharacterLevel = 20

// Achievement types for categorization. Free-form types are also accepted;
// these constants cover the common cases.
const (
	AchievementQuestCompleted    AchievementType = "QuestCompleted"
	AchievementPuzzleSolved      AchievementType = "PuzzleSolved"
	AchievementSocialInteraction AchievementType = "SocialInteraction"
	AchievementCombatVictory     AchievementType = "CombatVictory"
	AchievementDiscovery         AchievementType = "Discovery"
	AchievementRoleplay          AchievementType = "Roleplay"
)

// AchievementType categorizes an achievement.
type AchievementType string

// Relationship states between a character and an NPC.
const (
	RelationNeutral    RelationshipType = "neutral"
	RelationFriendly   RelationshipType = "friendly"
	RelationHostile    RelationshipType = "hostile"
	RelationSuspicious RelationshipType = "suspicious"
	RelationRomantic   RelationshipType = "romantic"
	RelationAlly       RelationshipType = "ally"
	RelationEnemy      RelationshipType = "enemy"
	RelationRespected  RelationshipType = "respected"
	RelationFeared     RelationshipType = "feared"
)

// RelationshipType is the state of a character-NPC relationship.
type RelationshipType string

var validRelationshipTypes = map[RelationshipType]bool{
	RelationNeutral:    true,
	RelationFriendly:   true,
	RelationHostile:    true,
	RelationSuspicious: true,
	RelationRomantic:   true,
	RelationAlly:       true,
	RelationEnemy:      true,
	RelationRespected:  true,
	RelationFeared:     true,
}

// Valid reports whether t is a recognized relationship type.
func (t RelationshipType) Valid() bool {
	return validRelationshipTypes[t]
}

// Achievement is an append-only sub-entity recording a significant moment in
// a character's story. Immutable once created, except for deletion by ID.
type Achievement struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	QuestID     *string         `json:"questId"`
	SessionDate *time.Time      `json:"sessionDate"`
	Type        AchievementType `json:"achievementType"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// QuestRelated reports whether the achievement links to a quest.
func (a Achievement) QuestRelated() bool {
	return a.QuestID != nil
}

// Relationship is a sub-entity keyed logically by (characterId, npcId):
// a character holds at most one relationship record per NPC.
type Relationship struct {
	ID              string           `json:"id"`
	CharacterID     string           `json:"characterId"`
	NpcID           string           `json:"npcId"`
	Type            RelationshipType `json:"relationshipType"`
	Notes           string           `json:"notes"`
	LastInteraction *time.Time       `json:"lastInteraction"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// Character is a player character owned by exactly one campaign. CampaignID
// never changes after creation.
type Character struct {
	ID            string         `json:"id"`
	CampaignID    string         `json:"campaignId"`
	Name          string         `json:"name"`
	Race          string         `json:"race"`
	Class         string         `json:"class"`
	Level         int            `json:"level"`
	HitPoints     int            `json:"hitPoints"`
	MaxHitPoints  int            `json:"maxHitPoints"`
	Background    string         `json:"background"`
	Achievements  []Achievement  `json:"achievements"`
	Relationships []Relationship `json:"relationships"`
	Notes         string         `json:"notes"`
	IsActive      bool           `json:"isActive"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// EntityID returns the character's unique identifier.
func (c *Character) EntityID() string { return c.ID }

// CreateCharacterRequest carries the payload for creating a character.
type CreateCharacterRequest struct {
	CampaignID   string  `json:"campaignId"`
	Name         string  `json:"name"`
	Race         string  `json:"race"`
	Class        string  `json:"class"`
	Level        int     `json:"level"`
	HitPoints    int     `json:"hitPoints"`
	MaxHitPoints int     `json:"maxHitPoints"`
	Background   string  `json:"background"`
	Notes        *string `json:"notes"`
}

// Validate checks the creation payload, including the hit point invariant
// hitPoints <= maxHitPoints with maxHitPoints > 0.
func (r CreateCharacterRequest) Validate() error {
	if _, err := ValidateUUID(r.CampaignID, "campaign"); err != nil {
		return err
	}
	if err := ValidateNonEmpty(r.Name, "character name"); err != nil {
		return err
	}
	if err := ValidateNonEmpty(r.Race, "character race"); err != nil {
		return err
	}
	if err := ValidateNonEmpty(r.Class, "character class"); err != nil {
		return err
	}
	if err := ValidateRange(r.Level, 1, MaxCharacterLevel, "character level"); err != nil {
		return err
	}
	if r.MaxHitPoints < 1 {
		return Validation("max hit points must be greater than zero")
	}
	if r.HitPoints < 0 || r.HitPoints > r.MaxHitPoints {
		return Validation("hit points must be between 0 and max hit points")
	}
	return nil
}

// NewCharacter builds a character from a validated creation request.
func NewCharacter(r CreateCharacterRequest) *Character {
	now := time.Now().UTC()
	notes := ""
	if r.Notes != nil {
		notes = *r.Notes
	}
	return &Character{
		ID:            NewID(),
		CampaignID:    r.CampaignID,
		Name:          r.Name,
		Race:          r.Race,
		Class:         r.Class,
		Level:         r.Level,
		HitPoints:     r.HitPoints,
		MaxHitPoints:  r.MaxHitPoints,
		Background:    r.Background,
		Achievements:  []Achievement{},
		Relationships: []Relationship{},
		Notes:         notes,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// AddAchievementRequest carries the payload for appending an achievement.
type AddAchievementRequest struct {
	CharacterID string          `json:"characterId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	QuestID     *string         `json:"questId"`
	SessionDate *time.Time      `json:"sessionDate"`
	Type        AchievementType `json:"achievementType"`
}

// Validate checks the achievement payload.
func (r AddAchievementRequest) Validate() error {
	if _, err := ValidateUUID(r.CharacterID, "character"); err != nil {
		return err
	}
	if err := ValidateNonEmpty(r.Title, "achievement title"); err != nil {
		return err
	}
	if err := ValidateNonEmpty(string(r.Type), "achievement type"); err != nil {
		return err
	}
	if r.QuestID != nil {
		if _, err := ValidateUUID(*r.QuestID, "quest"); err != nil {
			return err
		}
	}
	return nil
}

// AddAchievement appends a new achievement with a freshly generated ID.
// Achievements are never merged into existing ones.
func (c *Character) AddAchievement(r AddAchievementRequest) Achievement {
	now := time.Now().UTC()
	a := Achievement{
		ID:          NewID(),
		Title:       r.Title,
		Description: r.Description,
		QuestID:     r.QuestID,
		SessionDate: r.SessionDate,
		Type:        r.Type,
		CreatedAt:   now,
	}
	c.Achievements = append(c.Achievements, a)
	c.UpdatedAt = now
	return a
}

// RemoveAchievement deletes the achievement with the given ID. Removing an
// unknown ID returns NotFound and leaves the list unchanged.
func (c *Character) RemoveAchievement(achievementID string) error {
	before := len(c.Achievements)
	kept := c.Achievements[:0]
	for _, a := range c.Achievements {
		if a.ID != achievementID {
			kept = append(kept, a)
		}
	}
	c.Achievements = kept
	if len(c.Achievements) == before {
		return NotFound("Achievement", achievementID)
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateRelationshipRequest carries the payload for a relationship upsert.
type UpdateRelationshipRequest struct {
	CharacterID string           `json:"characterId"`
	NpcID       string           `json:"npcId"`
	Type        RelationshipType `json:"relationshipType"`
	Notes       *string          `json:"notes"`
}

// Validate checks the relationship payload.
func (r UpdateRelationshipRequest) Validate() error {
	if _, err := ValidateUUID(r.CharacterID, "character"); err != nil {
		return err
	}
	if _, err := ValidateUUID(r.NpcID, "NPC"); err != nil {
		return err
	}
	if !r.Type.Valid() {
		return Validation(fmt.Sprintf("unknown relationship type %q", string(r.Type)))
	}
	return nil
}

// UpsertRelationship creates or updates the relationship with the request's
// NPC. An existing record keeps its ID and notes (unless new notes are
// provided) and gets its type replaced; a new record defaults notes to empty.
// Either way LastInteraction is stamped to now.
func (c *Character) UpsertRelationship(r UpdateRelationshipRequest) {
	now := time.Now().UTC()
	for i := range c.Relationships {
		if c.Relationships[i].NpcID == r.NpcID {
			rel := &c.Relationships[i]
			rel.Type = r.Type
			if r.Notes != nil {
				rel.Notes = *r.Notes
			}
			rel.LastInteraction = &now
			rel.UpdatedAt = now
			c.UpdatedAt = now
			return
		}
	}
	notes := ""
	if r.Notes != nil {
		notes = *r.Notes
	}
	c.Relationships = append(c.Relationships, Relationship{
		ID:              NewID(),
		CharacterID:     c.ID,
		NpcID:           r.NpcID,
		Type:            r.Type,
		Notes:           notes,
		LastInteraction: &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	c.UpdatedAt = now
}

// RemoveRelationship deletes the relationship with the given NPC. Removing
// an unknown NPC returns NotFound and leaves the list unchanged.
func (c *Character) RemoveRelationship(npcID string) error {
	before := len(c.Relationships)
	kept := c.Relationships[:0]
	for _, r := range c.Relationships {
		if r.NpcID != npcID {
			kept = append(kept, r)
		}
	}
	c.Relationships = kept
	if len(c.Relationships) == before {
		return NotFoundMsg(fmt.Sprintf("relationship with NPC '%s' not found", npcID))
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// RelationshipWith returns the relationship with the given NPC, or nil.
func (c *Character) RelationshipWith(npcID string) *Relationship {
	for i := range c.Relationships {
		if c.Relationships[i].NpcID == npcID {
			return &c.Relationships[i]
		}
	}
	return nil
}

// LevelUp raises the character one level, capped at MaxCharacterLevel.
func (c *Character) LevelUp() error {
	if c.Level >= MaxCharacterLevel {
		return CharacterErr(fmt.Sprintf("character is already at max level (%d)", MaxCharacterLevel))
	}
	c.Level++
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// ToggleActive flips whether the character is active in the campaign.
func (c *Character) ToggleActive() {
	c.IsActive = !c.IsActive
	c.UpdatedAt = time.Now().UTC()
}

// Clone returns a deep copy of the character.
func (c *Character) Clone() *Character {
	cp := *c
	cp.Achievements = make([]Achievement, len(c.Achievements))
	copy(cp.Achievements, c.Achievements)
	cp.Relationships = make([]Relationship, len(c.Relationships))
	copy(cp.Relationships, c.Relationships)
	return &cp
}

// CharacterPatch is the optional-field counterpart of a character's mutable
// fields. A nil field means "leave unchanged". ID, CampaignID, and CreatedAt
// are immutable and have no patch counterpart.
type CharacterPatch struct {
	Name         *string `json:"name"`
	Race         *string `json:"race"`
	Class        *string `json:"class"`
	Level        *int    `json:"level"`
	HitPoints    *int    `json:"hitPoints"`
	MaxHitPoints *int    `json:"maxHitPoints"`
	Background   *string `json:"background"`
	Notes        *string `json:"notes"`
	IsActive     *bool   `json:"isActive"`
}

// Validate runs shape checks on the provided fields alone.
func (p CharacterPatch) Validate() error {
	if p.Name != nil {
		if err := ValidateNonEmpty(*p.Name, "character name"); err != nil {
			return err
		}
	}
	if p.Race != nil {
		if err := ValidateNonEmpty(*p.Race, "character race"); err != nil {
			return err
		}
	}
	if p.Class != nil {
		if err := ValidateNonEmpty(*p.Class, "character class"); err != nil {
			return err
		}
	}
	if p.Level != nil {
		if err := ValidateRange(*p.Level, 1, MaxCharacterLevel, "character level"); err != nil {
			return err
		}
	}
	if p.HitPoints != nil && *p.HitPoints < 0 {
		return Validation("hit points cannot be negative")
	}
	if p.MaxHitPoints != nil && *p.MaxHitPoints < 1 {
		return Validation("max hit points must be greater than zero")
	}
	return nil
}

// ApplyTo validates the patch against c and copies the provided fields onto
// it, stamping UpdatedAt. Cross-field checks run on the merged result:
// fields the patch does not touch fall back to the character's current
// values, and the whole patch is rejected if the effective hit points would
// exceed the effective maximum. Either every provided field is written or
// none is.
func (p CharacterPatch) ApplyTo(c *Character) error {
	if err := p.Validate(); err != nil {
		return err
	}

	effectiveHP := c.HitPoints
	if p.HitPoints != nil {
		effectiveHP = *p.HitPoints
	}
	effectiveMaxHP := c.MaxHitPoints
	if p.MaxHitPoints != nil {
		effectiveMaxHP = *p.MaxHitPoints
	}
	if effectiveMaxHP < 1 {
		return Validation("max hit points must be greater than zero")
	}
	if effectiveHP > effectiveMaxHP {
		return Validation(fmt.Sprintf("hit points (%d) cannot exceed max hit points (%d)",
			effectiveHP, effectiveMaxHP))
	}

	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Race != nil {
		c.Race = *p.Race
	}
	if p.Class != nil {
		c.Class = *p.Class
	}
	if p.Level != nil {
		c.Level = *p.Level
	}
	if p.HitPoints != nil {
		c.HitPoints = *p.HitPoints
	}
	if p.MaxHitPoints != nil {
		c.MaxHitPoints = *p.MaxHitPoints
	}
	if p.Background != nil {
		c.Background = *p.Background
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}
