// Package analytics computes campaign reports with SQLite as the query
// engine. The JSON documents remain the source of truth: each report loads
// the current snapshot from the stores into an in-memory database, runs the
// aggregate queries there, and discards the database.
package analytics

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/tablefolk/dmvault/internal/store"
	"github.com/tablefolk/dmvault/pkg/types"
)

var schemaDDL = []string{
	`CREATE TABLE campaigns (
    campaign_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    status TEXT NOT NULL,
    difficulty TEXT NOT NULL,
    is_active INTEGER NOT NULL,
    total_sessions INTEGER NOT NULL,
    total_quests INTEGER NOT NULL,
    completed_quests INTEGER NOT NULL
);`,
	`CREATE TABLE characters (
    character_id TEXT PRIMARY KEY,
    campaign_id TEXT NOT NULL,
    name TEXT NOT NULL,
    class TEXT NOT NULL,
    level INTEGER NOT NULL,
    is_active INTEGER NOT NULL,
    achievements INTEGER NOT NULL,
    relationships INTEGER NOT NULL,
    FOREIGN KEY (campaign_id) REFERENCES campaigns(campaign_id)
);`,
	`CREATE INDEX idx_characters_campaign ON characters(campaign_id);`,
}

// Report is the aggregate view of one campaign.
type Report struct {
	CampaignID          string               `json:"campaignId"`
	CampaignName        string               `json:"campaignName"`
	Status              types.CampaignStatus `json:"status"`
	TotalSessions       uint                 `json:"totalSessions"`
	TotalCharacters     int                  `json:"totalCharacters"`
	ActiveCharacters    int                  `json:"activeCharacters"`
	AverageLevel        float64              `json:"averageLevel"`
	MinLevel            int                  `json:"minLevel"`
	MaxLevel            int                  `json:"maxLevel"`
	TotalAchievements   int                  `json:"totalAchievements"`
	TotalRelationships  int                  `json:"totalRelationships"`
	ClassCounts         map[string]int       `json:"classCounts"`
	QuestCompletionRate float64              `json:"questCompletionRate"`
	EncounterMultiplier float64              `json:"encounterMultiplier"`
}

// Overview is the aggregate view of the whole store.
type Overview struct {
	TotalCampaigns     int     `json:"totalCampaigns"`
	ActiveCampaigns    int     `json:"activeCampaigns"`
	CompletedCampaigns int     `json:"completedCampaigns"`
	TotalSessions      int     `json:"totalSessions"`
	TotalCharacters    int     `json:"totalCharacters"`
	ActiveCharacters   int     `json:"activeCharacters"`
	AverageLevel       float64 `json:"averageLevel"`
}

// Engine runs reports over the campaign and character stores.
type Engine struct {
	campaigns  *store.CampaignStore
	characters *store.CharacterStore
}

// NewEngine returns an engine bound to the given stores.
func NewEngine(campaigns *store.CampaignStore, characters *store.CharacterStore) *Engine {
	return &Engine{campaigns: campaigns, characters: characters}
}

// CampaignReport computes the report for one campaign.
func (e *Engine) CampaignReport(campaignID string) (*Report, error) {
	c, err := e.campaigns.Get(campaignID)
	if err != nil {
		return nil, err
	}

	db, err := e.loadSnapshot([]*types.Campaign{c})
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return e.report(db, c)
}

// AllReports computes a report per campaign, in the order of Summaries.
func (e *Engine) AllReports() ([]*Report, error) {
	summaries, err := e.campaigns.Summaries()
	if err != nil {
		return nil, err
	}

	all := make([]*types.Campaign, 0, len(summaries))
	for _, s := range summaries {
		c, err := e.campaigns.Get(s.ID)
		if err != nil {
			return nil, err
		}
		all = append(all, c)
	}

	db, err := e.loadSnapshot(all)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	reports := make([]*Report, 0, len(all))
	for _, c := range all {
		r, err := e.report(db, c)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// StoreOverview computes totals across every campaign. The average level is
// taken over active characters in all campaigns together, so larger parties
// weigh more than in a per-campaign average.
func (e *Engine) StoreOverview() (*Overview, error) {
	all, err := e.campaigns.All()
	if err != nil {
		return nil, err
	}

	db, err := e.loadSnapshot(all)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	o := &Overview{}
	row := db.QueryRow(
		`SELECT COUNT(*),
                COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
                COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
                COALESCE(SUM(total_sessions), 0)
         FROM campaigns`,
		string(types.StatusActive), string(types.StatusCompleted),
	)
	if err := row.Scan(&o.TotalCampaigns, &o.ActiveCampaigns, &o.CompletedCampaigns, &o.TotalSessions); err != nil {
		return nil, types.StorageErr("aggregate campaigns", err)
	}

	row = db.QueryRow(
		`SELECT COUNT(*),
                COALESCE(SUM(is_active), 0),
                COALESCE(AVG(CASE WHEN is_active = 1 THEN level END), 0)
         FROM characters`,
	)
	if err := row.Scan(&o.TotalCharacters, &o.ActiveCharacters, &o.AverageLevel); err != nil {
		return nil, types.StorageErr("aggregate characters", err)
	}
	return o, nil
}

// loadSnapshot builds an in-memory database holding the given campaigns and
// their characters. The caller closes it.
func (e *Engine) loadSnapshot(campaigns []*types.Campaign) (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, types.StorageErr("open analytics database", err)
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, types.StorageErr("create analytics schema", err)
		}
	}

	for _, c := range campaigns {
		_, err := db.Exec(
			`INSERT INTO campaigns (campaign_id, name, status, difficulty, is_active,
                total_sessions, total_quests, completed_quests)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, string(c.Info.CampaignStatus), string(c.Info.DifficultyLevel),
			boolToInt(c.IsActive), c.Info.TotalSessions, c.Info.TotalQuests, c.Info.CompletedQuests,
		)
		if err != nil {
			db.Close()
			return nil, types.StorageErr("load campaign snapshot", err)
		}

		chars, err := e.characters.ByCampaign(c.ID)
		if err != nil {
			db.Close()
			return nil, err
		}
		for _, ch := range chars {
			_, err := db.Exec(
				`INSERT INTO characters (character_id, campaign_id, name, class, level,
                    is_active, achievements, relationships)
                 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				ch.ID, ch.CampaignID, ch.Name, ch.Class, ch.Level,
				boolToInt(ch.IsActive), len(ch.Achievements), len(ch.Relationships),
			)
			if err != nil {
				db.Close()
				return nil, types.StorageErr("load character snapshot", err)
			}
		}
	}
	return db, nil
}

// report runs the aggregate queries for one campaign against a loaded
// snapshot.
func (e *Engine) report(db *sql.DB, c *types.Campaign) (*Report, error) {
	r := &Report{
		CampaignID:          c.ID,
		CampaignName:        c.Name,
		Status:              c.Info.CampaignStatus,
		TotalSessions:       c.Info.TotalSessions,
		ClassCounts:         make(map[string]int),
		QuestCompletionRate: c.Info.QuestCompletionRate(),
		EncounterMultiplier: c.Info.DifficultyLevel.EncounterMultiplier(),
	}

	row := db.QueryRow(
		`SELECT COUNT(*),
                COALESCE(SUM(is_active), 0),
                COALESCE(AVG(CASE WHEN is_active = 1 THEN level END), 0),
                COALESCE(MIN(level), 0),
                COALESCE(MAX(level), 0),
                COALESCE(SUM(achievements), 0),
                COALESCE(SUM(relationships), 0)
         FROM characters
         WHERE campaign_id = ?`,
		c.ID,
	)
	err := row.Scan(
		&r.TotalCharacters, &r.ActiveCharacters, &r.AverageLevel,
		&r.MinLevel, &r.MaxLevel, &r.TotalAchievements, &r.TotalRelationships,
	)
	if err != nil {
		return nil, types.StorageErr(fmt.Sprintf("aggregate characters for campaign %s", c.ID), err)
	}

	rows, err := db.Query(
		`SELECT class, COUNT(*) FROM characters WHERE campaign_id = ? GROUP BY class`,
		c.ID,
	)
	if err != nil {
		return nil, types.StorageErr(fmt.Sprintf("group classes for campaign %s", c.ID), err)
	}
	defer rows.Close()
	for rows.Next() {
		var class string
		var count int
		if err := rows.Scan(&class, &count); err != nil {
			return nil, types.StorageErr("scan class row", err)
		}
		r.ClassCounts[class] = count
	}
	if err := rows.Err(); err != nil {
		return nil, types.StorageErr("iterate class rows", err)
	}
	return r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
