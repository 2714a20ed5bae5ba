package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"consentry/internal/consent/models"
	id "consentry/pkg/domain"
)

// PostgresStore reads the registry from consent_categories and consent_groups.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) ListCategories(ctx context.Context, websiteID id.WebsiteID, locale string) (models.Categories, error) {
	query := `
		SELECT c.id, c.slug, c.title, c.description, c.position,
		       g.id, g.slug, g.title, g.description, g.active, g.anonymize, g.script_in_head,
		       g.script, g.service, g.prototype, g.prototype_placeholder, g.reload,
		       g.cookie_codes, g.position
		FROM consent_categories c
		LEFT JOIN consent_groups g ON g.category_id = c.id
		WHERE c.website_id = $1 AND c.locale = $2
		ORDER BY c.position, c.slug, g.position, g.slug
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(websiteID), locale)
	if err != nil {
		return nil, fmt.Errorf("list consent categories: %w", err)
	}
	defer rows.Close()

	cats := models.Categories{}
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			categoryID uuid.UUID
			c          models.Category
			groupID    uuid.NullUUID
			g          groupColumns
		)
		if err := rows.Scan(&categoryID, &c.Slug, &c.Title, &c.Description, &c.Position,
			&groupID, &g.slug, &g.title, &g.description, &g.active, &g.anonymize, &g.scriptInHead,
			&g.script, &g.service, &g.prototype, &g.placeholder, &g.reload,
			&g.cookieCodes, &g.position); err != nil {
			return nil, fmt.Errorf("scan consent category: %w", err)
		}

		i, ok := index[categoryID]
		if !ok {
			c.ID = id.CategoryID(categoryID)
			c.WebsiteID = websiteID
			c.Locale = locale
			cats = append(cats, c)
			i = len(cats) - 1
			index[categoryID] = i
		}
		if !groupID.Valid {
			continue
		}
		group, err := g.toModel(id.GroupID(groupID.UUID), cats[i].ID)
		if err != nil {
			return nil, err
		}
		cats[i].Groups = append(cats[i].Groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consent categories: %w", err)
	}
	return cats, nil
}

func (s *PostgresStore) ReplaceCategories(ctx context.Context, websiteID id.WebsiteID, locale string, categories models.Categories) error {
	if err := CheckUniqueSlugs(categories); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin registry replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM consent_categories WHERE website_id = $1 AND locale = $2`,
		uuid.UUID(websiteID), locale,
	); err != nil {
		return fmt.Errorf("clear consent categories: %w", err)
	}
	for _, c := range categories {
		if err := insertCategory(ctx, tx, websiteID, locale, c); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit registry replace: %w", err)
	}
	return nil
}

func insertCategory(ctx context.Context, exec dbExecutor, websiteID id.WebsiteID, locale string, c models.Category) error {
	categoryID := c.ID
	if categoryID.IsNil() {
		categoryID = id.NewCategoryID()
	}
	_, err := exec.ExecContext(ctx, `
		INSERT INTO consent_categories (id, website_id, locale, slug, title, description, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.UUID(categoryID), uuid.UUID(websiteID), locale, c.Slug, c.Title, c.Description, c.Position)
	if err != nil {
		return fmt.Errorf("insert consent category %s: %w", c.Slug, err)
	}

	for _, g := range c.Groups {
		groupID := g.ID
		if groupID.IsNil() {
			groupID = id.NewGroupID()
		}
		codes := g.CookieCodes
		if codes == nil {
			codes = []string{}
		}
		rawCodes, err := json.Marshal(codes)
		if err != nil {
			return fmt.Errorf("encode cookie codes: %w", err)
		}
		_, err = exec.ExecContext(ctx, `
			INSERT INTO consent_groups (
				id, category_id, slug, title, description, active, anonymize, script_in_head,
				script, service, prototype, prototype_placeholder, reload, cookie_codes, position
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		`, uuid.UUID(groupID), uuid.UUID(categoryID), g.Slug, g.Title, g.Description, g.Active, g.Anonymize,
			g.ScriptInHead, g.Script, g.Service, g.Prototype, g.PrototypePlaceholder, g.Reload, rawCodes, g.Position)
		if err != nil {
			return fmt.Errorf("insert consent group %s: %w", g.Slug, err)
		}
	}
	return nil
}

// groupColumns receives the nullable side of the LEFT JOIN.
type groupColumns struct {
	slug, title, description                sql.NullString
	script, service, prototype              sql.NullString
	placeholder                             sql.NullString
	active, anonymize, scriptInHead, reload sql.NullBool
	cookieCodes                             []byte
	position                                sql.NullInt64
}

func (g groupColumns) toModel(groupID id.GroupID, categoryID id.CategoryID) (models.Group, error) {
	group := models.Group{
		ID:                   groupID,
		CategoryID:           categoryID,
		Slug:                 g.slug.String,
		Title:                g.title.String,
		Description:          g.description.String,
		Active:               g.active.Bool,
		Anonymize:            g.anonymize.Bool,
		ScriptInHead:         g.scriptInHead.Bool,
		Script:               g.script.String,
		Service:              g.service.String,
		Prototype:            g.prototype.String,
		PrototypePlaceholder: g.placeholder.String,
		Reload:               g.reload.Bool,
		Position:             int(g.position.Int64),
	}
	if len(g.cookieCodes) > 0 {
		if err := json.Unmarshal(g.cookieCodes, &group.CookieCodes); err != nil {
			return models.Group{}, fmt.Errorf("decode cookie codes of %s: %w", group.Slug, err)
		}
	}
	return group, nil
}
