package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"scormbridge/internal/manifest"
	"scormbridge/internal/services"
)

// CreateFromManifest persists a parsed manifest as a new package aggregate.
// The whole tree write runs in one transaction: package, then items in
// manifest order, then for each item whose identifierref resolves, its
// resource and the resource's files. Any failed insert rolls the whole tree
// back and surfaces which item failed.
func (s *Store) CreateFromManifest(ctx context.Context, guid string, rawManifest []byte, m *manifest.Manifest) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, services.Wrap(services.ErrPersistence, "store", "begin tx", "", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO packages (guid, name, active, multisco, manifest, created_at, updated_at)
         VALUES (?, ?, 1, ?, ?, ?, ?)`,
		guid, m.Title, boolToInt(m.MultiSCO), string(rawManifest), now, now,
	)
	if err != nil {
		return 0, services.Wrap(services.ErrPersistence, "store", "insert package", guid, err)
	}
	packageID, err := res.LastInsertId()
	if err != nil {
		return 0, services.Wrap(services.ErrPersistence, "store", "insert package", "last insert id", err)
	}

	for position, item := range m.Items() {
		if err := s.insertItemTree(ctx, tx, packageID, position, item, m); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, services.Wrap(services.ErrPersistence, "store", "commit", guid, err)
	}
	return packageID, nil
}

func (s *Store) insertItemTree(ctx context.Context, tx *sql.Tx, packageID int64, position int, item manifest.Item, m *manifest.Manifest) error {
	score := 0.0
	if item.MasteryScore != nil {
		score = *item.MasteryScore
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO package_items (package_id, guid, identifier, identifier_ref, title, mastery_score, position)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		packageID, item.GUID, item.Identifier, item.IdentifierRef, item.Title, score, position,
	)
	if err != nil {
		return services.Wrap(services.ErrPersistence, "store", "insert item", item.Identifier, err)
	}
	itemID, err := res.LastInsertId()
	if err != nil {
		return services.Wrap(services.ErrPersistence, "store", "insert item", item.Identifier, err)
	}

	resource := m.ResourceByIdentifier(item.IdentifierRef)
	if resource == nil {
		// Recognized edge case: the item stays without a linked resource.
		return nil
	}

	resRow, err := tx.ExecContext(ctx,
		`INSERT INTO package_resources (item_id, guid, identifier, type, scorm_type, href)
         VALUES (?, ?, ?, ?, ?, ?)`,
		itemID, resource.GUID, resource.Identifier, resource.Type, resource.ScormType, resource.Href,
	)
	if err != nil {
		return services.Wrap(services.ErrPersistence, "store", "insert resource", item.Identifier, err)
	}
	resourceID, err := resRow.LastInsertId()
	if err != nil {
		return services.Wrap(services.ErrPersistence, "store", "insert resource", item.Identifier, err)
	}

	for filePos, href := range resource.Files {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO resource_files (resource_id, href, position) VALUES (?, ?, ?)`,
			resourceID, href, filePos,
		); err != nil {
			return services.Wrap(services.ErrPersistence, "store", "insert file", item.Identifier, err)
		}
	}
	return nil
}

// GetDetailByID loads the full package view by storage identifier.
func (s *Store) GetDetailByID(ctx context.Context, id int64) (*PackageDetail, error) {
	return s.getDetail(ctx, "id = ?", id)
}

// GetDetailByGUID loads the full package view by external identifier.
func (s *Store) GetDetailByGUID(ctx context.Context, guid string) (*PackageDetail, error) {
	return s.getDetail(ctx, "guid = ?", guid)
}

func (s *Store) getDetail(ctx context.Context, where string, arg any) (*PackageDetail, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, guid, name, active, multisco, created_at, updated_at FROM packages WHERE `+where, arg)

	detail := &PackageDetail{}
	var active, multisco int
	var createdAt, updatedAt string
	err := row.Scan(&detail.ID, &detail.GUID, &detail.Name, &active, &multisco, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "store", "get package", fmt.Sprintf("%v", arg), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("scan package: %w", err)
	}
	detail.Active = active != 0
	detail.MultiSCO = multisco != 0
	detail.CreatedAt = parseTimestamp(createdAt)
	detail.UpdatedAt = parseTimestamp(updatedAt)

	items, err := s.loadItems(ctx, detail.ID)
	if err != nil {
		return nil, err
	}
	detail.Items = items
	return detail, nil
}

func (s *Store) loadItems(ctx context.Context, packageID int64) ([]ItemDetail, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, guid, identifier, identifier_ref, title, mastery_score
         FROM package_items WHERE package_id = ? ORDER BY position`, packageID)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := make([]ItemDetail, 0, 4)
	for rows.Next() {
		var item ItemDetail
		if err := rows.Scan(&item.ID, &item.GUID, &item.Identifier, &item.IdentifierRef, &item.Title, &item.MasteryScore); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}

	for i := range items {
		resource, err := s.loadResource(ctx, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Resource = resource
	}
	return items, nil
}

func (s *Store) loadResource(ctx context.Context, itemID int64) (*ResourceDetail, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, guid, identifier, type, scorm_type, href
         FROM package_resources WHERE item_id = ?`, itemID)

	resource := &ResourceDetail{}
	err := row.Scan(&resource.ID, &resource.GUID, &resource.Identifier, &resource.Type, &resource.ScormType, &resource.Href)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan resource: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT href FROM resource_files WHERE resource_id = ? ORDER BY position`, resource.ID)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer rows.Close()

	resource.Files = make([]string, 0, 4)
	for rows.Next() {
		var href string
		if err := rows.Scan(&href); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		resource.Files = append(resource.Files, href)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return resource, nil
}

// ResolveDetail loads a package by storage id when ref is numeric, otherwise
// by external identifier.
func (s *Store) ResolveDetail(ctx context.Context, ref string) (*PackageDetail, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return s.GetDetailByID(ctx, id)
	}
	return s.GetDetailByGUID(ctx, ref)
}

// List returns one page of package headers, newest first, plus the total count.
func (s *Store) List(ctx context.Context, page, limit int) ([]Package, int, error) {
	if limit <= 0 {
		limit = 15
	}
	if page < 0 {
		page = 0
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM packages`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count packages: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, guid, name, active, multisco, created_at, updated_at
         FROM packages ORDER BY id DESC LIMIT ? OFFSET ?`, limit, page*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("query packages: %w", err)
	}
	defer rows.Close()

	packages := make([]Package, 0, limit)
	for rows.Next() {
		var pkg Package
		var active, multisco int
		var createdAt, updatedAt string
		if err := rows.Scan(&pkg.ID, &pkg.GUID, &pkg.Name, &active, &multisco, &createdAt, &updatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan package: %w", err)
		}
		pkg.Active = active != 0
		pkg.MultiSCO = multisco != 0
		pkg.CreatedAt = parseTimestamp(createdAt)
		pkg.UpdatedAt = parseTimestamp(updatedAt)
		packages = append(packages, pkg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate packages: %w", err)
	}
	return packages, total, nil
}

// UpdateMetadata applies administrative catalog updates to a package header.
// The normalized tree is never touched after ingestion.
func (s *Store) UpdateMetadata(ctx context.Context, id int64, name string, active bool) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`UPDATE packages SET name = ?, active = ?, updated_at = ? WHERE id = ?`,
		name, boolToInt(active), now, id)
	if err != nil {
		return services.Wrap(services.ErrPersistence, "store", "update package", fmt.Sprintf("%d", id), err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", "update package", fmt.Sprintf("%d", id), nil)
	}
	return nil
}

// ManifestXML returns the verbatim audit copy of the uploaded manifest.
func (s *Store) ManifestXML(ctx context.Context, id int64) (string, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT manifest FROM packages WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", services.Wrap(services.ErrNotFound, "store", "get manifest", fmt.Sprintf("%d", id), nil)
	}
	if err != nil {
		return "", fmt.Errorf("scan manifest: %w", err)
	}
	return raw, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func parseTimestamp(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}
