package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/tradeloop/marketplace-api/internal/model"
)

// ProfileRepo persists business profiles. Scalar attributes map to columns;
// the verifications, certifications and import_export blocks are JSON
// columns written and read as a unit.
type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

const profileColumns = `id,profile_id,user_id,business_name,logo,cover_image,is_pro,is_verified,
revenue,employee_count,business_overview,business_type,origin,established,export_volume,
website,address,mobile,owner,verifications,certifications,import_export`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*model.Profile, error) {
	var p model.Profile
	var verifications, certifications, importExport []byte
	err := row.Scan(&p.ID, &p.ProfileID, &p.UserID, &p.BusinessName, &p.Logo, &p.CoverImage,
		&p.IsPro, &p.IsVerified, &p.Revenue, &p.EmployeeCount, &p.BusinessOverview,
		&p.BusinessType, &p.Origin, &p.Established, &p.ExportVolume, &p.Website,
		&p.Address, &p.Mobile, &p.Owner, &verifications, &certifications, &importExport)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := unmarshalColumn(verifications, &p.Verifications); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(certifications, &p.Certifications); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(importExport, &p.ImportExport); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByProfileID fetches one profile by its public identifier.
func (r *ProfileRepo) GetByProfileID(ctx context.Context, profileID string) (*model.Profile, error) {
	return scanProfile(r.DB.QueryRowContext(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE profile_id=? LIMIT 1", profileID))
}

// GetAll returns every profile, newest first.
func (r *ProfileRepo) GetAll(ctx context.Context) ([]model.Profile, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+profileColumns+" FROM profiles ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Create inserts a profile. A profile_id collision yields ErrDuplicateEntry.
func (r *ProfileRepo) Create(ctx context.Context, p *model.Profile) error {
	verifications, certifications, importExport, err := marshalProfileBlocks(p)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO profiles (`+profileColumns+`)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.ProfileID, p.UserID, p.BusinessName, p.Logo, p.CoverImage, p.IsPro, p.IsVerified,
		p.Revenue, p.EmployeeCount, p.BusinessOverview, p.BusinessType, p.Origin, p.Established,
		p.ExportVolume, p.Website, p.Address, p.Mobile, p.Owner,
		verifications, certifications, importExport)
	if isDuplicateEntry(err) {
		return ErrDuplicateEntry
	}
	return err
}

// Update rewrites every mutable field of the profile identified by
// p.ProfileID. The owning user_id is never changed.
func (r *ProfileRepo) Update(ctx context.Context, p *model.Profile) error {
	verifications, certifications, importExport, err := marshalProfileBlocks(p)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE profiles SET business_name=?, logo=?, cover_image=?, is_pro=?, is_verified=?,
		 revenue=?, employee_count=?, business_overview=?, business_type=?, origin=?,
		 established=?, export_volume=?, website=?, address=?, mobile=?, owner=?,
		 verifications=?, certifications=?, import_export=?
		 WHERE profile_id=?`,
		p.BusinessName, p.Logo, p.CoverImage, p.IsPro, p.IsVerified,
		p.Revenue, p.EmployeeCount, p.BusinessOverview, p.BusinessType, p.Origin,
		p.Established, p.ExportVolume, p.Website, p.Address, p.Mobile, p.Owner,
		verifications, certifications, importExport, p.ProfileID)
	return err
}

// DeleteByProfileID removes a profile and reports whether a row was deleted.
func (r *ProfileRepo) DeleteByProfileID(ctx context.Context, profileID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM profiles WHERE profile_id=?", profileID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func marshalProfileBlocks(p *model.Profile) (verifications, certifications, importExport []byte, err error) {
	if verifications, err = marshalColumn(p.Verifications); err != nil {
		return
	}
	if certifications, err = marshalColumn(p.Certifications); err != nil {
		return
	}
	importExport, err = marshalColumn(p.ImportExport)
	return
}

// marshalColumn serializes v for a JSON column. Nil pointers and slices
// become the JSON literal null, which unmarshals back to their zero value.
func marshalColumn(v any) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalColumn fills dst from a JSON column; NULL leaves dst zero.
func unmarshalColumn(data []byte, dst any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}
