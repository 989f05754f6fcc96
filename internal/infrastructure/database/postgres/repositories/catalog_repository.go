// Package repositories contains the pgx implementations of the domain
// persistence contracts.
package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scholarmap/scholarmap/internal/domain/catalog"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/logging"
	apperrors "github.com/scholarmap/scholarmap/pkg/errors"
	"github.com/scholarmap/scholarmap/pkg/types/geo"
)

// CatalogRepository loads catalog reference data from PostgreSQL.
type CatalogRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewCatalogRepository creates a repository over the given pool.
func NewCatalogRepository(pool *pgxpool.Pool, log logging.Logger) *CatalogRepository {
	return &CatalogRepository{pool: pool, logger: log.Named("catalog-repo")}
}

// coords builds Coordinates from nullable columns; either side missing yields
// the zero value, which the map layers treat as absent geodata.
func coords(lat, lng *float64) geo.Coordinates {
	if lat == nil || lng == nil {
		return geo.Coordinates{}
	}
	return geo.Coordinates{Lat: *lat, Lng: *lng}
}

const listUniversitiesSQL = `
SELECT id, short_name, full_name, state, lat, lng,
       researchers_count, active_projects, publications, industry_citations,
       top_research_area, departments, rank, image_path
FROM universities
ORDER BY id`

// ListUniversities returns every university record.
func (r *CatalogRepository) ListUniversities(ctx context.Context) ([]catalog.University, error) {
	rows, err := r.pool.Query(ctx, listUniversitiesSQL)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "list universities")
	}
	defer rows.Close()

	var out []catalog.University
	for rows.Next() {
		var (
			u        catalog.University
			lat, lng *float64
			area     *string
			image    *string
			rank     *int
		)
		if err := rows.Scan(&u.ID, &u.ShortName, &u.FullName, &u.State, &lat, &lng,
			&u.ResearchersCount, &u.ActiveProjects, &u.Publications, &u.IndustryCitations,
			&area, &u.Departments, &rank, &image); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "scan university")
		}
		u.Coordinates = coords(lat, lng)
		if area != nil {
			u.TopResearchArea = *area
		}
		if rank != nil {
			u.Rank = *rank
		}
		if image != nil {
			u.ImagePath = *image
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "iterate universities")
	}
	return out, nil
}

const listProjectsSQL = `
SELECT id, name, type, status, location, lat, lng,
       start_date, end_date, budget, lead_researcher, university_id,
       collaboration_type, category, sdg_tags, funding_type, description, image_path
FROM projects
ORDER BY id`

// ListProjects returns every project record.
func (r *CatalogRepository) ListProjects(ctx context.Context) ([]catalog.Project, error) {
	rows, err := r.pool.Query(ctx, listProjectsSQL)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "list projects")
	}
	defer rows.Close()

	var out []catalog.Project
	for rows.Next() {
		var (
			p                catalog.Project
			lat, lng         *float64
			start, end       *time.Time
			budget           *float64
			name, lead, univ *string
			desc, image      *string
			status           string
		)
		if err := rows.Scan(&p.ID, &name, &p.Type, &status, &p.Location, &lat, &lng,
			&start, &end, &budget, &lead, &univ,
			&p.CollaborationType, &p.Category, &p.SDGTags, &p.FundingType, &desc, &image); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "scan project")
		}
		p.Coordinates = coords(lat, lng)
		p.Status = catalog.ProjectStatus(status)
		if name != nil {
			p.Name = *name
		}
		if start != nil {
			p.StartDate = *start
		}
		if end != nil {
			p.EndDate = *end
		}
		if budget != nil {
			p.Budget = *budget
		}
		if lead != nil {
			p.LeadResearcher = *lead
		}
		if univ != nil {
			p.UniversityID = *univ
		}
		if desc != nil {
			p.Description = *desc
		}
		if image != nil {
			p.ImagePath = *image
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "iterate projects")
	}
	return out, nil
}

const listPartnersSQL = `
SELECT id, name, sector, location, lat, lng, description,
       university_partners, active_collaborations, funding_provided,
       specialization, partnership_type, tags, image_path
FROM industry_partners
ORDER BY id`

// ListPartners returns every industry partner record.
func (r *CatalogRepository) ListPartners(ctx context.Context) ([]catalog.IndustryPartner, error) {
	rows, err := r.pool.Query(ctx, listPartnersSQL)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "list industry partners")
	}
	defer rows.Close()

	var out []catalog.IndustryPartner
	for rows.Next() {
		var (
			p           catalog.IndustryPartner
			lat, lng    *float64
			funding     *float64
			desc, image *string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Sector, &p.Location, &lat, &lng, &desc,
			&p.UniversityPartners, &p.ActiveCollaborations, &funding,
			&p.Specialization, &p.PartnershipType, &p.Tags, &image); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "scan industry partner")
		}
		p.Coordinates = coords(lat, lng)
		if desc != nil {
			p.Description = *desc
		}
		if funding != nil {
			p.FundingProvided = *funding
		}
		if image != nil {
			p.ImagePath = *image
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "iterate industry partners")
	}
	return out, nil
}

const listResearchersSQL = `
SELECT id, name, department, university, lat, lng
FROM researcher_locations
ORDER BY id`

// ListResearchers returns every researcher location record.
func (r *CatalogRepository) ListResearchers(ctx context.Context) ([]catalog.ResearcherLocation, error) {
	rows, err := r.pool.Query(ctx, listResearchersSQL)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "list researcher locations")
	}
	defer rows.Close()

	var out []catalog.ResearcherLocation
	for rows.Next() {
		var (
			loc      catalog.ResearcherLocation
			lat, lng *float64
			univ     *string
		)
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Department, &univ, &lat, &lng); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "scan researcher location")
		}
		loc.Coordinates = coords(lat, lng)
		if univ != nil {
			loc.University = *univ
		}
		out = append(out, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "iterate researcher locations")
	}
	return out, nil
}

const listEventsSQL = `
SELECT id, name, theme, location, starts_at, ends_at, image_path
FROM events
ORDER BY starts_at DESC`

// ListEvents returns every event record, newest first.
func (r *CatalogRepository) ListEvents(ctx context.Context) ([]catalog.Event, error) {
	rows, err := r.pool.Query(ctx, listEventsSQL)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "list events")
	}
	defer rows.Close()

	var out []catalog.Event
	for rows.Next() {
		var (
			e                  catalog.Event
			name, theme, image *string
			start, end         *time.Time
		)
		if err := rows.Scan(&e.ID, &name, &theme, &e.Location, &start, &end, &image); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "scan event")
		}
		if name != nil {
			e.Name = *name
		}
		if theme != nil {
			e.Theme = *theme
		}
		if start != nil {
			e.StartsAt = *start
		}
		if end != nil {
			e.EndsAt = *end
		}
		if image != nil {
			e.ImagePath = *image
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "iterate events")
	}
	return out, nil
}

// GetUniversity returns one university by id.
func (r *CatalogRepository) GetUniversity(ctx context.Context, id string) (*catalog.University, error) {
	const q = `
SELECT id, short_name, full_name, state, lat, lng,
       researchers_count, active_projects, publications, industry_citations,
       top_research_area, departments, rank, image_path
FROM universities WHERE id = $1`

	var (
		u        catalog.University
		lat, lng *float64
		area     *string
		image    *string
		rank     *int
	)
	err := r.pool.QueryRow(ctx, q, id).Scan(&u.ID, &u.ShortName, &u.FullName, &u.State, &lat, &lng,
		&u.ResearchersCount, &u.ActiveProjects, &u.Publications, &u.IndustryCitations,
		&area, &u.Departments, &rank, &image)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.New(apperrors.CodeUniversityNotFound, "university not found").WithDetail(id)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "get university")
	}
	u.Coordinates = coords(lat, lng)
	if area != nil {
		u.TopResearchArea = *area
	}
	if rank != nil {
		u.Rank = *rank
	}
	if image != nil {
		u.ImagePath = *image
	}
	return &u, nil
}

// GetProject returns one project by id.
func (r *CatalogRepository) GetProject(ctx context.Context, id string) (*catalog.Project, error) {
	const q = `
SELECT id, name, type, status, location, lat, lng,
       start_date, end_date, budget, lead_researcher, university_id,
       collaboration_type, category, sdg_tags, funding_type, description, image_path
FROM projects WHERE id = $1`

	var (
		p                catalog.Project
		lat, lng         *float64
		start, end       *time.Time
		budget           *float64
		name, lead, univ *string
		desc, image      *string
		status           string
	)
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &name, &p.Type, &status, &p.Location, &lat, &lng,
		&start, &end, &budget, &lead, &univ,
		&p.CollaborationType, &p.Category, &p.SDGTags, &p.FundingType, &desc, &image)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.New(apperrors.CodeProjectNotFound, "project not found").WithDetail(id)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "get project")
	}
	p.Coordinates = coords(lat, lng)
	p.Status = catalog.ProjectStatus(status)
	if name != nil {
		p.Name = *name
	}
	if start != nil {
		p.StartDate = *start
	}
	if end != nil {
		p.EndDate = *end
	}
	if budget != nil {
		p.Budget = *budget
	}
	if lead != nil {
		p.LeadResearcher = *lead
	}
	if univ != nil {
		p.UniversityID = *univ
	}
	if desc != nil {
		p.Description = *desc
	}
	if image != nil {
		p.ImagePath = *image
	}
	return &p, nil
}

// GetPartner returns one industry partner by id.
func (r *CatalogRepository) GetPartner(ctx context.Context, id string) (*catalog.IndustryPartner, error) {
	const q = `
SELECT id, name, sector, location, lat, lng, description,
       university_partners, active_collaborations, funding_provided,
       specialization, partnership_type, tags, image_path
FROM industry_partners WHERE id = $1`

	var (
		p           catalog.IndustryPartner
		lat, lng    *float64
		funding     *float64
		desc, image *string
	)
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.Sector, &p.Location, &lat, &lng, &desc,
		&p.UniversityPartners, &p.ActiveCollaborations, &funding,
		&p.Specialization, &p.PartnershipType, &p.Tags, &image)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.New(apperrors.CodePartnerNotFound, "industry partner not found").WithDetail(id)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "get industry partner")
	}
	p.Coordinates = coords(lat, lng)
	if desc != nil {
		p.Description = *desc
	}
	if funding != nil {
		p.FundingProvided = *funding
	}
	if image != nil {
		p.ImagePath = *image
	}
	return &p, nil
}

var _ catalog.Repository = (*CatalogRepository)(nil)
