package store

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/jclnorm/jclextract/step"
)

// Store persists one project's assembled steps (spec.md §6.3).
type Store interface {
	InsertProject(ctx context.Context, projectName string, steps []*step.Step, dropTables bool) error
	Close()
}

// PostgresStore implements Store against PostgreSQL via pgx/v5 (spec.md
// §6.3, grounded on original_source/larkJCL_DB.py's psycopg2 usage and
// the pack's manifests that converge on jackc/pgx/v5).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore opens a connection pool against dsn.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database pool")
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the pool's connections.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// InsertProject writes one project's steps and allocations inside a
// single transaction (spec.md §5: "one connection... one transaction
// per project"), committing on success and rolling back on any
// row-insert error.
func (s *PostgresStore) InsertProject(ctx context.Context, projectName string, steps []*step.Step, dropTables bool) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.Wrapf(err, "beginning transaction for project %q", projectName)
	}
	defer tx.Rollback(ctx) // no-op once committed

	if dropTables {
		if _, err := tx.Exec(ctx, DropDDL); err != nil {
			return errors.Wrapf(err, "dropping schema for project %q", projectName)
		}
	}
	if _, err := tx.Exec(ctx, DDL); err != nil {
		return errors.Wrapf(err, "ensuring schema for project %q", projectName)
	}

	projectID, err := upsertProject(ctx, tx, projectName)
	if err != nil {
		return errors.Wrapf(err, "upserting project %q", projectName)
	}

	nextStepID, err := nextStepIDFor(ctx, tx, projectID)
	if err != nil {
		return errors.Wrapf(err, "reading prior step_id for project %q", projectName)
	}

	for i, st := range steps {
		stepID := nextStepID + i
		if err := insertStep(ctx, tx, projectID, stepID, relativeStep(i+1), st); err != nil {
			return errors.Wrapf(err, "inserting step %d of project %q", stepID, projectName)
		}
		for dsIdx, dd := range st.DDs {
			if err := insertAllocation(ctx, tx, projectID, stepID, dsIdx+1, dd); err != nil {
				return errors.Wrapf(err, "inserting allocation %d of step %d of project %q", dsIdx+1, stepID, projectName)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrapf(err, "committing project %q", projectName)
	}
	return nil
}

func upsertProject(ctx context.Context, tx pgx.Tx, name string) (int, error) {
	var id int
	err := tx.QueryRow(ctx, `
		INSERT INTO projects (project_name) VALUES ($1)
		ON CONFLICT (project_name) DO UPDATE SET project_name = EXCLUDED.project_name
		RETURNING project_id`, name).Scan(&id)
	return id, err
}

// nextStepIDFor continues step_id from the prior maximum, starting at 1
// when the project has no rows yet (spec.md §6, §8 scenario 6).
func nextStepIDFor(ctx context.Context, tx pgx.Tx, projectID int) (int, error) {
	var max *int
	err := tx.QueryRow(ctx, `SELECT MAX(step_id) FROM steps WHERE project_id = $1`, projectID).Scan(&max)
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}

func insertStep(ctx context.Context, tx pgx.Tx, projectID, stepID int, relStep string, st *step.Step) error {
	params := map[string]string{}
	if st.Parm != "" {
		params["PARM"] = st.Parm
	}
	if st.Region != "" {
		params["REGION"] = st.Region
	}
	if st.Time != "" {
		params["TIME"] = st.Time
	}
	parameters, err := json.Marshal(params)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO steps (project_id, step_id, relative_step, step_name, proc_step_name, program_name, proc_name, parameters, cond_logic)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		projectID, stepID, relStep, st.StepName, st.ProcStepName, st.ProgramName, st.ProcName, parameters, st.Cond)
	return err
}

func insertAllocation(ctx context.Context, tx pgx.Tx, projectID, stepID, dsID int, dd *step.DD) error {
	attrs := dd.DcbAttributes
	if attrs == nil {
		attrs = map[string]string{}
	}
	dcbAttributes, err := json.Marshal(attrs)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO data_allocations (
			project_id, step_id, ds_id, dd_name, allocation_offset, dsn,
			disp_status, disp_normal_term, disp_abnormal_term,
			unit, vol_ser, is_dummy, instream_ref, lrecl, blksize, recfm, dcb_attributes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		projectID, stepID, dsID, dd.Label, dd.Offset, dd.Dsn,
		dd.Disp.Status, dd.Disp.NormalTerm, dd.Disp.AbnormalTerm,
		dd.Unit, dd.VolSer, dd.Dummy, dd.InstreamRef(), dd.Lrecl, dd.Blksize, dd.Recfm, dcbAttributes)
	return err
}
