// Package store persists assembled steps and their DD allocations
// (spec.md §6.3) into the three-relation schema of spec.md §6.
package store

// DDL creates the three relations if they do not already exist. Field
// widths cap at mainframe-typical sizes: names 8, DSN 44, volume serial
// 6 (spec.md §6).
const DDL = `
CREATE TABLE IF NOT EXISTS projects (
	project_id   SERIAL PRIMARY KEY,
	project_name VARCHAR(8) UNIQUE NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS steps (
	project_id     INTEGER NOT NULL REFERENCES projects(project_id),
	step_id        INTEGER NOT NULL,
	relative_step  VARCHAR(8) NOT NULL,
	step_name      VARCHAR(8) NOT NULL,
	proc_step_name VARCHAR(8) NOT NULL DEFAULT '',
	program_name   VARCHAR(8) NOT NULL DEFAULT '',
	proc_name      VARCHAR(8) NOT NULL DEFAULT '',
	parameters     JSONB NOT NULL DEFAULT '{}',
	cond_logic     VARCHAR(256) NOT NULL DEFAULT '',
	PRIMARY KEY (project_id, step_id)
);

CREATE TABLE IF NOT EXISTS data_allocations (
	project_id         INTEGER NOT NULL,
	step_id            INTEGER NOT NULL,
	ds_id              INTEGER NOT NULL,
	dd_name            VARCHAR(8) NOT NULL DEFAULT '',
	allocation_offset  INTEGER NOT NULL,
	dsn                VARCHAR(44) NOT NULL DEFAULT '',
	disp_status        VARCHAR(8) NOT NULL DEFAULT '',
	disp_normal_term   VARCHAR(8) NOT NULL DEFAULT '',
	disp_abnormal_term VARCHAR(8) NOT NULL DEFAULT '',
	unit               VARCHAR(8) NOT NULL DEFAULT '',
	vol_ser            VARCHAR(6) NOT NULL DEFAULT '',
	is_dummy           BOOLEAN NOT NULL DEFAULT FALSE,
	instream_ref       TEXT NOT NULL DEFAULT '',
	lrecl              VARCHAR(8) NOT NULL DEFAULT '',
	blksize            VARCHAR(8) NOT NULL DEFAULT '',
	recfm              VARCHAR(8) NOT NULL DEFAULT '',
	dcb_attributes     JSONB NOT NULL DEFAULT '{}',
	PRIMARY KEY (project_id, step_id, ds_id),
	FOREIGN KEY (project_id, step_id) REFERENCES steps(project_id, step_id)
);
`

// DropDDL tears the three relations down, children first, so DROP_TABLES
// can be honored unconditionally (spec.md §6).
const DropDDL = `
DROP TABLE IF EXISTS data_allocations;
DROP TABLE IF EXISTS steps;
DROP TABLE IF EXISTS projects;
`

// relativeStep formats the X-prefixed, 7-digit sequential label
// (spec.md §6: "relative_step is formatted X followed by a 7-digit,
// left-padded sequential counter restarting at 1 per project
// insertion").
func relativeStep(n int) string {
	digits := []byte{'0', '0', '0', '0', '0', '0', '0'}
	for i := len(digits) - 1; i >= 0 && n > 0; i-- {
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return "X" + string(digits)
}
