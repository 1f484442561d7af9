package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/myrjola/avalanchemystery/internal/errors"
	"github.com/myrjola/avalanchemystery/internal/random"
)

// migrateTo makes the schema of db match schema, a script of CREATE statements.
//
// The migration is declarative:
//
// 1. Tables missing from schema are dropped and new tables are created.
// 2. Changed tables are rebuilt keeping their common columns, following
// https://www.sqlite.org/lang_altertable.html#otheralter.
// 3. Indexes and triggers are recreated whenever their SQL differs.
//
// Inspired by https://david.rothlis.net/declarative-schema-migration-for-sqlite/
func (db *Database) migrateTo(ctx context.Context, schema string) (err error) {
	targetDSN, closeTarget, err := db.openTarget(ctx, schema)
	if err != nil {
		return err
	}
	defer closeTarget()

	// Foreign keys can only be toggled outside a transaction and attach must happen on the connection that
	// migrates, so the whole migration runs on one dedicated connection.
	conn, err := db.ReadWrite.Connx(ctx)
	if err != nil {
		return errors.Wrap(err, "acquire connection")
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to release connection", errors.SlogError(closeErr))
		}
	}()

	if _, err = conn.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return errors.Wrap(err, "disable foreign key validation")
	}
	defer func() {
		if _, fkErr := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); fkErr != nil {
			err = errors.Join(err, errors.Wrap(fkErr, "re-enable foreign key validation"))
		}
	}()

	if _, err = conn.ExecContext(ctx, "ATTACH DATABASE ? AS schemaTarget", targetDSN); err != nil {
		return errors.Wrap(err, "attach schema target database")
	}
	defer func() {
		if _, detachErr := conn.ExecContext(ctx, "DETACH DATABASE schemaTarget"); detachErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to detach schema target database",
				errors.SlogError(detachErr))
		}
	}()

	var tx *sqlx.Tx
	if tx, err = conn.BeginTxx(ctx, nil); err != nil {
		return errors.Wrap(err, "start transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to rollback migration", errors.SlogError(rollbackErr))
		}
	}()

	if err = db.migrateTables(ctx, tx); err != nil {
		return errors.Wrap(err, "migrate tables")
	}
	if err = db.migrateObjects(ctx, tx); err != nil {
		return errors.Wrap(err, "migrate indexes and triggers")
	}
	var violations []struct {
		Table  string        `db:"table"`
		RowID  sql.NullInt64 `db:"rowid"`
		Parent string        `db:"parent"`
		FKID   int           `db:"fkid"`
	}
	if err = tx.SelectContext(ctx, &violations, "PRAGMA foreign_key_check"); err != nil {
		return errors.Wrap(err, "foreign key check")
	}
	if len(violations) > 0 {
		return errors.New("foreign key violations after migration",
			slog.String("table", violations[0].Table), slog.Int("count", len(violations)))
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit migration")
	}
	return nil
}

// openTarget creates schema in a fresh in-memory database so it can be compared with the current one. The
// returned DSN can be attached while the database stays open.
func (db *Database) openTarget(ctx context.Context, schema string) (string, func(), error) {
	randomID, err := random.Letters(20) //nolint:mnd // plenty of entropy
	if err != nil {
		return "", nil, errors.Wrap(err, "generate random ID")
	}
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", randomID)
	target, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return "", nil, errors.Wrap(err, "open schema target database")
	}
	closeTarget := func() {
		if closeErr := target.Close(); closeErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to close schema target database",
				errors.SlogError(closeErr))
		}
	}
	if _, err = target.ExecContext(ctx, schema); err != nil {
		closeTarget()
		return "", nil, errors.Wrap(err, "create schema target")
	}
	return dsn, closeTarget, nil
}

type schemaObject struct {
	Type       string         `db:"type"`
	Name       string         `db:"name"`
	CurrentSQL sql.NullString `db:"current_sql"`
	TargetSQL  sql.NullString `db:"target_sql"`
}

func (db *Database) migrateTables(ctx context.Context, tx *sqlx.Tx) error {
	var tables []schemaObject
	if err := tx.SelectContext(ctx, &tables, `SELECT 'table' AS type, name, current_sql, target_sql FROM (
    SELECT c.name, c.sql AS current_sql, t.sql AS target_sql
    FROM main.sqlite_schema AS c
             LEFT JOIN schemaTarget.sqlite_schema AS t ON t.name = c.name AND t.type = c.type
    WHERE c.type = 'table'
    UNION
    SELECT t.name, c.sql AS current_sql, t.sql AS target_sql
    FROM schemaTarget.sqlite_schema AS t
             LEFT JOIN main.sqlite_schema AS c ON c.name = t.name AND c.type = t.type
    WHERE t.type = 'table'
)
WHERE name NOT LIKE 'sqlite_%'
ORDER BY name`); err != nil {
		return errors.Wrap(err, "query tables")
	}

	for _, table := range tables {
		attrs := []slog.Attr{slog.String("table", table.Name)}
		switch {
		case !table.TargetSQL.Valid:
			db.logger.LogAttrs(ctx, slog.LevelInfo, "dropping table", attrs...)
			if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE "%s"`, table.Name)); err != nil {
				return errors.Wrap(err, "drop table", attrs...)
			}
		case !table.CurrentSQL.Valid:
			db.logger.LogAttrs(ctx, slog.LevelInfo, "creating table", attrs...)
			if _, err := tx.ExecContext(ctx, table.TargetSQL.String); err != nil {
				return errors.Wrap(err, "create table", attrs...)
			}
		case table.CurrentSQL.String != table.TargetSQL.String:
			db.logger.LogAttrs(ctx, slog.LevelInfo, "rebuilding table", attrs...)
			if err := rebuildTable(ctx, tx, table); err != nil {
				return errors.Wrap(err, "rebuild table", attrs...)
			}
		}
	}
	return nil
}

// rebuildTable creates the new definition under a temporary name, copies the shared columns over and swaps the
// tables.
func rebuildTable(ctx context.Context, tx *sqlx.Tx, table schemaObject) error {
	tempName := table.Name + "_migration_temp"
	if _, err := tx.ExecContext(ctx, strings.Replace(table.TargetSQL.String, table.Name, tempName, 1)); err != nil {
		return errors.Wrap(err, "create temporary table")
	}

	// Quoted so that columns named after keywords survive.
	var columns []string
	if err := tx.SelectContext(ctx, &columns, `SELECT '"' || t.name || '"'
FROM PRAGMA_TABLE_INFO(:table_name) AS c
         JOIN PRAGMA_TABLE_INFO(:table_name, 'schemaTarget') AS t ON t.name = c.name`,
		sql.Named("table_name", table.Name)); err != nil {
		return errors.Wrap(err, "query common columns")
	}
	if len(columns) > 0 {
		common := strings.Join(columns, ", ")
		//nolint:gosec // identifiers come from the schema itself
		copySQL := fmt.Sprintf(`INSERT INTO "%s" (%s) SELECT %s FROM "%s"`, tempName, common, common, table.Name)
		if _, err := tx.ExecContext(ctx, copySQL); err != nil {
			return errors.Wrap(err, "copy rows")
		}
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE "%s"`, table.Name)); err != nil {
		return errors.Wrap(err, "drop old table")
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`ALTER TABLE "%s" RENAME TO "%s"`, tempName, table.Name)); err != nil {
		return errors.Wrap(err, "rename table")
	}
	return nil
}

// migrateObjects drops indexes and triggers that changed or disappeared and creates the ones that are missing.
// Automatic indexes have no SQL and are left alone.
func (db *Database) migrateObjects(ctx context.Context, tx *sqlx.Tx) error {
	var objects []schemaObject
	if err := tx.SelectContext(ctx, &objects, `SELECT type, name, current_sql, target_sql FROM (
    SELECT c.type, c.name, c.sql AS current_sql, t.sql AS target_sql
    FROM main.sqlite_schema AS c
             LEFT JOIN schemaTarget.sqlite_schema AS t ON t.name = c.name AND t.type = c.type
    WHERE c.type IN ('index', 'trigger') AND c.sql IS NOT NULL
    UNION
    SELECT t.type, t.name, c.sql AS current_sql, t.sql AS target_sql
    FROM schemaTarget.sqlite_schema AS t
             LEFT JOIN main.sqlite_schema AS c ON c.name = t.name AND c.type = t.type
    WHERE t.type IN ('index', 'trigger') AND t.sql IS NOT NULL
)
ORDER BY type, name`); err != nil {
		return errors.Wrap(err, "query indexes and triggers")
	}

	for _, o := range objects {
		if o.CurrentSQL.Valid && o.TargetSQL.Valid && o.CurrentSQL.String == o.TargetSQL.String {
			continue
		}
		attrs := []slog.Attr{slog.String("type", o.Type), slog.String("name", o.Name)}
		if o.CurrentSQL.Valid {
			db.logger.LogAttrs(ctx, slog.LevelInfo, "dropping schema object", attrs...)
			if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP %s "%s"`, strings.ToUpper(o.Type), o.Name)); err != nil {
				return errors.Wrap(err, "drop schema object", attrs...)
			}
		}
		if o.TargetSQL.Valid {
			db.logger.LogAttrs(ctx, slog.LevelInfo, "creating schema object", attrs...)
			if _, err := tx.ExecContext(ctx, o.TargetSQL.String); err != nil {
				return errors.Wrap(err, "create schema object", attrs...)
			}
		}
	}
	return nil
}
