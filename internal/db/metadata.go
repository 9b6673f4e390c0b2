package db

// Catalog queries. Table order is whatever the backend returns.
const (
	postgresTablesQuery = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
			AND table_type = 'BASE TABLE'
	`

	postgresColumnsQuery = `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = 'public'
			AND table_name = $1
		ORDER BY ordinal_position
	`

	sqliteTablesQuery = `SELECT name FROM sqlite_master WHERE type = 'table'`

	sqliteColumnsQuery = `SELECT name FROM pragma_table_info(?) ORDER BY cid`
)
