package store

// migrations is an ordered list of SQL migration groups. The version number
// is the 1-based index into this slice.
var migrations = [][]string{
	{
		`CREATE TABLE items (
			resource TEXT NOT NULL,
			id TEXT NOT NULL,
			data TEXT NOT NULL,
			exported_at TEXT NOT NULL,
			PRIMARY KEY (resource, id)
		)`,
		`CREATE TABLE cursors (
			resource TEXT PRIMARY KEY,
			cursor TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	},
}
