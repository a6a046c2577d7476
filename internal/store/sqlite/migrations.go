package sqlite

import "database/sql"

// schema creates the person table. Columns mirror person.Person; name and
// gender are nullable, age defaults to zero.
const schema = `
CREATE TABLE IF NOT EXISTS person (
    id TEXT PRIMARY KEY,
    name TEXT,
    age INTEGER NOT NULL DEFAULT 0,
    gender TEXT,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_person_name ON person(name);
CREATE INDEX IF NOT EXISTS idx_person_created_at ON person(created_at);
`

func migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
