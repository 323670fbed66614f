package output

// MatrixOutput is the JSON form of a computed matrix.
type MatrixOutput struct {
	Rows    []string  `json:"rows"`
	Columns []string  `json:"columns"`
	Numbers [][]int64 `json:"numbers"`
}

// SeedOutput is the JSON form of a seed run.
type SeedOutput struct {
	Dataset          string `json:"dataset"`
	SDKs             int    `json:"sdks"`
	Apps             int    `json:"apps"`
	Associations     int    `json:"associations"`
	MigrationVersion int64  `json:"migration_version"`
}

// MigrateOutput is the JSON form of the migrate commands.
type MigrateOutput struct {
	Version int64 `json:"version"`
}
