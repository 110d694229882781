package migration

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"megawe/migrations"
)

func TestLoad_OrdersAndChecksums(t *testing.T) {
	src := fstest.MapFS{
		"V2__add_index.sql":   {Data: []byte("CREATE INDEX x ON jobs (id);\n")},
		"V1__create_jobs.sql": {Data: []byte("  CREATE TABLE jobs (id TEXT);  ")},
		"README.md":           {Data: []byte("ignored")},
		"V3_bad_name.sql":     {Data: []byte("ignored")},
	}

	migs, err := Load(src)
	require.NoError(t, err)
	require.Len(t, migs, 2)

	assert.Equal(t, int64(1), migs[0].Version)
	assert.Equal(t, "create_jobs", migs[0].Name)
	assert.Equal(t, "CREATE TABLE jobs (id TEXT);", migs[0].SQL)
	assert.Len(t, migs[0].Checksum, 64)
	assert.Equal(t, int64(2), migs[1].Version)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(fstest.MapFS{"V1__empty.sql": {Data: []byte("  \n")}})
	assert.ErrorContains(t, err, "empty migration file")

	_, err = Load(fstest.MapFS{
		"V1__a.sql":  {Data: []byte("SELECT 1;")},
		"V01__b.sql": {Data: []byte("SELECT 2;")},
	})
	assert.ErrorContains(t, err, "duplicate migration version")
}

func TestLoad_EmbeddedMigrations(t *testing.T) {
	migs, err := Load(migrations.Files)
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	assert.Equal(t, int64(1), migs[0].Version)
	assert.Contains(t, migs[0].SQL, "CREATE TABLE IF NOT EXISTS jobs")
}

func TestRunner_NoSource(t *testing.T) {
	_, err := Runner{}.source()
	assert.Error(t, err)
}
