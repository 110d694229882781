package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"megawe/internal/config"
	"megawe/internal/database"
)

var _ database.DB = (*Pool)(nil)
var _ database.StatsReporter = (*Pool)(nil)

func TestDSN(t *testing.T) {
	dsn, err := DSN(config.DatabaseConfig{
		DBHost:     "localhost",
		DBUser:     "megawe",
		DBName:     "megawe",
		DBPassword: "s3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, "host=localhost port=5432 user=megawe password=s3cret dbname=megawe sslmode=disable", dsn)

	dsn, err = DSN(config.DatabaseConfig{
		DBHost:     "db",
		DBPort:     "6543",
		DBUser:     "u",
		DBName:     "n",
		DBPassword: `it's a pass`,
		DBSSLMode:  "require",
	})
	require.NoError(t, err)
	assert.Equal(t, `host=db port=6543 user=u password='it\'s a pass' dbname=n sslmode=require`, dsn)
}

func TestDSN_Incomplete(t *testing.T) {
	_, err := DSN(config.DatabaseConfig{DBHost: "localhost"})
	assert.ErrorIs(t, err, errIncompleteConfig)
}

func TestPool_NilSafe(t *testing.T) {
	var p *Pool
	assert.Error(t, p.Ping(t.Context()))
	assert.NoError(t, p.Close())
	assert.Equal(t, database.PoolStats{}, p.Stats())
}
