package database

import (
	"Movie_Catalog/pkg/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
)

func TestMysqlDialectorReportsFoundRows(t *testing.T) {
	d, err := dialectorFor(config.DBConfig{
		Type: "mysql", Host: "db", Port: 3306, Username: "root", Password: "p@ss:word", Database: "movies",
	})
	require.NoError(t, err)

	md, ok := d.(*mysql.Dialector)
	require.True(t, ok)
	assert.Contains(t, md.Config.DSN, "clientFoundRows=true")
	assert.Contains(t, md.Config.DSN, "parseTime=true")
	assert.Contains(t, md.Config.DSN, "tcp(db:3306)/movies")
}

func TestDialectorFor(t *testing.T) {
	d, err := dialectorFor(config.DBConfig{
		Type: "postgres", Host: "db", Port: 5432, Username: "u", Password: "p", Database: "movies",
	})
	require.NoError(t, err)
	_, ok := d.(*postgres.Dialector)
	assert.True(t, ok)

	_, err = dialectorFor(config.DBConfig{Type: "oracle"})
	assert.Error(t, err)

	assert.Equal(t, "file:x?_pragma=foreign_keys(1)", withForeignKeys("file:x"))
	assert.Equal(t, "file:x?mode=memory&_pragma=foreign_keys(1)", withForeignKeys("file:x?mode=memory"))
}
