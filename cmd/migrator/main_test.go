package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags_Validate(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"up", []string{"-username", "u", "-password", "p", "-db", "cdr"}, false},
		{"version", []string{"-type", "version", "-username", "u", "-password", "p", "-db", "cdr"}, false},
		{"unknown type", []string{"-type", "sideways", "-username", "u", "-password", "p", "-db", "cdr"}, true},
		{"missing db", []string{"-username", "u", "-password", "p"}, true},
	}

	t.Setenv("CDR_PG_DBNAME", "")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := parseFlags(tt.args)
			require.NoError(t, err)

			err = f.validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseFlags_EnvDefaults(t *testing.T) {
	t.Setenv("CDR_PG_HOST", "db.internal")
	t.Setenv("CDR_PG_DBNAME", "cdr")

	f, err := parseFlags(nil)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", f.postgreSQL.Host)
	assert.Equal(t, "5432", f.postgreSQL.Port)
	assert.Equal(t, "cdr", f.postgreSQL.DBName)
	assert.Equal(t, migrationTypeUp, f.migrationType)
}
