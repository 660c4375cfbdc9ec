package config_test

import (
	"testing"

	"github.com/kurochkinivan/cdr_converter/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestPostgreSQL_Enabled(t *testing.T) {
	t.Parallel()

	assert.False(t, config.PostgreSQL{}.Enabled())
	assert.False(t, config.PostgreSQL{Host: "localhost"}.Enabled())
	assert.True(t, config.PostgreSQL{Host: "localhost", DBName: "cdr"}.Enabled())
}

func TestS3_Enabled(t *testing.T) {
	t.Parallel()

	assert.False(t, config.S3{}.Enabled())
	assert.False(t, config.S3{Bucket: "cdr"}.Enabled())
	assert.True(t, config.S3{Endpoint: "localhost:9000", Bucket: "cdr"}.Enabled())
}
