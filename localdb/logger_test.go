package localdb_test

import (
	"bytes"
	"testing"

	"github.com/raywall/bookmark-service/localdb"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := localdb.NewLogger(zerolog.New(&buf).Level(zerolog.WarnLevel))

	l.Infof("replaying %d entries\n", 3)
	assert.Empty(t, buf.String())

	l.Warningf("value log %s\n", "truncated")
	assert.Contains(t, buf.String(), `"message":"value log truncated"`)
	assert.Contains(t, buf.String(), `"component":"badger"`)
}
