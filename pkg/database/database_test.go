package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

func TestGormLogger_SkipsRecordNotFound(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	gl := newGormLogger(zap.New(core))
	query := func() (string, int64) { return "SELECT * FROM progresses WHERE id = 1", 0 }

	gl.Trace(context.Background(), time.Now(), query, gorm.ErrRecordNotFound)
	assert.Zero(t, logs.Len())

	gl.Trace(context.Background(), time.Now(), query, errors.New("no such table: progresses"))
	assert.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "no such table")

	gl.Trace(context.Background(), time.Now().Add(-time.Second), query, nil)
	assert.Equal(t, 2, logs.Len())
	assert.Contains(t, logs.All()[1].Message, "SLOW SQL")
}
