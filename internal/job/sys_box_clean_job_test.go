package job

import (
	"Scribe/internal/pkg/consts"
	"Scribe/internal/pkg/mongo"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type cleanRecorder struct {
	mongo.SysBoxRepo
	before []time.Time
}

func (r *cleanRecorder) DeleteReadBefore(_ context.Context, before time.Time) (int64, error) {
	r.before = append(r.before, before)
	return 3, nil
}

func TestSysBoxCleanJob(t *testing.T) {
	mr := useMiniredis(t)
	repo := &cleanRecorder{}
	now := time.Date(2026, time.May, 1, 3, 30, 0, 0, time.UTC)

	job := NewSysBoxCleanJob(repo, 7)
	job.now = func() time.Time { return now }
	job.Run()

	assert.Equal(t, []time.Time{now.AddDate(0, 0, -7)}, repo.before)
	assert.False(t, mr.Exists(consts.SysBoxCleanLock))
}

func TestSysBoxCleanJob_DefaultRetention(t *testing.T) {
	job := NewSysBoxCleanJob(&cleanRecorder{}, 0)
	assert.Equal(t, 30*24*time.Hour, job.retention)
}
