package service

import (
	"testing"
	"time"

	"github.com/baker9001/GGK-LiveProduction-sub011/internal/model"
)

func runningJob(age time.Duration, now time.Time) *model.ImportJob {
	job := &model.ImportJob{Status: model.ImportRunning}
	job.CreatedAt = now.Add(-age)
	return job
}

func TestImportBlocked(t *testing.T) {
	now := time.Now()

	if !importBlocked(runningJob(time.Minute, now), now) {
		t.Error("a fresh running job must block re-import")
	}
	if importBlocked(runningJob(time.Hour, now), now) {
		t.Error("an orphaned running job must not block re-import forever")
	}

	done := &model.ImportJob{Status: model.ImportCompleted}
	done.CreatedAt = now.Add(-time.Minute)
	if importBlocked(done, now) {
		t.Error("a completed job must never block re-import")
	}

	failed := &model.ImportJob{Status: model.ImportFailed}
	failed.CreatedAt = now
	if importBlocked(failed, now) {
		t.Error("a failed job must never block re-import")
	}
}
