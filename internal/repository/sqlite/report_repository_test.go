package sqlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sceneguard/internal/model"
)

func setupTestDB(t *testing.T) *ReportRepository {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewReportRepository(db)
}

func sampleReport(id, camera string, at time.Time, withRisk bool) *model.Report {
	cup := model.ConfirmedObject{
		Name: "cup", DisplayName: "liquid container",
		Box: model.Box{X1: 90, Y1: 90, X2: 110, Y2: 110}, Center: model.Point{X: 100, Y: 100},
		Confidence: 0.5, FramesSeen: 3, Categories: []string{"liquid"},
	}
	laptop := model.ConfirmedObject{
		Name: "laptop", DisplayName: "laptop",
		Box: model.Box{X1: 100, Y1: 80, X2: 140, Y2: 120}, Center: model.Point{X: 120, Y: 100},
		Confidence: 0.8, FramesSeen: 5, Categories: []string{"electronics"},
	}

	rel := model.Relation{A: 0, B: 1, Distance: 20, Proximity: model.Near, Horizontal: model.LeftOf, Overlap: true}
	if withRisk {
		explanation := model.Explanation{"A cup is placed close to a laptop.", "p", "c", "Moving the cup away could help reduce this risk."}
		rel.Finding = &model.RiskFinding{Type: model.SpillRisk, Source: cup, Target: laptop}
		rel.Explanation = &explanation
	}

	return &model.Report{
		ID:             id,
		Camera:         camera,
		CapturedAt:     at,
		FramesAnalyzed: 5,
		Discarded:      1,
		Candidates:     []model.CandidateStatus{{Class: "cup", FramesSeen: 3, Confirmed: true}},
		Objects:        []model.ConfirmedObject{cup, laptop},
		Relations:      []model.Relation{rel},
		SnapshotFile:   id + ".jpg",
	}
}

func TestDatabase_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reports.db")
	db, err := New(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestReportRepository_InsertAndGet(t *testing.T) {
	repo := setupTestDB(t)
	at := time.Date(2025, 2, 3, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Insert(sampleReport("r1", "desk", at, true)))

	report, err := repo.GetByID("r1")
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, "desk", report.Camera)
	assert.True(t, at.Equal(report.CapturedAt))
	require.Len(t, report.Findings(), 1)
	assert.Equal(t, "A cup is placed close to a laptop.", report.Findings()[0].Explanation.Observation())

	objects, err := repo.GetObjects("r1")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "cup", objects[0].Name)
	assert.Equal(t, 110, objects[0].X2)

	findings, err := repo.GetFindings("r1")
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, model.SpillRisk, findings[0].RiskType)
	assert.Equal(t, "cup", findings[0].Source)
	assert.Equal(t, "Moving the cup away could help reduce this risk.", findings[0].Suggestion)
}

func TestReportRepository_GetByIDMissing(t *testing.T) {
	repo := setupTestDB(t)

	report, err := repo.GetByID("nope")
	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestReportRepository_FilterAndPaginate(t *testing.T) {
	repo := setupTestDB(t)
	base := time.Date(2025, 2, 3, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Insert(sampleReport("a", "desk", base, true)))
	require.NoError(t, repo.Insert(sampleReport("b", "desk", base.Add(time.Hour), false)))
	require.NoError(t, repo.Insert(sampleReport("c", "kitchen", base.Add(2*time.Hour), true)))

	tests := []struct {
		name     string
		filter   model.ReportFilter
		expected []string
	}{
		{"all newest first", model.ReportFilter{}, []string{"c", "b", "a"}},
		{"by camera", model.ReportFilter{Camera: "desk"}, []string{"b", "a"}},
		{"by risk type", model.ReportFilter{RiskType: "spill_risk"}, []string{"c", "a"}},
		{"by object", model.ReportFilter{Object: "laptop", Camera: "kitchen"}, []string{"c"}},
		{"page two", model.ReportFilter{Limit: 2, Offset: 2}, []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := repo.GetAll(&tt.filter)
			require.NoError(t, err)

			var ids []string
			for _, rec := range records {
				ids = append(ids, rec.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}

	count, err := repo.GetTotalCount(&model.ReportFilter{RiskType: "spill_risk"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestReportRepository_StatsAndCameras(t *testing.T) {
	repo := setupTestDB(t)
	at := time.Date(2025, 2, 3, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Insert(sampleReport("a", "desk", at, true)))
	require.NoError(t, repo.Insert(sampleReport("b", "kitchen", at, false)))

	stats, err := repo.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalReports)
	assert.Equal(t, map[string]int{"desk": 1, "kitchen": 1}, stats.PerCamera)
	assert.Equal(t, 2, stats.ObjectCounts["cup"])
	assert.Equal(t, map[string]int{"spill_risk": 1}, stats.FindingCounts)

	cameras, err := repo.GetCameras()
	require.NoError(t, err)
	assert.Equal(t, []string{"desk", "kitchen"}, cameras)
}

func TestReportRepository_DeleteCascades(t *testing.T) {
	repo := setupTestDB(t)
	at := time.Date(2025, 2, 3, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Insert(sampleReport("a", "desk", at, true)))
	require.NoError(t, repo.Insert(sampleReport("b", "desk", at, true)))

	require.NoError(t, repo.Delete("a"))
	objects, err := repo.GetObjects("a")
	require.NoError(t, err)
	assert.Empty(t, objects)

	require.NoError(t, repo.DeleteAll())
	count, err := repo.GetTotalCount(&model.ReportFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)

	findings, err := repo.GetFindings("b")
	require.NoError(t, err)
	assert.Empty(t, findings)
}
