package compliance

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxcheck/domain/core"
	"luxcheck/domain/report"
	"luxcheck/domain/standard"
	"luxcheck/domain/verdict"
	"luxcheck/internal"
	"luxcheck/internal/alias"
	"luxcheck/internal/evaluator"
	"luxcheck/internal/resolver"
	"luxcheck/internal/testkit"
)

var fixedTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newChecker(t *testing.T, cat *standard.Catalog, opts ...Option) *Checker {
	t.Helper()
	var logs bytes.Buffer
	opts = append([]Option{
		WithClock(core.FixedClock(fixedTime)),
		WithLogger(internal.NewLoggerTo(&logs, internal.LogLevelTrace)),
	}, opts...)
	return NewChecker(resolver.New(cat), evaluator.New(alias.DefaultTable()), opts...)
}

func officeCatalog() *standard.Catalog {
	return testkit.Catalog(testkit.Requirement("Offices", "Office work", 500, 0.6, 0))
}

func TestScenarioPass(t *testing.T) {
	c := newChecker(t, officeCatalog())
	rec := testkit.Report([]report.Room{testkit.Room("Room1", "Office work")}, testkit.Scene("Scene 1", 600, 0.65))

	got := c.CheckCompliance(rec)

	require.Len(t, got.Checks, 1)
	assert.Equal(t, verdict.StatusPass, got.Checks[0].Status)
	assert.Equal(t, verdict.StatusPass, got.OverallCompliance)
	require.NotNil(t, got.Summary)
	assert.Equal(t, 100.0, got.Summary.PassRate)
	assert.Equal(t, string(resolver.RuleExactUniformity), got.Checks[0].MatchRule)
	assert.Equal(t, "scene:Scene 1", got.Checks[0].MeasurementSource)
	assert.Equal(t, fixedTime, got.Timestamp)
}

func TestScenarioLuxFail(t *testing.T) {
	c := newChecker(t, officeCatalog())
	rec := testkit.Report([]report.Room{testkit.Room("Room1", "Office work")}, testkit.Scene("Scene 1", 400, 0.65))

	got := c.CheckCompliance(rec)

	lux := got.Checks[0].Checks[verdict.ParamLux]
	assert.False(t, *lux.Compliant)
	assert.Equal(t, 100.0, *lux.Margin)
	assert.Equal(t, verdict.StatusFail, got.Checks[0].Status)
	assert.Equal(t, verdict.StatusFail, got.OverallCompliance)
}

func TestScenarioInferFromRoomName(t *testing.T) {
	c := newChecker(t, testkit.StandardCatalog())
	rec := testkit.Report([]report.Room{testkit.Room("Factory Hall A", "")})
	rec.LightingSetup = report.LightingSetup{AverageLux: testkit.Float(350), Uniformity: testkit.Float(0.7)}

	got := c.CheckCompliance(rec)

	require.Len(t, got.Checks, 1)
	room := got.Checks[0]
	assert.Equal(t, ProfileGeneralAssembly, room.UtilisationProfile)
	assert.Equal(t, "General assembly work", room.Standard.TaskOrActivity)
	assert.Equal(t, "lighting_setup", room.MeasurementSource)
	assert.Equal(t, verdict.StatusPass, room.Status)
}

func TestScenarioNoRooms(t *testing.T) {
	c := newChecker(t, testkit.StandardCatalog())

	for name, rec := range map[string]*report.Record{
		"empty rooms": testkit.Report(nil, testkit.Scene("S", 500, 0.7)),
		"nil report":  nil,
	} {
		t.Run(name, func(t *testing.T) {
			got := c.CheckCompliance(rec)
			assert.Equal(t, verdict.StatusError, got.OverallCompliance)
			assert.Equal(t, MsgNoRooms, got.Error)
			assert.Nil(t, got.Summary)
			assert.Empty(t, got.Checks)
		})
	}
}

func TestNoStandardFoundIsPartial(t *testing.T) {
	// Without a uniformity-bearing record there is no last-resort match.
	cat := testkit.Catalog(testkit.Requirement("Offices", "Office work", 500, 0, 0))
	c := newChecker(t, cat)
	rec := testkit.Report(
		[]report.Room{testkit.Room("Room1", "Office work"), testkit.Room("Lab", "Underwater basket weaving")},
		testkit.Scene("S1", 600, 0.7), testkit.Scene("S2", 600, 0.7),
	)

	got := c.CheckCompliance(rec)

	require.Len(t, got.Checks, 2)
	assert.Equal(t, verdict.StatusPass, got.Checks[0].Status)
	assert.Equal(t, verdict.StatusNoStandardFound, got.Checks[1].Status)
	assert.Equal(t, MsgNoStandardFound, got.Checks[1].Message)
	assert.Nil(t, got.Checks[1].Standard)
	assert.Equal(t, verdict.StatusPartial, got.OverallCompliance)
	assert.Equal(t, 50.0, got.Summary.PassRate)
}

func TestColourRenderingNeverFailsRoom(t *testing.T) {
	cat := testkit.Catalog(testkit.Requirement("Offices", "Office work", 500, 0.6, 90))
	c := newChecker(t, cat)
	scene := testkit.Scene("S", 600, 0.7)
	scene.Raw.Set("CRI", 70.0)
	rec := testkit.Report([]report.Room{testkit.Room("Room1", "Office work")}, scene)

	got := c.CheckCompliance(rec)

	assert.False(t, *got.Checks[0].Checks[verdict.ParamRa].Compliant)
	assert.Equal(t, verdict.StatusPass, got.Checks[0].Status)
	assert.Equal(t, verdict.StatusPass, got.OverallCompliance)
}

func TestSceneSelection(t *testing.T) {
	cat := officeCatalog()
	rooms := []report.Room{
		testkit.Room("R1", "Office work"),
		testkit.Room("R2", "Office work"),
		testkit.Room("R3", "Office work"),
	}

	t.Run("positional with first-scene fallback", func(t *testing.T) {
		c := newChecker(t, cat, WithSceneMatcher(PositionalSceneMatcher{}))
		got := c.CheckCompliance(testkit.Report(rooms, testkit.Scene("A", 600, 0.7), testkit.Scene("B", 100, 0.7)))

		assert.Equal(t, "scene:A", got.Checks[0].MeasurementSource)
		assert.Equal(t, "scene:B", got.Checks[1].MeasurementSource)
		assert.Equal(t, "scene:A", got.Checks[2].MeasurementSource)
		assert.Equal(t, verdict.StatusFail, got.Checks[1].Status)
	})

	t.Run("explicit links", func(t *testing.T) {
		linked := append([]report.Room(nil), rooms...)
		linked[0].SceneID = "s-b"
		idx := 0
		linked[1].SceneIndex = &idx

		a := testkit.Scene("A", 600, 0.7)
		a.ID = "s-a"
		b := testkit.Scene("B", 100, 0.7)
		b.ID = "s-b"

		got := newChecker(t, cat).CheckCompliance(testkit.Report(linked, a, b))
		assert.Equal(t, "scene:B", got.Checks[0].MeasurementSource)
		assert.Equal(t, "scene:A", got.Checks[1].MeasurementSource)
		assert.Equal(t, "scene:A", got.Checks[2].MeasurementSource)
	})
}

func TestDeterministic(t *testing.T) {
	rec := testkit.ParseReport(t, testkit.FactoryReportJSON)

	first := newChecker(t, testkit.StandardCatalog()).CheckCompliance(rec)
	second := newChecker(t, testkit.StandardCatalog()).CheckCompliance(rec)

	assert.Equal(t, first, second)
	assert.Equal(t, verdict.StatusPass, first.OverallCompliance)
}

func TestSummaryConsistency(t *testing.T) {
	rec := testkit.Report(
		[]report.Room{
			testkit.Room("Office 1", ""),
			testkit.Room("Corridor", ""),
			testkit.Room("Storage", ""),
			testkit.Room("Unknown place", "Underwater"),
		},
		testkit.Scene("S1", 600, 0.7), testkit.Scene("S2", 50, 0.2), testkit.Scene("S3", 150, 0.5),
	)

	for _, cat := range []*standard.Catalog{testkit.StandardCatalog(), officeCatalog(), testkit.Catalog()} {
		got := newChecker(t, cat).CheckCompliance(rec)
		require.NotNil(t, got.Summary)
		s := got.Summary
		assert.Equal(t, s.TotalRooms, s.Passed+s.Failed+s.NoStandardFound)
		assert.Equal(t, len(got.Checks), s.TotalRooms)
		if s.TotalRooms > 0 {
			assert.InDelta(t, float64(s.Passed)/float64(s.TotalRooms)*100, s.PassRate, 1e-9)
		}
	}
}

func TestUnnamedRoomsShareOneName(t *testing.T) {
	rec := testkit.Report(
		[]report.Room{testkit.Room("", "Office work"), testkit.Room("", "Underwater")},
		testkit.Scene("S1", 600, 0.7), testkit.Scene("S2", 600, 0.7),
	)

	luxOnly := testkit.Catalog(testkit.Requirement("Offices", "Office work", 500, 0, 0))
	got := newChecker(t, luxOnly).CheckCompliance(rec)

	require.Len(t, got.Checks, 2)
	assert.Equal(t, verdict.StatusPass, got.Checks[0].Status)
	assert.Equal(t, verdict.StatusNoStandardFound, got.Checks[1].Status)
	assert.Equal(t, evaluator.UnknownRoom, got.Checks[0].Room)
	assert.Equal(t, evaluator.UnknownRoom, got.Checks[1].Room)
}

type panickingEvaluator struct{}

func (panickingEvaluator) EvaluateRoom(report.Room, string, report.MeasurementSource, *standard.RequirementRecord) verdict.RoomResult {
	panic("measurement source corrupted")
}

func TestPanicBecomesError(t *testing.T) {
	c := NewChecker(resolver.New(testkit.StandardCatalog()), panickingEvaluator{},
		WithClock(core.FixedClock(fixedTime)),
		WithLogger(internal.NewLoggerTo(&bytes.Buffer{}, internal.LogLevelError)))

	var got verdict.ComplianceResult
	assert.NotPanics(t, func() {
		got = c.CheckCompliance(testkit.Report([]report.Room{testkit.Room("Room1", "Office work")}))
	})
	assert.Equal(t, verdict.StatusError, got.OverallCompliance)
	assert.Equal(t, "measurement source corrupted", got.Error)
	assert.Nil(t, got.Summary)
}

func TestSkippedRoomsGiveNoChecks(t *testing.T) {
	inferer := NewProfileInferer()
	inferer.DefaultProfile = ""
	c := newChecker(t, testkit.StandardCatalog(), WithProfileInferer(inferer))

	got := c.CheckCompliance(testkit.Report([]report.Room{testkit.Room("Atrium", "")}))
	assert.Empty(t, got.Checks)
	assert.Equal(t, verdict.StatusNoChecks, got.OverallCompliance)
	assert.Equal(t, 0, got.Summary.TotalRooms)
}
