// Package compliance checks a whole extracted report: it infers each room's profile,
// resolves the standard, picks the measurement source and rolls room verdicts up.
package compliance

import (
	"fmt"

	"luxcheck/domain/core"
	"luxcheck/domain/report"
	"luxcheck/domain/standard"
	"luxcheck/domain/verdict"
	"luxcheck/internal"
	"luxcheck/internal/evaluator"
	"luxcheck/internal/resolver"
)

// Messages surfaced in results
const (
	MsgNoRooms         = "No room data found in report"
	MsgNoStandardFound = "No matching standard found"
)

// StandardResolver finds the requirement record for a profile
type StandardResolver interface {
	Resolve(profile string) (resolver.Match, bool)
}

// RoomEvaluator checks one room against a requirement record
type RoomEvaluator interface {
	EvaluateRoom(room report.Room, profile string, source report.MeasurementSource, record *standard.RequirementRecord) verdict.RoomResult
}

// Checker is safe for concurrent use once constructed
type Checker struct {
	resolver  StandardResolver
	evaluator RoomEvaluator
	scenes    SceneMatcher
	profiles  ProfileInferer
	clock     core.Clock
	logger    *internal.Logger
}

// Option configures a Checker
type Option func(*Checker)

// WithSceneMatcher replaces the positional room-to-scene join
func WithSceneMatcher(m SceneMatcher) Option {
	return func(c *Checker) { c.scenes = m }
}

// WithProfileRules replaces the room-name keyword rules
func WithProfileRules(rules ...ProfileRule) Option {
	return func(c *Checker) { c.profiles.Rules = rules }
}

// WithProfileInferer replaces the whole profile inference configuration
func WithProfileInferer(p ProfileInferer) Option {
	return func(c *Checker) { c.profiles = p }
}

// WithClock sets the clock used for result timestamps
func WithClock(clock core.Clock) Option {
	return func(c *Checker) { c.clock = clock }
}

// WithLogger sets the logger
func WithLogger(logger *internal.Logger) Option {
	return func(c *Checker) { c.logger = logger }
}

// NewChecker wires a resolver and an evaluator into a report checker
func NewChecker(r StandardResolver, e RoomEvaluator, opts ...Option) *Checker {
	c := &Checker{
		resolver:  r,
		evaluator: e,
		scenes:    LinkedSceneMatcher{Fallback: PositionalSceneMatcher{}},
		profiles:  NewProfileInferer(),
		clock:     core.SystemClock,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = internal.DefaultLogger.WithPrefix("compliance")
	}
	return c
}

// CheckCompliance evaluates every room of rec. It never panics: unexpected failures
// are reported as an ERROR result carrying the failure message.
func (c *Checker) CheckCompliance(rec *report.Record) (result verdict.ComplianceResult) {
	result = verdict.ComplianceResult{
		OverallCompliance: verdict.StatusUnknown,
		Checks:            []verdict.RoomResult{},
		Timestamp:         c.clock(),
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("compliance check aborted: %v", r)
			result.OverallCompliance = verdict.StatusError
			result.Error = fmt.Sprint(r)
			result.Summary = nil
		}
	}()

	if rec == nil || len(rec.Rooms) == 0 {
		result.OverallCompliance = verdict.StatusError
		result.Error = MsgNoRooms
		return result
	}

	for i := range rec.Rooms {
		room := rec.Rooms[i]
		scene := c.scenes.MatchScene(rec, i)

		profile, from := c.profiles.Infer(room, scene)
		if profile == "" {
			c.logger.Debug("room %q skipped: no utilisation profile", room.Name)
			continue
		}
		c.logger.Trace("room %q profile %q (from %s)", room.Name, profile, from)

		match, ok := c.resolver.Resolve(profile)
		if !ok {
			result.Checks = append(result.Checks, verdict.RoomResult{
				Room:               evaluator.RoomName(room),
				UtilisationProfile: profile,
				Status:             verdict.StatusNoStandardFound,
				Message:            MsgNoStandardFound,
			})
			continue
		}

		source := rec.LightingSetup.Source()
		if scene != nil {
			source = scene.Source()
		}

		roomResult := c.evaluator.EvaluateRoom(room, profile, source, match.Record)
		roomResult.MatchRule = string(match.Rule)
		result.Checks = append(result.Checks, roomResult)
	}

	summary := verdict.Summarize(result.Checks)
	result.Summary = &summary
	result.OverallCompliance = verdict.Overall(result.Checks)

	c.logger.Debug("checked %d rooms: %s (%.1f%% passed)", summary.TotalRooms, result.OverallCompliance, summary.PassRate)
	return result
}
