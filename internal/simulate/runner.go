package simulate

import (
	"context"
	"fmt"
	"time"

	"github.com/acumen-hq/acumen/internal/domain/event"
	"github.com/acumen-hq/acumen/pkg/logger"
)

// Run executes a full simulation: generate archetype journeys, submit
// them over HTTP, then read back skills and access for every user.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting acumen simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("users", config.Users),
		logger.String("archetype", config.Archetype),
		logger.Int("days", config.Days),
		logger.Int("workers", config.Workers),
	)

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Generate one journey per user.
	now := time.Now().UTC()
	type simUser struct {
		id        string
		archetype string
		events    int
	}
	users := make([]simUser, 0, config.Users)
	var all []event.Record

	for i := 0; i < config.Users; i++ {
		arch, ok := archetypeByName(config.Archetype, i)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownArchetype, config.Archetype)
		}
		id := newUserID(arch)
		journey := generateJourney(id, arch, config.Days, now)
		users = append(users, simUser{id: id, archetype: arch.Name, events: len(journey)})
		all = append(all, journey...)
	}
	stats.UsersSimulated = len(users)
	stats.EventsGenerated = len(all)
	logger.Get().Info(ctx, "journeys generated",
		logger.Int("users", stats.UsersSimulated),
		logger.Int("events", stats.EventsGenerated),
	)

	if err := submitEvents(ctx, config, all, stats); err != nil {
		return fmt.Errorf("event submission failed: %w", err)
	}

	// Read back assessments and access decisions.
	client := newHTTPClient(config.Timeout)
	results := make([]UserResult, 0, len(users))
	for _, u := range users {
		skills, err := fetchSkills(ctx, client, config.BaseURL, u.id)
		if err != nil {
			return fmt.Errorf("skills readback failed for %s: %w", u.id, err)
		}
		access, err := fetchAccess(ctx, client, config.BaseURL, u.id)
		if err != nil {
			return fmt.Errorf("access readback failed for %s: %w", u.id, err)
		}
		results = append(results, UserResult{
			UserID:    u.id,
			Archetype: u.archetype,
			Events:    u.events,
			Skills:    skills,
			Access:    access,
		})
	}

	stats.Duration = time.Since(stats.StartTime)
	printSummary(results, stats)
	return nil
}

// printSummary writes a human-readable run report to stdout.
func printSummary(results []UserResult, stats *Stats) {
	fmt.Println()
	fmt.Println("=== simulation summary ===")
	fmt.Printf("users: %d  events: %d  submitted ok: %d  failed: %d  took: %s\n",
		stats.UsersSimulated, stats.EventsGenerated, stats.EventsSuccessful,
		stats.EventsFailed, stats.Duration.Round(time.Millisecond))
	fmt.Println()

	for _, r := range results {
		granted := 0
		for _, d := range r.Access.Decisions {
			if d.Granted {
				granted++
			}
		}
		eta := "-"
		if r.Skills.DaysToNextLevel != nil {
			eta = fmt.Sprintf("%dd", *r.Skills.DaysToNextLevel)
		}
		fmt.Printf("%-32s %-12s events=%-5d overall=%-3d level=%-11s next=%-4s capabilities=%d/%d\n",
			r.UserID, r.Archetype, r.Events,
			r.Skills.Scores.Overall, r.Skills.Level, eta,
			granted, len(r.Access.Decisions))
	}
}
