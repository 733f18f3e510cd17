package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mauv0809/touchline/internal/database"
	"github.com/mauv0809/touchline/internal/matchlog"
	"github.com/mauv0809/touchline/internal/matchstore"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"DB_NAME", "TEAM_ID"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	// Turso is optional; empty values mean a local database.
	config["TURSO_PRIMARY_URL"] = os.Getenv("TURSO_PRIMARY_URL")
	config["TURSO_AUTH_TOKEN"] = os.Getenv("TURSO_AUTH_TOKEN")
	return config
}

var opponents = []string{"FC Rival", "BK Syd", "IF Norra", "Parkens IK", "Hamnstadens FF"}

var positions = []string{"leftDefender", "rightDefender", "leftMidfielder", "rightMidfielder", "striker"}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()
	defer db.Close()

	store := matchstore.New(db)
	teamID := cfg["TEAM_ID"]

	const numMatches = 25
	log.Info("Inserting demo match logs...", "total", numMatches)
	startTime := time.Now()

	for i := 0; i < numMatches; i++ {
		matchID := uuid.NewString()
		opponent := opponents[rand.Intn(len(opponents))]
		kickoff := time.Now().Add(-time.Duration(rand.Intn(90*24)) * time.Hour).UnixMilli()

		events := demoLog(kickoff)
		if err := store.UpsertLog(matchID, teamID, opponent, events); err != nil {
			log.Fatalf("Failed to insert demo match %s: %s", matchID, err)
		}
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all demo match logs.", "duration", duration)
}

// demoLog builds a plausible two-period match: kickoff formation, a halftime
// pause, a couple of substitutions and a random scoreline.
func demoLog(kickoff int64) []matchlog.Event {
	formation := map[string]string{"goalie": "player-1"}
	for _, pos := range positions {
		formation[pos] = uuid.NewString()[:8]
	}

	var events []matchlog.Event
	seq := int64(1)
	add := func(eventType matchlog.EventType, offset int64, period int, payload any) {
		ev, err := matchlog.NewEvent(eventType, kickoff+offset, seq, period, payload)
		if err != nil {
			log.Fatalf("Failed to build demo event: %s", err)
		}
		events = append(events, ev)
		seq++
	}

	add(matchlog.EventMatchStart, 0, 1, matchlog.MatchStartData{StartingFormation: formation})

	// First period with a goal somewhere in the middle.
	add(matchlog.EventGoalScored, int64(rand.Intn(20*60))*1000, 1, matchlog.GoalData{ScorerID: formation["striker"]})
	add(matchlog.EventTimerPaused, 20*60*1000, 1, nil)
	add(matchlog.EventTimerResumed, 25*60*1000, 2, nil)

	// A substitution early in the second period.
	add(matchlog.EventSubstitution, 27*60*1000, 2, matchlog.SubstitutionData{
		PlayersOff: []string{formation["leftDefender"]},
		PlayersOn:  []string{uuid.NewString()[:8]},
		NewRoles:   map[string]string{},
	})
	if rand.Intn(2) == 0 {
		add(matchlog.EventGoalConceded, int64(25*60+rand.Intn(15*60))*1000, 2, nil)
	}

	add(matchlog.EventMatchEnd, 45*60*1000, 2, nil)
	return events
}
