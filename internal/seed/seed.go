package seed

import (
	"context"
	"fmt"
	"log"

	"caerus/internal/ledger"
	"caerus/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Seeder populates the database with a coherent demo marketplace. Demo
// engagement goes through the ledger so seeded threads and counters always
// satisfy the same invariants as live traffic.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	ledger  *ledger.Ledger
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{
		db:      db,
		factory: NewFactory(db, opts),
		ledger:  ledger.New(db, nil),
	}
}

// Factory exposes the underlying factory for presets and tests.
func (s *Seeder) Factory() *Factory {
	return s.factory
}

// ClearAll removes all seeded data. Tables are emptied children first so
// foreign keys never dangle.
func (s *Seeder) ClearAll() error {
	tables := []string{
		"qa_messages", "qa_threads",
		"talent_qa_messages", "talent_qa_threads",
		"pitch_views", "talent_pitch_views",
		"pitches", "talent_pitches",
		"support_messages", "support_tickets",
		"question_templates", "subscriptions", "pitch_unlocks",
		"startups",
		"founder_profiles", "investor_profiles", "talent_profiles",
		"users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	log.Println("✓ Cleared existing data")
	return nil
}

// SeedMarketplace creates founders with published pitches, investors, talent
// and a spread of Q&A activity between them.
func (s *Seeder) SeedMarketplace(numFounders, numInvestors, numTalent int) error {
	ctx := context.Background()

	type founderEntry struct {
		user    *models.User
		startup *models.Startup
	}

	founders := make([]founderEntry, 0, numFounders)
	for i := 0; i < numFounders; i++ {
		user, startup, err := s.factory.CreateFounderWithStartup()
		if err != nil {
			return fmt.Errorf("create founder: %w", err)
		}
		founders = append(founders, founderEntry{user: user, startup: startup})
	}
	log.Printf("✓ Created %d founders with published pitches", len(founders))

	investors := make([]*models.User, 0, numInvestors)
	for i := 0; i < numInvestors; i++ {
		investor, err := s.factory.CreateInvestor()
		if err != nil {
			return fmt.Errorf("create investor: %w", err)
		}
		// Roughly every fourth investor is a paying subscriber.
		if i%4 == 3 {
			if err := s.factory.GiveSubscription(investor, 1); err != nil {
				return fmt.Errorf("give subscription: %w", err)
			}
		}
		investors = append(investors, investor)
	}
	log.Printf("✓ Created %d investors", len(investors))

	for i := 0; i < numTalent; i++ {
		if _, _, err := s.factory.CreateTalent(); err != nil {
			return fmt.Errorf("create talent: %w", err)
		}
	}
	log.Printf("✓ Created %d approved talent profiles", numTalent)

	// Each investor opens a thread with a couple of founders. Declines and
	// connects are sprinkled in so the inbox shows every lifecycle state.
	threads := 0
	for i, investor := range investors {
		for j := 0; j < 2 && j < len(founders); j++ {
			entry := founders[(i+j)%len(founders)]
			questions := []string{
				gofakeit.Question(),
				gofakeit.Question(),
			}
			threadID, err := s.ledger.CreateOrReuseThread(
				ctx, investor.ID, entry.user.ID, entry.startup.ID, questions)
			if err != nil {
				return fmt.Errorf("create thread: %w", err)
			}
			threads++

			if _, err := s.ledger.AppendMessage(
				ctx, threadID, entry.user.ID, gofakeit.Sentence(12)); err != nil {
				return fmt.Errorf("founder reply: %w", err)
			}

			switch (i + j) % 3 {
			case 0:
				if _, err := s.ledger.TransitionStatus(
					ctx, threadID, investor.ID, models.ThreadEventConnect, ""); err != nil {
					return fmt.Errorf("connect thread: %w", err)
				}
			case 1:
				if _, err := s.ledger.TransitionStatus(
					ctx, threadID, investor.ID, models.ThreadEventDecline,
					"Too early for our fund, keep us posted."); err != nil {
					return fmt.Errorf("decline thread: %w", err)
				}
			}
		}
	}
	log.Printf("✓ Created %d Q&A threads with replies and decisions", threads)
	return nil
}
