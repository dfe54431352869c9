// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"caerus/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options tunes demo data generation.
type Options struct {
	// MaxDays spreads created_at timestamps over the last N days.
	MaxDays int
	// DryRun logs what would be created without writing to the database.
	DryRun bool
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	return &Factory{
		db:     db,
		opts:   opts,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		nextID: 1000,
	}
}

func (f *Factory) backdated() time.Time {
	daysBack := f.rng.Intn(f.opts.MaxDays)
	hoursBack := f.rng.Intn(24)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)
}

func (f *Factory) createUser(role models.Role) (*models.User, error) {
	user := &models.User{
		FirebaseUID: "seed-" + gofakeit.UUID(),
		Email:       gofakeit.Email(),
		Role:        role,
		AvatarURL:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		CreatedAt:   f.backdated(),
	}
	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] createUser: role=%s email=%s", role, user.Email)
		return user, nil
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateInvestor constructs and persists an investor account with its
// profile. Optional override functions may modify the profile before saving.
func (f *Factory) CreateInvestor(overrides ...func(*models.InvestorProfile)) (*models.User, error) {
	user, err := f.createUser(models.RoleInvestor)
	if err != nil {
		return nil, err
	}

	profile := &models.InvestorProfile{
		UserID:             user.ID,
		FullName:           gofakeit.Name(),
		FirmName:           gofakeit.Company() + " Capital",
		LinkedinURL:        "https://linkedin.com/in/" + gofakeit.Username(),
		FreeViewsRemaining: models.FreeViewAllotment,
	}
	for _, override := range overrides {
		override(profile)
	}

	if f.opts.DryRun {
		log.Printf("[dry-run] CreateInvestor: %s (%s)", profile.FullName, profile.FirmName)
		return user, nil
	}
	if err := f.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateFounderWithStartup constructs and persists a founder account, its
// profile, one startup and a published pitch.
func (f *Factory) CreateFounderWithStartup(overrides ...func(*models.Startup)) (*models.User, *models.Startup, error) {
	user, err := f.createUser(models.RoleFounder)
	if err != nil {
		return nil, nil, err
	}

	company := gofakeit.Company()
	profile := &models.FounderProfile{
		UserID:      user.ID,
		FullName:    gofakeit.Name(),
		CompanyName: company,
		LinkedinURL: "https://linkedin.com/in/" + gofakeit.Username(),
	}

	sectors := []string{"fintech", "climate", "healthtech", "devtools", "logistics", "consumer"}
	stages := []string{"pre-seed", "seed", "series-a"}
	startup := &models.Startup{
		FounderID:    user.ID,
		Name:         company,
		Tagline:      gofakeit.Sentence(6),
		Website:      "https://" + gofakeit.DomainName(),
		Sector:       sectors[f.rng.Intn(len(sectors))],
		Stage:        stages[f.rng.Intn(len(stages))],
		Location:     gofakeit.City(),
		RoundSizeMin: (1 + f.rng.Intn(5)) * 250_000,
	}
	startup.RoundSizeMax = startup.RoundSizeMin * 2
	for _, override := range overrides {
		override(startup)
	}

	if f.opts.DryRun {
		f.nextID++
		startup.ID = f.nextID
		log.Printf("[dry-run] CreateFounderWithStartup: %s (%s)", startup.Name, startup.Sector)
		return user, startup, nil
	}

	if err := f.db.Create(profile).Error; err != nil {
		return nil, nil, err
	}
	if err := f.db.Create(startup).Error; err != nil {
		return nil, nil, err
	}

	pitch := &models.Pitch{
		StartupID:       startup.ID,
		VideoURL:        fmt.Sprintf("pitches/%s-30s.mp4", gofakeit.UUID()),
		ThumbnailURL:    fmt.Sprintf("https://picsum.photos/seed/%s/640/360", gofakeit.UUID()),
		DurationSeconds: 20 + f.rng.Intn(11),
		Status:          models.PitchStatusPublished,
	}
	if err := f.db.Create(pitch).Error; err != nil {
		return nil, nil, err
	}
	return user, startup, nil
}

// CreateTalent constructs and persists an approved talent account with a
// published talent pitch, ready to appear in the browse feed.
func (f *Factory) CreateTalent(overrides ...func(*models.TalentProfile)) (*models.User, *models.TalentPitch, error) {
	user, err := f.createUser(models.RoleTalent)
	if err != nil {
		return nil, nil, err
	}

	profile := &models.TalentProfile{
		UserID:      user.ID,
		FullName:    gofakeit.Name(),
		LinkedinURL: "https://linkedin.com/in/" + gofakeit.Username(),
		Status:      models.TalentStatusApproved,
	}
	for _, override := range overrides {
		override(profile)
	}

	if f.opts.DryRun {
		log.Printf("[dry-run] CreateTalent: %s", profile.FullName)
		return user, nil, nil
	}
	if err := f.db.Create(profile).Error; err != nil {
		return nil, nil, err
	}

	titles := []string{
		"Founding engineer, ex-payments infra",
		"Full-stack generalist, 0-to-1 specialist",
		"ML engineer shipping production models",
		"Product-minded mobile developer",
		"Platform engineer, Kubernetes and Go",
	}
	pitch := &models.TalentPitch{
		TalentID: user.ID,
		VideoURL: fmt.Sprintf("talent/%s-intro.mp4", gofakeit.UUID()),
		Headline: titles[f.rng.Intn(len(titles))],
		Status:   models.PitchStatusPublished,
	}
	if err := f.db.Create(pitch).Error; err != nil {
		return nil, nil, err
	}
	return user, pitch, nil
}

// GiveSubscription grants the investor an active entitlement window.
func (f *Factory) GiveSubscription(investor *models.User, months int) error {
	if months <= 0 {
		months = 1
	}
	sub := &models.Subscription{
		InvestorID:         investor.ID,
		PlanType:           "monthly",
		AppleTransactionID: "seed-txn-" + gofakeit.UUID(),
		Status:             models.SubscriptionStatusActive,
		ExpiresAt:          time.Now().AddDate(0, months, 0),
	}
	if f.opts.DryRun {
		log.Printf("[dry-run] GiveSubscription: investor=%d months=%d", investor.ID, months)
		return nil
	}
	return f.db.Create(sub).Error
}
