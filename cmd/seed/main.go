// Command seed fills a development database with plausible league data:
// branches, users, athletes, one published event with modalities and heats,
// registrations, fees, and a first round of scores.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"golang.org/x/crypto/bcrypt"

	eventservice "github.com/placar-app/placar-backend/app/modules/event/application"
	eventdb "github.com/placar-app/placar-backend/app/modules/event/infrastructure/repositories"
	paymentdb "github.com/placar-app/placar-backend/app/modules/payment/infrastructure/repositories"
	scoredomain "github.com/placar-app/placar-backend/app/modules/score/domain"
	"github.com/placar-app/placar-backend/app/modules/score/domain/scorevalue"
	scoredb "github.com/placar-app/placar-backend/app/modules/score/infrastructure/repositories"
	userdb "github.com/placar-app/placar-backend/app/modules/user/infrastructure/repositories"
	"github.com/placar-app/placar-backend/config"
	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

const (
	branchCount       = 3
	athletesPerBranch = 8
	heatCount         = 3
	seedPassword      = "placar-dev"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	seed := flag.Uint64("seed", 42, "Deterministic seed for generated data")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	faker := gofakeit.New(*seed)

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	ctx := context.Background()
	if err := run(ctx, db, faker); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	fmt.Println("seeding complete")
}

func run(ctx context.Context, db *bun.DB, faker *gofakeit.Faker) error {
	users := &userdb.UserDBImpl{DB: db}
	events := &eventdb.EventDBImpl{DB: db}
	scores := &scoredb.ScoreDBImpl{DB: db}
	payments := &paymentdb.PaymentDBImpl{DB: db}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	admin := &userdb.User{
		ID:           uuid.New(),
		Name:         "Admin",
		Email:        "admin@placar.dev",
		PasswordHash: string(passwordHash),
		Role:         userdb.RoleAdmin,
	}
	if err := users.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	var branches []*userdb.Branch
	var judges []*userdb.User
	var athletes []*userdb.Athlete

	for i := 0; i < branchCount; i++ {
		branch := &userdb.Branch{
			ID:     uuid.New(),
			Name:   faker.City(),
			Region: faker.State(),
		}
		if err := users.CreateBranch(ctx, branch); err != nil {
			return fmt.Errorf("failed to create branch: %w", err)
		}
		branches = append(branches, branch)

		judge := &userdb.User{
			ID:           uuid.New(),
			Name:         faker.Name(),
			Email:        fmt.Sprintf("judge%d@placar.dev", i+1),
			PasswordHash: string(passwordHash),
			Role:         userdb.RoleJudge,
			BranchID:     &branch.ID,
		}
		if err := users.CreateUser(ctx, judge); err != nil {
			return fmt.Errorf("failed to create judge: %w", err)
		}
		judges = append(judges, judge)

		for j := 0; j < athletesPerBranch; j++ {
			birth := faker.DateRange(
				time.Date(1985, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2010, 12, 31, 0, 0, 0, 0, time.UTC),
			)
			athlete := &userdb.Athlete{
				ID:        uuid.New(),
				BranchID:  branch.ID,
				Name:      faker.Name(),
				BirthDate: &birth,
				Gender:    faker.RandomString([]string{"female", "male"}),
			}
			if err := users.CreateAthlete(ctx, athlete); err != nil {
				return fmt.Errorf("failed to create athlete: %w", err)
			}
			athletes = append(athletes, athlete)
		}
	}

	starts := time.Now().AddDate(0, 0, 14)
	ends := starts.AddDate(0, 0, 2)
	eventName := fmt.Sprintf("Campeonato %s %d", branches[0].Region, time.Now().Year())
	event := &eventdb.Event{
		ID:       uuid.New(),
		Name:     eventName,
		Slug:     eventservice.Slugify(eventName),
		StartsAt: &starts,
		EndsAt:   &ends,
		Status:   eventdb.EventPublished,
	}
	if err := events.CreateEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	sprint := &eventdb.Modality{
		ID:      uuid.New(),
		EventID: event.ID,
		Name:    "100m Sprint",
	}
	if err := events.CreateModality(ctx, sprint); err != nil {
		return fmt.Errorf("failed to create modality: %w", err)
	}
	relay := &eventdb.Modality{
		ID:       uuid.New(),
		EventID:  event.ID,
		Name:     "4x100m Relay",
		TeamSize: 4,
	}
	if err := events.CreateModality(ctx, relay); err != nil {
		return fmt.Errorf("failed to create modality: %w", err)
	}

	template, err := seedTemplate(ctx, scores, sprint.ID)
	if err != nil {
		return err
	}
	if err := events.SetModalityTemplate(ctx, sprint.ID, template.ID); err != nil {
		return fmt.Errorf("failed to assign template: %w", err)
	}

	var heats []*eventdb.Heat
	for n := 1; n <= heatCount; n++ {
		at := starts.Add(time.Duration(n) * time.Hour)
		heat := &eventdb.Heat{
			ID:          uuid.New(),
			ModalityID:  sprint.ID,
			Number:      n,
			ScheduledAt: &at,
		}
		if err := events.CreateHeat(ctx, heat); err != nil {
			return fmt.Errorf("failed to create heat: %w", err)
		}
		heats = append(heats, heat)
	}

	fee := &paymentdb.FeeConfig{
		ID:          uuid.New(),
		EventID:     event.ID,
		AmountCents: 5000,
		Currency:    "BRL",
		DueAt:       &starts,
	}
	if err := payments.UpsertFeeConfig(ctx, fee); err != nil {
		return fmt.Errorf("failed to create fee config: %w", err)
	}

	for _, athlete := range athletes {
		reg := &userdb.Registration{
			ID:         uuid.New(),
			AthleteID:  athlete.ID,
			ModalityID: sprint.ID,
			EventID:    event.ID,
			Status:     userdb.RegistrationConfirmed,
		}
		if err := users.CreateRegistration(ctx, reg); err != nil {
			return fmt.Errorf("failed to register athlete: %w", err)
		}

		status := &paymentdb.FeeStatus{
			ID:             uuid.New(),
			RegistrationID: reg.ID,
			EventID:        event.ID,
			AthleteID:      athlete.ID,
			Paid:           faker.Bool(),
		}
		if status.Paid {
			paidAt := time.Now().AddDate(0, 0, -faker.Number(1, 10))
			status.PaidAt = &paidAt
		}
		if err := payments.UpsertFeeStatus(ctx, status); err != nil {
			return fmt.Errorf("failed to track fee: %w", err)
		}
	}

	// First heat results so the leaderboard has something to rank.
	judge := judges[0]
	for _, athlete := range athletes {
		millis := faker.Number(10500, 14900)
		formatted := formatSprintTime(millis)
		score := &scoredb.Score{
			ID:         uuid.New(),
			AthleteID:  athlete.ID,
			ModalityID: sprint.ID,
			EventID:    event.ID,
			JudgeID:    judge.ID,
			TemplateID: template.ID,
			HeatID:     &heats[0].ID,
			MainValue:  float64(millis),
			FormData:   map[string]string{"time": formatted},
		}
		if err := scores.InsertScore(ctx, nil, score); err != nil {
			return fmt.Errorf("failed to insert score: %w", err)
		}
		attempt := scoredb.Attempt{
			ID:             uuid.New(),
			ScoreID:        score.ID,
			FieldKey:       "time",
			Value:          float64(millis),
			FormattedValue: formatted,
		}
		if err := scores.ReplaceAttempts(ctx, nil, sharedtypes.ScoreID(score.ID), []scoredb.Attempt{attempt}); err != nil {
			return fmt.Errorf("failed to insert attempt: %w", err)
		}
	}

	return nil
}

func seedTemplate(ctx context.Context, scores scoredb.Repository, modalityID uuid.UUID) (*scoredb.ScoringTemplate, error) {
	template := &scoredb.ScoringTemplate{
		ID:         uuid.New(),
		ModalityID: modalityID,
		Name:       "Sprint Timing",
	}
	fields := []scoredb.ScoringField{
		{
			ID:           uuid.New(),
			TemplateID:   template.ID,
			FieldKey:     "time",
			Label:        "Time",
			InputKind:    string(scoredomain.InputNumber),
			Required:     true,
			DisplayOrder: 1,
			Metadata: scoredomain.FieldMetadata{
				Format:    scorevalue.FormatTime,
				SortOrder: scoredomain.SortAscending,
			},
		},
		{
			ID:           uuid.New(),
			TemplateID:   template.ID,
			FieldKey:     "heat_rank",
			Label:        "Heat Placement",
			InputKind:    string(scoredomain.InputCalculated),
			DisplayOrder: 2,
			Metadata: scoredomain.FieldMetadata{
				CalculationType: scoredomain.CalcHeatPlacement,
				ReferenceField:  "time",
				SortOrder:       scoredomain.SortAscending,
			},
		},
	}
	if err := scores.CreateTemplate(ctx, nil, template, fields); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return template, nil
}

func formatSprintTime(millis int) string {
	secs := millis / 1000
	return fmt.Sprintf("%02d:%02d.%03d", secs/60, secs%60, millis%1000)
}
