//go:build integration_test || all_tests

package workouts_test

import (
	"context"
	"fmt"
	"log"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/suite"

	"github.com/2beens/ridesmap/internal/db"
	"github.com/2beens/ridesmap/internal/workouts"
)

type RepoTestSuite struct {
	suite.Suite

	ctx        context.Context
	dockerPool *dockertest.Pool
	pgResource *dockertest.Resource
	pool       *pgxpool.Pool
	repo       *workouts.Repo
}

func TestRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RepoTestSuite))
}

func (s *RepoTestSuite) SetupSuite() {
	s.ctx = context.Background()

	var err error
	s.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not create new dockertest pool: %s", err)
	}
	if err = s.dockerPool.Client.Ping(); err != nil {
		log.Fatalf("could not ping dockertest pool: %s", err)
	}

	s.pgResource, err = s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=ridesmap",
			"POSTGRES_HOST_AUTH_METHOD=trust",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("dockerpool run postgres: %s", err)
	}

	if err := s.dockerPool.Retry(func() error {
		pool, err := db.NewDBPool(s.ctx, db.NewDBPoolParams{
			DBHost: "localhost",
			DBPort: s.pgResource.GetPort("5432/tcp"),
			DBName: "ridesmap",
		})
		if err != nil {
			return err
		}
		if err := pool.Ping(s.ctx); err != nil {
			pool.Close()
			return err
		}
		s.pool = pool
		return nil
	}); err != nil {
		s.TearDownSuite()
		log.Fatalf("connect to db: %s", err)
	}

	if err := db.EnsureSchema(s.ctx, s.pool); err != nil {
		s.TearDownSuite()
		log.Fatalf("ensure schema: %s", err)
	}

	s.repo = workouts.NewRepo(s.pool)
}

func (s *RepoTestSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.pgResource != nil {
		if err := s.pgResource.Close(); err != nil {
			fmt.Printf("postgres teardown: %s\n", err)
		}
	}
}

func (s *RepoTestSuite) SetupTest() {
	_, err := s.repo.DeleteAll(s.ctx, 0)
	s.Require().NoError(err)
}

func (s *RepoTestSuite) fakeRecords(n int, activity string) []*workouts.CustomWorkout {
	records := make([]*workouts.CustomWorkout, 0, n)
	for i := 0; i < n; i++ {
		start := gofakeit.DateRange(
			time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		).Truncate(time.Second).UTC()
		records = append(records, testRecord(
			workouts.WorkoutID(start, time.UTC),
			activity,
			gofakeit.Float64Range(500, 80000),
			gofakeit.Float64Range(0, 1500),
			start,
		))
	}
	return records
}

func (s *RepoTestSuite) TestUpsertAndGet() {
	record := s.fakeRecords(1, "Bike Ride")[0]
	s.Require().NoError(s.repo.Upsert(s.ctx, record))
	s.False(record.CreatedAt.IsZero())

	got, err := s.repo.Get(s.ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(record.Title, got.Title)
	s.Equal(record.Route.Distance, got.Route.Distance)
	s.True(record.Workout.StartDatetime.Equal(got.Workout.StartDatetime))
	s.Len(got.GeoJSON.Features, 1)

	record.PathHasIssue = true
	record.Title = "renamed"
	s.Require().NoError(s.repo.Upsert(s.ctx, record))

	got, err = s.repo.Get(s.ctx, record.ID)
	s.Require().NoError(err)
	s.True(got.PathHasIssue)
	s.Equal("renamed", got.Title)

	_, err = s.repo.Get(s.ctx, "workout-missing")
	s.ErrorIs(err, workouts.ErrWorkoutNotFound)

	existing, err := s.repo.GetExisting(s.ctx, "workout-missing")
	s.NoError(err)
	s.Nil(existing)
}

func (s *RepoTestSuite) TestListCountAndBatches() {
	records := append(s.fakeRecords(7, "Bike Ride"), s.fakeRecords(4, "Walk")...)
	records[0].PathHasIssue = true
	for _, r := range records {
		s.Require().NoError(s.repo.Upsert(s.ctx, r))
	}

	count, err := s.repo.Count(s.ctx, workouts.ListParams{})
	s.Require().NoError(err)
	s.Equal(11, count)

	count, err = s.repo.Count(s.ctx, workouts.ListParams{OnlyValid: true})
	s.Require().NoError(err)
	s.Equal(10, count)

	walks, err := s.repo.List(s.ctx, workouts.ListParams{Activities: []string{"Walk"}})
	s.Require().NoError(err)
	s.Len(walks, 4)

	page, err := s.repo.List(s.ctx, workouts.ListParams{Offset: 8, Limit: 5})
	s.Require().NoError(err)
	s.Len(page, 3)
	for i := 1; i < len(page); i++ {
		s.False(page[i].StartedAt().Before(page[i-1].StartedAt()))
	}

	var seen []string
	var totals []int
	err = s.repo.Batches(s.ctx, 4, true, func(batch []*workouts.CustomWorkout, total int) error {
		for _, r := range batch {
			seen = append(seen, r.ID)
		}
		totals = append(totals, total)
		return nil
	})
	s.Require().NoError(err)
	s.Len(seen, 10)
	s.Equal([]int{10, 10, 10}, totals)
	s.NotContains(seen, records[0].ID)
}

func (s *RepoTestSuite) TestLayersDistancesAndFlags() {
	bikes := s.fakeRecords(3, "Bike Ride")
	runs := s.fakeRecords(2, "Run")
	for _, r := range append(bikes, runs...) {
		s.Require().NoError(s.repo.Upsert(s.ctx, r))
	}

	bikeLayer, _ := workouts.LayerByKey("bike")
	layerRecords, err := s.repo.ListByLayer(s.ctx, bikeLayer)
	s.Require().NoError(err)
	s.Len(layerRecords, 3)

	counts, err := s.repo.CountByActivity(s.ctx)
	s.Require().NoError(err)
	s.Equal(map[string]int{"Bike Ride": 3, "Run": 2}, counts)

	s.Require().NoError(s.repo.SetPathIssue(s.ctx, runs[0].ID, true))
	s.ErrorIs(s.repo.SetPathIssue(s.ctx, "workout-missing", true), workouts.ErrWorkoutNotFound)

	distances, err := s.repo.RouteDistances(s.ctx, []string{"Run", "Walk"})
	s.Require().NoError(err)
	s.Equal([]float64{runs[1].DistanceMeters()}, distances)

	distances, err = s.repo.RouteDistances(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(distances)

	deleted, err := s.repo.DeleteAll(s.ctx, 2)
	s.Require().NoError(err)
	s.EqualValues(2, deleted)

	count, err := s.repo.Count(s.ctx, workouts.ListParams{})
	s.Require().NoError(err)
	s.Equal(3, count)
}
