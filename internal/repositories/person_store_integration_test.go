package repositories_test

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	loader "github.com/bionicotaku/lingo-services-person/internal/infrastructure/config_loader"
	"github.com/bionicotaku/lingo-services-person/internal/infrastructure/database"
	"github.com/bionicotaku/lingo-services-person/internal/models/po"
	"github.com/bionicotaku/lingo-services-person/internal/repositories"

	"github.com/docker/go-connections/nat"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMongoPersonStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skip integration in short mode")
	}
	t.Parallel()

	ctx := context.Background()
	uri, terminate := startMongo(ctx, t)
	t.Cleanup(terminate)

	data := &loader.Data{
		Driver: loader.DriverMongoDB,
		MongoDB: loader.MongoDB{
			URI:            uri,
			Database:       "person",
			Collection:     "ThePerson",
			ConnectTimeout: loader.Duration(10 * time.Second),
		},
	}
	exercisePersonStore(ctx, t, data)
}

func TestPostgresPersonStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skip integration in short mode")
	}
	t.Parallel()

	ctx := context.Background()
	dsn, terminate := startPostgres(ctx, t)
	t.Cleanup(terminate)

	data := &loader.Data{
		Driver: loader.DriverPostgres,
		Postgres: loader.Postgres{
			DSN:          dsn,
			Table:        "persons",
			Schema:       "public",
			MaxOpenConns: 4,
		},
	}
	exercisePersonStore(ctx, t, data)
}

// exercisePersonStore 对两种驱动运行同一组行为断言。
func exercisePersonStore(ctx context.Context, t *testing.T, data *loader.Data) {
	t.Helper()
	logger := log.NewStdLogger(io.Discard)

	store, cleanup, err := database.NewStore(ctx, data, logger)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	require.NoError(t, store.Ping(ctx))

	persons, err := repositories.NewPersonStore(ctx, store, data, logger)
	require.NoError(t, err)
	require.NoError(t, persons.Ping(ctx))

	ds, err := repositories.LoadDataset(filepath.Join("..", "..", "testdata", "person-dataset.json"))
	require.NoError(t, err)

	n, err := persons.Import(ctx, ds)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	// 重复导入先清空，数量保持不变
	n, err = persons.Import(ctx, ds)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	count, err := persons.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	all, err := persons.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "MONCEF", all[0].Name)
	require.Equal(t, "5889273c093d1c3e614bf2f9", all[0].ID.Hex())
	require.Equal(t, po.NewDate(1993, time.January, 18), all[0].BirthDate)
	require.Equal(t, po.PersonStatusLiving, all[0].Status)

	moncefID, err := repositories.ParseID("5889273c093d1c3e614bf2f9")
	require.NoError(t, err)
	found, err := persons.FindByID(ctx, moncefID)
	require.NoError(t, err)
	require.Equal(t, "MONCEF", found.Name)

	byName, err := persons.FindByField(ctx, po.FieldName, "LOÏC")
	require.NoError(t, err)
	require.Equal(t, "5889273c093d1c3e614bf2fa", byName.ID.Hex())

	byStatus, err := persons.FindByField(ctx, po.FieldStatus, "DECEASED")
	require.NoError(t, err)
	require.Equal(t, "MARIE", byStatus.Name)

	_, err = persons.FindByField(ctx, po.FieldName, "NOBODY")
	require.ErrorIs(t, err, repositories.ErrPersonNotFound)

	_, err = persons.FindByField(ctx, "_id", "5889273c093d1c3e614bf2f9")
	require.ErrorIs(t, err, repositories.ErrUnsupportedField)

	created := &po.Person{
		Name:      "ADA",
		BirthDate: po.NewDate(1815, time.December, 10),
		Status:    po.PersonStatusDeceased,
	}
	newID, err := persons.Insert(ctx, created)
	require.NoError(t, err)
	require.False(t, newID.IsZero())

	fetched, err := persons.FindByID(ctx, newID)
	require.NoError(t, err)
	require.Equal(t, "ADA", fetched.Name)
	require.Equal(t, po.NewDate(1815, time.December, 10), fetched.BirthDate)

	count, err = persons.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 4, count)

	// 部分更新只改动出现的字段
	living := po.PersonStatusLiving
	matched, err := persons.Update(ctx, newID, po.PersonPatch{Status: &living})
	require.NoError(t, err)
	require.True(t, matched)

	fetched, err = persons.FindByID(ctx, newID)
	require.NoError(t, err)
	require.Equal(t, "ADA", fetched.Name)
	require.Equal(t, po.NewDate(1815, time.December, 10), fetched.BirthDate)
	require.Equal(t, po.PersonStatusLiving, fetched.Status)

	birth := po.NewDate(1816, time.January, 1)
	matched, err = persons.Update(ctx, newID, po.PersonPatch{BirthDate: &birth})
	require.NoError(t, err)
	require.True(t, matched)

	byBirth, err := persons.FindByField(ctx, po.FieldBirthDate, "1816-01-01")
	require.NoError(t, err)
	require.Equal(t, newID, byBirth.ID)

	matched, err = persons.Update(ctx, newID, po.PersonPatch{})
	require.NoError(t, err)
	require.True(t, matched)

	missing, err := repositories.ParseID("000000000000000000000001")
	require.NoError(t, err)
	matched, err = persons.Update(ctx, missing, po.PersonPatch{Status: &living})
	require.NoError(t, err)
	require.False(t, matched)

	_, err = persons.FindByID(ctx, missing)
	require.ErrorIs(t, err, repositories.ErrPersonNotFound)

	deleted, err := persons.Delete(ctx, newID)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = persons.Delete(ctx, newID)
	require.NoError(t, err)
	require.False(t, deleted)

	count, err = persons.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	n, err = persons.Import(ctx, &repositories.Dataset{})
	require.NoError(t, err)
	require.Zero(t, n)

	all, err = persons.FindAll(ctx)
	require.NoError(t, err)
	require.NotNil(t, all)
	require.Empty(t, all)
}

func startMongo(ctx context.Context, t *testing.T) (string, func()) {
	t.Helper()

	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Skipf("skip integration: cannot start mongo container: %v", err)
		return "", func() {}
	}

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	cleanup := func() {
		termCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = container.Terminate(termCtx)
	}
	return uri, cleanup
}

func startPostgres(ctx context.Context, t *testing.T) (string, func()) {
	t.Helper()

	port := nat.Port("5432/tcp")
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{string(port)},
		Env: map[string]string{
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_DB":       "person",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort(port),
		).WithDeadline(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("skip integration: cannot start postgres container: %v", err)
		return "", func() {}
	}

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mapped, err := container.MappedPort(ctx, port)
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://postgres:postgres@%s:%s/person?sslmode=disable", host, mapped.Port())
	cleanup := func() {
		termCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = container.Terminate(termCtx)
	}
	return dsn, cleanup
}
