package services_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/bionicotaku/lingo-services-person/internal/models/po"
	"github.com/bionicotaku/lingo-services-person/internal/repositories"
	"github.com/bionicotaku/lingo-services-person/internal/services"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubRepo struct {
	persons []*po.Person
	err     error
	lastID  primitive.ObjectID
	patch   po.PersonPatch
}

func (r *stubRepo) Insert(_ context.Context, person *po.Person) (primitive.ObjectID, error) {
	if r.err != nil {
		return primitive.NilObjectID, r.err
	}
	p := *person
	p.ID = primitive.NewObjectID()
	r.persons = append(r.persons, &p)
	return p.ID, nil
}

func (r *stubRepo) FindByID(_ context.Context, id primitive.ObjectID) (*po.Person, error) {
	r.lastID = id
	if r.err != nil {
		return nil, r.err
	}
	for _, p := range r.persons {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repositories.ErrPersonNotFound
}

func (r *stubRepo) FindByField(_ context.Context, field, value string) (*po.Person, error) {
	if r.err != nil {
		return nil, r.err
	}
	if field != po.FieldName {
		return nil, repositories.ErrUnsupportedField
	}
	for _, p := range r.persons {
		if p.Name == value {
			return p, nil
		}
	}
	return nil, repositories.ErrPersonNotFound
}

func (r *stubRepo) FindAll(context.Context) ([]*po.Person, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.persons, nil
}

func (r *stubRepo) Update(_ context.Context, id primitive.ObjectID, patch po.PersonPatch) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	r.patch = patch
	for _, p := range r.persons {
		if p.ID == id {
			patch.Apply(p)
			return true, nil
		}
	}
	return false, nil
}

func (r *stubRepo) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	for i, p := range r.persons {
		if p.ID == id {
			r.persons = append(r.persons[:i], r.persons[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *stubRepo) Count(context.Context) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.persons)), nil
}

func mustOID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(hex)
	require.NoError(t, err)
	return id
}

func fixture(t *testing.T) *stubRepo {
	t.Helper()
	return &stubRepo{persons: []*po.Person{
		{ID: mustOID(t, "5889273c093d1c3e614bf2f9"), Name: "MONCEF", BirthDate: po.NewDate(1993, 1, 18), Status: po.PersonStatusLiving},
		{ID: mustOID(t, "5889273c093d1c3e614bf2fa"), Name: "LOÏC", BirthDate: po.NewDate(1988, 6, 19), Status: po.PersonStatusLiving},
	}}
}

func newService(repo services.PersonRepo) *services.PersonService {
	return services.NewPersonService(repo, log.NewStdLogger(io.Discard))
}

func requireReason(t *testing.T, err error, code int, reason string) {
	t.Helper()
	require.Error(t, err)
	ke := kerrors.FromError(err)
	assert.EqualValues(t, code, ke.Code)
	assert.Equal(t, reason, ke.Reason)
}

func TestPersonService_Get(t *testing.T) {
	svc := newService(fixture(t))

	person, err := svc.Get(context.Background(), "5889273c093d1c3e614bf2fa")
	require.NoError(t, err)
	assert.Equal(t, "5889273c093d1c3e614bf2fa", person.ID)
	assert.Equal(t, "LOÏC", person.Name)
	assert.Equal(t, "1988-06-19", person.BirthDate.String())
	assert.Equal(t, po.PersonStatusLiving, person.Status)

	_, err = svc.Get(context.Background(), "5889273c093d1c3e614bf2ff")
	requireReason(t, err, 404, services.ReasonPersonNotFound)

	_, err = svc.Get(context.Background(), "not-an-id")
	requireReason(t, err, 400, services.ReasonPersonIDInvalid)
}

func TestPersonService_ListAndCount(t *testing.T) {
	svc := newService(fixture(t))

	persons, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, persons, 2)
	assert.Equal(t, "MONCEF", persons[0].Name)

	n, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	empty, err := newService(&stubRepo{}).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestPersonService_SearchByName(t *testing.T) {
	svc := newService(fixture(t))

	person, err := svc.SearchByName(context.Background(), "MONCEF")
	require.NoError(t, err)
	assert.Equal(t, "5889273c093d1c3e614bf2f9", person.ID)

	_, err = svc.SearchByName(context.Background(), "moncef")
	requireReason(t, err, 404, services.ReasonPersonNotFound)
}

func TestPersonService_Create(t *testing.T) {
	repo := fixture(t)
	svc := newService(repo)

	preset := primitive.NewObjectID()
	created, err := svc.Create(context.Background(), po.Person{
		ID:        preset,
		Name:      "ADA",
		BirthDate: po.NewDate(1815, 12, 10),
		Status:    po.PersonStatusDeceased,
	})
	require.NoError(t, err)
	assert.NotEqual(t, preset.Hex(), created.ID)
	assert.Len(t, created.ID, 24)
	assert.Equal(t, "ADA", created.Name)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = svc.Create(context.Background(), po.Person{Name: "X", Status: "UNKNOWN"})
	requireReason(t, err, 400, services.ReasonPersonPayload)
}

func TestPersonService_Update(t *testing.T) {
	repo := fixture(t)
	svc := newService(repo)

	name := "MONCEF B."
	require.NoError(t, svc.Update(context.Background(), "5889273c093d1c3e614bf2f9", po.PersonPatch{Name: &name}))

	got, err := svc.Get(context.Background(), "5889273c093d1c3e614bf2f9")
	require.NoError(t, err)
	assert.Equal(t, "MONCEF B.", got.Name)
	assert.Equal(t, "1993-01-18", got.BirthDate.String())
	assert.Equal(t, po.PersonStatusLiving, got.Status)

	err = svc.Update(context.Background(), "5889273c093d1c3e614bf2ff", po.PersonPatch{Name: &name})
	requireReason(t, err, 404, services.ReasonPersonNotFound)

	err = svc.Update(context.Background(), "xyz", po.PersonPatch{})
	requireReason(t, err, 400, services.ReasonPersonIDInvalid)

	bad := po.PersonStatus("ZOMBIE")
	err = svc.Update(context.Background(), "5889273c093d1c3e614bf2f9", po.PersonPatch{Status: &bad})
	requireReason(t, err, 400, services.ReasonPersonPayload)
}

func TestPersonService_Delete(t *testing.T) {
	svc := newService(fixture(t))
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "5889273c093d1c3e614bf2fa"))

	_, err := svc.Get(ctx, "5889273c093d1c3e614bf2fa")
	requireReason(t, err, 404, services.ReasonPersonNotFound)

	err = svc.Delete(ctx, "5889273c093d1c3e614bf2fa")
	requireReason(t, err, 404, services.ReasonPersonNotFound)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestPersonService_StoreErrors(t *testing.T) {
	ctx := context.Background()

	failing := newService(&stubRepo{err: errors.New("connection reset")})
	_, err := failing.List(ctx)
	requireReason(t, err, 500, services.ReasonPersonStoreFailed)
	assert.ErrorContains(t, errors.Unwrap(err), "connection reset")

	slow := newService(&stubRepo{err: context.DeadlineExceeded})
	_, err = slow.Count(ctx)
	requireReason(t, err, 504, services.ReasonPersonStoreTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
