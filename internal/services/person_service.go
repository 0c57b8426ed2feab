package services

import (
	"context"
	"fmt"

	"github.com/bionicotaku/lingo-services-person/internal/models/po"
	"github.com/bionicotaku/lingo-services-person/internal/models/vo"
	"github.com/bionicotaku/lingo-services-person/internal/repositories"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PersonRepo 定义人员用例所需的存储访问接口。
type PersonRepo interface {
	Insert(ctx context.Context, person *po.Person) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*po.Person, error)
	FindByField(ctx context.Context, field, value string) (*po.Person, error)
	FindAll(ctx context.Context) ([]*po.Person, error)
	Update(ctx context.Context, id primitive.ObjectID, patch po.PersonPatch) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// PersonService 封装人员资源的 CRUD 用例，每个方法只访问一次存储。
type PersonService struct {
	repo PersonRepo
	log  *log.Helper
}

// NewPersonService 构造人员服务。
func NewPersonService(repo PersonRepo, logger log.Logger) *PersonService {
	return &PersonService{
		repo: repo,
		log:  log.NewHelper(log.With(logger, "module", "service.person")),
	}
}

// List 返回存储顺序下的全部人员；空集合返回空切片。
func (s *PersonService) List(ctx context.Context) ([]*vo.Person, error) {
	persons, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, s.storeError(ctx, "list persons", err)
	}
	return vo.NewPersons(persons), nil
}

// Get 按标识查询人员。
func (s *PersonService) Get(ctx context.Context, rawID string) (*vo.Person, error) {
	id, err := repositories.ParseID(rawID)
	if err != nil {
		return nil, ErrPersonIDInvalid.WithCause(err)
	}
	person, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError(ctx, "get person "+rawID, err)
	}
	return vo.NewPerson(person), nil
}

// SearchByName 返回第一个 name 完全相等的人员。
func (s *PersonService) SearchByName(ctx context.Context, name string) (*vo.Person, error) {
	person, err := s.repo.FindByField(ctx, po.FieldName, name)
	if err != nil {
		return nil, s.storeError(ctx, "search person by name", err)
	}
	return vo.NewPerson(person), nil
}

// Count 返回人员总数。
func (s *PersonService) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, s.storeError(ctx, "count persons", err)
	}
	return n, nil
}

// Create 写入新人员并返回带存储生成标识的视图；输入中的 ID 被忽略。
func (s *PersonService) Create(ctx context.Context, person po.Person) (*vo.Person, error) {
	if person.Status != "" && !person.Status.Valid() {
		return nil, ErrPayloadInvalid(fmt.Sprintf("status %q is not one of LIVING, DECEASED", person.Status))
	}
	person.ID = primitive.NilObjectID
	id, err := s.repo.Insert(ctx, &person)
	if err != nil {
		return nil, s.storeError(ctx, "create person", err)
	}
	person.ID = id
	s.log.WithContext(ctx).Infof("person created: id=%s", id.Hex())
	return vo.NewPerson(&person), nil
}

// Update 把补丁合并到目标人员；补丁中缺失的字段保持原值。
func (s *PersonService) Update(ctx context.Context, rawID string, patch po.PersonPatch) error {
	id, err := repositories.ParseID(rawID)
	if err != nil {
		return ErrPersonIDInvalid.WithCause(err)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return ErrPayloadInvalid(fmt.Sprintf("status %q is not one of LIVING, DECEASED", *patch.Status))
	}
	matched, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return s.storeError(ctx, "update person "+rawID, err)
	}
	if !matched {
		return ErrPersonNotFound
	}
	s.log.WithContext(ctx).Infof("person updated: id=%s", rawID)
	return nil
}

// Delete 删除目标人员；重复删除返回 NotFound。
func (s *PersonService) Delete(ctx context.Context, rawID string) error {
	id, err := repositories.ParseID(rawID)
	if err != nil {
		return ErrPersonIDInvalid.WithCause(err)
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return s.storeError(ctx, "delete person "+rawID, err)
	}
	if !deleted {
		return ErrPersonNotFound
	}
	s.log.WithContext(ctx).Infof("person deleted: id=%s", rawID)
	return nil
}

// storeError 把仓储错误映射为 kratos 错误。
//
//   - repositories.ErrPersonNotFound → 404 PERSON_NOT_FOUND
//   - repositories.ErrUnsupportedField → 400 PERSON_PAYLOAD_INVALID
//   - context.DeadlineExceeded → 504 PERSON_STORE_TIMEOUT
//   - 其余 → 500 PERSON_STORE_FAILED
func (s *PersonService) storeError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrPersonNotFound):
		return ErrPersonNotFound
	case errors.Is(err, repositories.ErrUnsupportedField):
		return ErrPayloadInvalid(err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		s.log.WithContext(ctx).Warnf("%s timeout: err=%v", op, err)
		return errors.GatewayTimeout(ReasonPersonStoreTimeout, "store timeout").WithCause(fmt.Errorf("%s: %w", op, err))
	default:
		s.log.WithContext(ctx).Errorf("%s failed: err=%v", op, err)
		return errors.InternalServer(ReasonPersonStoreFailed, "store operation failed").WithCause(fmt.Errorf("%s: %w", op, err))
	}
}
