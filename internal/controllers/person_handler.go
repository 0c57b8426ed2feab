package controllers

import (
	"context"
	nethttp "net/http"

	"github.com/bionicotaku/lingo-services-person/internal/controllers/dto"
	"github.com/bionicotaku/lingo-services-person/internal/models/vo"
	"github.com/bionicotaku/lingo-services-person/internal/services"
	"github.com/bionicotaku/lingo-services-person/internal/views"

	"github.com/go-kratos/kratos/v2/transport/http"
)

// Operation 名称，供中间件（metrics、tracing、logging）识别路由。
const (
	OperationPersonList   = "/lingo.person.v1.PersonService/List"
	OperationPersonGet    = "/lingo.person.v1.PersonService/Get"
	OperationPersonSearch = "/lingo.person.v1.PersonService/SearchByName"
	OperationPersonCount  = "/lingo.person.v1.PersonService/Count"
	OperationPersonCreate = "/lingo.person.v1.PersonService/Create"
	OperationPersonUpdate = "/lingo.person.v1.PersonService/Update"
	OperationPersonDelete = "/lingo.person.v1.PersonService/Delete"
)

// PersonsPath 是人员资源的根路径。
const PersonsPath = "/persons"

// PersonHandler 负责 /persons 下的 HTTP 路由。
type PersonHandler struct {
	*BaseHandler
	svc *services.PersonService
}

// NewPersonHandler 构造人员 Handler。
func NewPersonHandler(svc *services.PersonService, base *BaseHandler) *PersonHandler {
	if base == nil {
		base = NewBaseHandler(HandlerTimeouts{})
	}
	return &PersonHandler{BaseHandler: base, svc: svc}
}

// RegisterRoutes 在 kratos HTTP server 上注册路由。
// 字面路径 /count 与 /search/{name} 必须先于 /{id} 注册。
func (h *PersonHandler) RegisterRoutes(srv *http.Server) {
	r := srv.Route(PersonsPath)
	r.GET("/", h.list)
	r.GET("/count", h.count)
	r.GET("/search/{name}", h.search)
	r.POST("/", h.create)
	r.GET("/{id}", h.get)
	r.PUT("/{id}", h.update)
	r.DELETE("/{id}", h.delete)
}

// bindBody 解码 JSON 请求体；空请求体保持零值，缺省 Content-Type 按 JSON 处理。
func bindBody(ctx http.Context, v interface{}) error {
	req := ctx.Request()
	if req.Header.Get("Content-Type") == "" {
		if req.ContentLength == 0 {
			return nil
		}
		req.Header.Set("Content-Type", "application/json")
	}
	return ctx.Bind(v)
}

type idRequest struct {
	ID string
}

type updateRequest struct {
	ID   string
	Body dto.PersonDTO
}

func (h *PersonHandler) list(ctx http.Context) error {
	http.SetOperation(ctx, OperationPersonList)
	m := ctx.Middleware(func(ctx context.Context, _ interface{}) (interface{}, error) {
		callCtx, cancel := h.Prepare(ctx, HandlerTypeQuery)
		defer cancel()
		return h.svc.List(callCtx)
	})
	out, err := m(ctx, nil)
	if err != nil {
		return err
	}
	return ctx.Result(nethttp.StatusOK, views.NewPersons(out.([]*vo.Person)))
}

func (h *PersonHandler) get(ctx http.Context) error {
	in := &idRequest{ID: ctx.Vars().Get("id")}
	http.SetOperation(ctx, OperationPersonGet)
	m := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		callCtx, cancel := h.Prepare(ctx, HandlerTypeQuery)
		defer cancel()
		return h.svc.Get(callCtx, req.(*idRequest).ID)
	})
	out, err := m(ctx, in)
	if err != nil {
		return err
	}
	return ctx.Result(nethttp.StatusOK, views.NewPerson(out.(*vo.Person)))
}

func (h *PersonHandler) search(ctx http.Context) error {
	name := ctx.Vars().Get("name")
	http.SetOperation(ctx, OperationPersonSearch)
	m := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		callCtx, cancel := h.Prepare(ctx, HandlerTypeQuery)
		defer cancel()
		return h.svc.SearchByName(callCtx, req.(string))
	})
	out, err := m(ctx, name)
	if err != nil {
		return err
	}
	return ctx.Result(nethttp.StatusOK, views.NewPerson(out.(*vo.Person)))
}

func (h *PersonHandler) count(ctx http.Context) error {
	http.SetOperation(ctx, OperationPersonCount)
	m := ctx.Middleware(func(ctx context.Context, _ interface{}) (interface{}, error) {
		callCtx, cancel := h.Prepare(ctx, HandlerTypeQuery)
		defer cancel()
		return h.svc.Count(callCtx)
	})
	out, err := m(ctx, nil)
	if err != nil {
		return err
	}
	return ctx.Result(nethttp.StatusOK, out.(int64))
}

func (h *PersonHandler) create(ctx http.Context) error {
	var in dto.PersonDTO
	if err := bindBody(ctx, &in); err != nil {
		return err
	}
	http.SetOperation(ctx, OperationPersonCreate)
	m := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		person, err := req.(*dto.PersonDTO).ToPerson()
		if err != nil {
			return nil, services.ErrPayloadInvalid(err.Error())
		}
		callCtx, cancel := h.Prepare(ctx, HandlerTypeCommand)
		defer cancel()
		return h.svc.Create(callCtx, person)
	})
	out, err := m(ctx, &in)
	if err != nil {
		return err
	}
	created := out.(*vo.Person)
	ctx.Response().Header().Set("Location", PersonsPath+"/"+created.ID)
	return ctx.Result(nethttp.StatusCreated, views.NewPerson(created))
}

func (h *PersonHandler) update(ctx http.Context) error {
	in := &updateRequest{ID: ctx.Vars().Get("id")}
	if err := bindBody(ctx, &in.Body); err != nil {
		return err
	}
	http.SetOperation(ctx, OperationPersonUpdate)
	m := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		r := req.(*updateRequest)
		patch, err := r.Body.ToPatch()
		if err != nil {
			return nil, services.ErrPayloadInvalid(err.Error())
		}
		callCtx, cancel := h.Prepare(ctx, HandlerTypeCommand)
		defer cancel()
		return nil, h.svc.Update(callCtx, r.ID, patch)
	})
	if _, err := m(ctx, in); err != nil {
		return err
	}
	ctx.Response().WriteHeader(nethttp.StatusNoContent)
	return nil
}

func (h *PersonHandler) delete(ctx http.Context) error {
	in := &idRequest{ID: ctx.Vars().Get("id")}
	http.SetOperation(ctx, OperationPersonDelete)
	m := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		callCtx, cancel := h.Prepare(ctx, HandlerTypeCommand)
		defer cancel()
		return nil, h.svc.Delete(callCtx, req.(*idRequest).ID)
	})
	if _, err := m(ctx, in); err != nil {
		return err
	}
	ctx.Response().WriteHeader(nethttp.StatusNoContent)
	return nil
}
