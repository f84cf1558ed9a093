package rest

import (
	"context"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
	"github.com/heartmarshall/pantau-subsidi/internal/service/account"
	"github.com/heartmarshall/pantau-subsidi/internal/service/report"
	"github.com/heartmarshall/pantau-subsidi/internal/service/task"
	"github.com/heartmarshall/pantau-subsidi/internal/service/upload"
	"github.com/heartmarshall/pantau-subsidi/internal/service/verification"
	"github.com/heartmarshall/pantau-subsidi/pkg/ctxutil"
)

func as(ctx context.Context, accountID string, role domain.Role) context.Context {
	ctx = ctxutil.WithAccountID(ctx, accountID)
	return ctxutil.WithRole(ctx, role.String())
}

type reportServiceStub struct {
	submit func(ctx context.Context, in report.SubmitInput) (report.SubmitResult, error)
	list   func(ctx context.Context, in report.ListInput) ([]domain.Report, error)
	get    func(ctx context.Context, id string) (domain.Report, error)
}

func (s *reportServiceStub) Submit(ctx context.Context, in report.SubmitInput) (report.SubmitResult, error) {
	return s.submit(ctx, in)
}

func (s *reportServiceStub) List(ctx context.Context, in report.ListInput) ([]domain.Report, error) {
	return s.list(ctx, in)
}

func (s *reportServiceStub) Get(ctx context.Context, id string) (domain.Report, error) {
	return s.get(ctx, id)
}

type taskServiceStub struct {
	create func(ctx context.Context, in task.CreateInput) (task.CreateResult, error)
	update func(ctx context.Context, in task.UpdateInput) (domain.Task, error)
	remove func(ctx context.Context, id string) error
	list   func(ctx context.Context, in task.ListInput) ([]domain.Task, error)
	get    func(ctx context.Context, id string) (domain.Task, error)
}

func (s *taskServiceStub) Create(ctx context.Context, in task.CreateInput) (task.CreateResult, error) {
	return s.create(ctx, in)
}

func (s *taskServiceStub) Update(ctx context.Context, in task.UpdateInput) (domain.Task, error) {
	return s.update(ctx, in)
}

func (s *taskServiceStub) Remove(ctx context.Context, id string) error { return s.remove(ctx, id) }

func (s *taskServiceStub) List(ctx context.Context, in task.ListInput) ([]domain.Task, error) {
	return s.list(ctx, in)
}

func (s *taskServiceStub) Get(ctx context.Context, id string) (domain.Task, error) {
	return s.get(ctx, id)
}

type verificationServiceStub struct {
	create func(ctx context.Context, in verification.CreateInput) (verification.CreateResult, error)
	list   func(ctx context.Context, reportID string) ([]domain.Verification, error)
}

func (s *verificationServiceStub) Create(ctx context.Context, in verification.CreateInput) (verification.CreateResult, error) {
	return s.create(ctx, in)
}

func (s *verificationServiceStub) List(ctx context.Context, reportID string) ([]domain.Verification, error) {
	return s.list(ctx, reportID)
}

type uploadServiceStub struct {
	create func(ctx context.Context, in upload.CreateInput) (upload.CreateResult, error)
	list   func(ctx context.Context, taskID string) ([]domain.Upload, error)
	remove func(ctx context.Context, id string) error
}

func (s *uploadServiceStub) Create(ctx context.Context, in upload.CreateInput) (upload.CreateResult, error) {
	return s.create(ctx, in)
}

func (s *uploadServiceStub) List(ctx context.Context, taskID string) ([]domain.Upload, error) {
	return s.list(ctx, taskID)
}

func (s *uploadServiceStub) Remove(ctx context.Context, id string) error { return s.remove(ctx, id) }

type accountServiceStub struct {
	register func(ctx context.Context, in account.RegisterInput) (account.AuthResult, error)
	login    func(ctx context.Context, in account.LoginInput) (account.AuthResult, error)
	list     func(ctx context.Context) ([]domain.Account, error)
}

func (s *accountServiceStub) Register(ctx context.Context, in account.RegisterInput) (account.AuthResult, error) {
	return s.register(ctx, in)
}

func (s *accountServiceStub) Login(ctx context.Context, in account.LoginInput) (account.AuthResult, error) {
	return s.login(ctx, in)
}

func (s *accountServiceStub) List(ctx context.Context) ([]domain.Account, error) {
	return s.list(ctx)
}
