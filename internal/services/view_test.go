package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/asamarka-625/ApplicationSystem/internal/dto"
	"github.com/asamarka-625/ApplicationSystem/internal/entities"
	"github.com/asamarka-625/ApplicationSystem/internal/repositories"
	"github.com/asamarka-625/ApplicationSystem/internal/workflow"
	apperrors "github.com/asamarka-625/ApplicationSystem/pkg/errors"
)

// viewRequestRepo дополняет фейк чтением списков и детальной строки.
// Скоуп выборки здесь не имитируется: он зашит в SQL и проверяется
// интеграционно, сервис отвечает только за права и просрочку.
type viewRequestRepo struct{ fakeRequestRepo }

func (r *viewRequestRepo) List(_ context.Context, _ entities.Actor, _ repositories.ListFilter) ([]repositories.RequestRow, uint64, error) {
	rows := make([]repositories.RequestRow, 0, len(r.store.requests))
	for _, req := range r.store.requests {
		row := repositories.RequestRow{Request: *req, DepartmentName: "Городской суд"}
		// Ближайший срок по позициям, как его сворачивает SQL списка.
		for _, it := range r.store.items[req.ID] {
			for _, d := range []*time.Time{it.DeadlineExecutor, it.DeadlineOrganization, it.DeadlinePlanning} {
				if d != nil && (row.NearestDeadline == nil || d.Before(*row.NearestDeadline)) {
					row.NearestDeadline = d
				}
			}
		}
		rows = append(rows, row)
	}
	return rows, uint64(len(rows)), nil
}

func (r *viewRequestRepo) Detail(_ context.Context, regNumber string) (*repositories.RequestDetailRow, error) {
	req, err := r.store.findRequest(regNumber)
	if err != nil {
		return nil, err
	}
	return &repositories.RequestDetailRow{
		Request:        *req,
		DepartmentName: "Городской суд",
		DepartmentCode: 77,
		SecretaryName:  "Сидорова С.С.",
		JudgeName:      "Рахимов Р.Р.",
	}, nil
}

type viewHistoryRepo struct{ fakeHistoryRepo }

func (r *viewHistoryRepo) FindByRequestID(_ context.Context, requestID uint64) ([]repositories.HistoryRow, error) {
	var rows []repositories.HistoryRow
	for _, h := range r.store.history {
		if h.RequestID == requestID {
			rows = append(rows, repositories.HistoryRow{RequestHistory: h, UserName: "Сидорова С.С."})
		}
	}
	return rows, nil
}

type viewFixture struct {
	fixture
	view ViewServiceInterface
}

func newViewFixture() *viewFixture {
	f := newFixture()
	view := NewViewService(
		&viewRequestRepo{fakeRequestRepo{store: f.store}},
		&fakeItemRepo{store: f.store},
		&viewHistoryRepo{fakeHistoryRepo{store: f.store}},
		fakeActorRepo{},
		&fakeAttachmentRepo{store: f.store},
		zap.NewNop(),
	)
	return &viewFixture{fixture: *f, view: view}
}

func TestViewService_List_RightsPerRow(t *testing.T) {
	f := newViewFixture()
	ctx := context.Background()
	regNumber := f.mustCreate(t, dto.ItemCountDTO{ItemID: 1, Count: 1})

	rows, total, err := f.view.List(ctx, secretaryActor, repositories.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, regNumber, rows[0].RegistrationNumber)
	assert.True(t, rows[0].Rights.Edit)
	assert.Empty(t, rows[0].ActualStatus)

	// После утверждения у секретаря остается только просмотр.
	require.NoError(t, f.service.Approve(ctx, judgeActor, regNumber))
	rows, _, err = f.view.List(ctx, secretaryActor, repositories.ListFilter{})
	require.NoError(t, err)
	assert.False(t, rows[0].Rights.Edit)
	assert.True(t, rows[0].Rights.View)
}

func TestViewService_List_OverdueOverlay(t *testing.T) {
	f := newViewFixture()
	ctx := context.Background()
	regNumber := f.mustCreate(t, dto.ItemCountDTO{ItemID: 1, Count: 1})
	require.NoError(t, f.service.Approve(ctx, judgeActor, regNumber))
	require.NoError(t, f.service.AssignManagementDepartment(ctx, managementActor, regNumber,
		dto.RedirectManagementDTO{OfficerID: departmentActor.ProfileID}))
	require.NoError(t, f.service.AssignExecutor(ctx, departmentActor, regNumber, dto.RedirectExecutorDTO{
		ExecutorID: executorActor.ProfileID,
		Deadline:   time.Now().Add(-time.Hour),
	}))

	// Просроченный срок виден исполнителю, но хранимый статус не тронут.
	rows, _, err := f.view.List(ctx, executorActor, repositories.ListFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, workflow.ActualStatusOverdue, rows[0].ActualStatus)
	assert.Equal(t, string(entities.StatusInProgress), rows[0].Status.Name)

	// Секретарь просрочку не видит.
	rows, _, err = f.view.List(ctx, secretaryActor, repositories.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows[0].ActualStatus)
}

func TestViewService_PlanningList_ExecutiveOnly(t *testing.T) {
	f := newViewFixture()
	ctx := context.Background()

	for _, actor := range []entities.Actor{secretaryActor, judgeActor} {
		_, err := f.view.PlanningList(ctx, actor)
		assert.True(t, apperrors.IsForbidden(err), "роль %s", actor.Role)
	}

	_, err := f.view.PlanningList(ctx, executorActor)
	assert.NoError(t, err)
}

func TestViewService_Detail(t *testing.T) {
	f := newViewFixture()
	ctx := context.Background()
	regNumber := f.mustCreate(t, dto.ItemCountDTO{ItemID: 1, Count: 2})

	detail, err := f.view.Detail(ctx, secretaryActor, regNumber)
	require.NoError(t, err)
	assert.Equal(t, regNumber, detail.RegistrationNumber)
	assert.Equal(t, "Городской суд", detail.DepartmentName)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "Бумага А4", detail.Items[0].Name)
	assert.Equal(t, 2, detail.Items[0].Count)

	// История отдается с готовым текстом.
	require.Len(t, detail.History, 1)
	assert.Equal(t, "Заявка зарегистрирована", detail.History[0].Description)
	assert.Equal(t, "Сидорова С.С.", detail.History[0].User)
}

func TestViewService_Detail_HiddenOutsideScope(t *testing.T) {
	f := newViewFixture()
	ctx := context.Background()
	regNumber := f.mustCreate(t, dto.ItemCountDTO{ItemID: 1, Count: 1})

	// До утверждения исполнительная ветка заявку не видит вовсе.
	_, err := f.view.Detail(ctx, managementActor, regNumber)
	assert.True(t, apperrors.IsNotFound(err))

	// Чужой секретарь получает not found, а не forbidden.
	foreign := entities.Actor{UserID: 200, Role: entities.RoleSecretary, ProfileID: 99}
	_, err = f.view.Detail(ctx, foreign, regNumber)
	assert.True(t, apperrors.IsNotFound(err))

	// Исполнитель видит заявку только после назначения на позицию.
	f.mustRoute(t, regNumber)
	_, err = f.view.Detail(ctx, executorActor, regNumber)
	assert.NoError(t, err)

	stranger := entities.Actor{UserID: 201, Role: entities.RoleExecutor, ProfileID: 55}
	_, err = f.view.Detail(ctx, stranger, regNumber)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestViewService_Data(t *testing.T) {
	f := newViewFixture()
	ctx := context.Background()
	regNumber := f.mustCreate(t, dto.ItemCountDTO{ItemID: 1, Count: 3})

	data, err := f.view.Data(ctx, secretaryActor, regNumber)
	require.NoError(t, err)
	assert.Equal(t, string(entities.TypeMaterial), data.RequestType)
	require.Len(t, data.Items, 1)
	assert.Equal(t, uint64(1), data.Items[0].ItemID)
	assert.Equal(t, 3, data.Items[0].Count)

	// После утверждения снимок для редактирования недоступен.
	require.NoError(t, f.service.Approve(ctx, judgeActor, regNumber))
	_, err = f.view.Data(ctx, secretaryActor, regNumber)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestViewService_Info(t *testing.T) {
	f := newViewFixture()
	info := f.view.Info(context.Background())

	assert.Len(t, info.Statuses, 9)
	assert.Len(t, info.ItemStatuses, 5)
	assert.Len(t, info.RequestTypes, 2)
	assert.Len(t, info.Roles, 6)

	assert.Contains(t, info.Statuses, dto.EnumDTO{Name: "REGISTERED", Value: "зарегистрирована"})
	assert.Contains(t, info.RequestTypes, dto.EnumDTO{Name: "MATERIAL", Value: "материалы"})
}
