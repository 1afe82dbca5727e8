package entry

import (
	"context"
	"sync"

	"github.com/jmkivinen/trialreg/internal/domain"
	"github.com/jmkivinen/trialreg/internal/service/notify"
)

var _ registrationRepo = &registrationRepoMock{}

type registrationRepoMock struct {
	ListByEventFunc        func(ctx context.Context, eventID string) ([]*domain.Registration, error)
	UpdateGroupFunc        func(ctx context.Context, reg *domain.Registration) error
	SetReserveNotifiedFunc func(ctx context.Context, key domain.RegistrationKey, notified bool) error

	calls struct {
		ListByEvent []struct {
			Ctx     context.Context
			EventID string
		}
		UpdateGroup []struct {
			Ctx context.Context
			Reg *domain.Registration
		}
		SetReserveNotified []struct {
			Ctx      context.Context
			Key      domain.RegistrationKey
			Notified bool
		}
	}
	lock sync.RWMutex
}

func (mock *registrationRepoMock) ListByEvent(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	if mock.ListByEventFunc == nil {
		panic("registrationRepoMock.ListByEventFunc: method is nil but registrationRepo.ListByEvent was just called")
	}
	mock.lock.Lock()
	mock.calls.ListByEvent = append(mock.calls.ListByEvent, struct {
		Ctx     context.Context
		EventID string
	}{ctx, eventID})
	mock.lock.Unlock()
	return mock.ListByEventFunc(ctx, eventID)
}

func (mock *registrationRepoMock) UpdateGroup(ctx context.Context, reg *domain.Registration) error {
	if mock.UpdateGroupFunc == nil {
		panic("registrationRepoMock.UpdateGroupFunc: method is nil but registrationRepo.UpdateGroup was just called")
	}
	mock.lock.Lock()
	mock.calls.UpdateGroup = append(mock.calls.UpdateGroup, struct {
		Ctx context.Context
		Reg *domain.Registration
	}{ctx, reg})
	mock.lock.Unlock()
	return mock.UpdateGroupFunc(ctx, reg)
}

func (mock *registrationRepoMock) SetReserveNotified(ctx context.Context, key domain.RegistrationKey, notified bool) error {
	if mock.SetReserveNotifiedFunc == nil {
		panic("registrationRepoMock.SetReserveNotifiedFunc: method is nil but registrationRepo.SetReserveNotified was just called")
	}
	mock.lock.Lock()
	mock.calls.SetReserveNotified = append(mock.calls.SetReserveNotified, struct {
		Ctx      context.Context
		Key      domain.RegistrationKey
		Notified bool
	}{ctx, key, notified})
	mock.lock.Unlock()
	return mock.SetReserveNotifiedFunc(ctx, key, notified)
}

func (mock *registrationRepoMock) UpdateGroupCalls() []struct {
	Ctx context.Context
	Reg *domain.Registration
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.UpdateGroup
}

func (mock *registrationRepoMock) SetReserveNotifiedCalls() []struct {
	Ctx      context.Context
	Key      domain.RegistrationKey
	Notified bool
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.SetReserveNotified
}

var _ eventRepo = &eventRepoMock{}

type eventRepoMock struct {
	GetFunc          func(ctx context.Context, id string) (*domain.Event, error)
	UpdateCountsFunc func(ctx context.Context, event *domain.Event) error
	UpdateStateFunc  func(ctx context.Context, event *domain.Event) error

	calls struct {
		Get []struct {
			Ctx context.Context
			ID  string
		}
		UpdateCounts []struct {
			Ctx   context.Context
			Event *domain.Event
		}
		UpdateState []struct {
			Ctx   context.Context
			Event *domain.Event
		}
	}
	lock sync.RWMutex
}

func (mock *eventRepoMock) Get(ctx context.Context, id string) (*domain.Event, error) {
	if mock.GetFunc == nil {
		panic("eventRepoMock.GetFunc: method is nil but eventRepo.Get was just called")
	}
	mock.lock.Lock()
	mock.calls.Get = append(mock.calls.Get, struct {
		Ctx context.Context
		ID  string
	}{ctx, id})
	mock.lock.Unlock()
	return mock.GetFunc(ctx, id)
}

func (mock *eventRepoMock) UpdateCounts(ctx context.Context, event *domain.Event) error {
	if mock.UpdateCountsFunc == nil {
		panic("eventRepoMock.UpdateCountsFunc: method is nil but eventRepo.UpdateCounts was just called")
	}
	mock.lock.Lock()
	mock.calls.UpdateCounts = append(mock.calls.UpdateCounts, struct {
		Ctx   context.Context
		Event *domain.Event
	}{ctx, event})
	mock.lock.Unlock()
	return mock.UpdateCountsFunc(ctx, event)
}

func (mock *eventRepoMock) UpdateState(ctx context.Context, event *domain.Event) error {
	if mock.UpdateStateFunc == nil {
		panic("eventRepoMock.UpdateStateFunc: method is nil but eventRepo.UpdateState was just called")
	}
	mock.lock.Lock()
	mock.calls.UpdateState = append(mock.calls.UpdateState, struct {
		Ctx   context.Context
		Event *domain.Event
	}{ctx, event})
	mock.lock.Unlock()
	return mock.UpdateStateFunc(ctx, event)
}

func (mock *eventRepoMock) UpdateCountsCalls() []struct {
	Ctx   context.Context
	Event *domain.Event
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.UpdateCounts
}

func (mock *eventRepoMock) UpdateStateCalls() []struct {
	Ctx   context.Context
	Event *domain.Event
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.UpdateState
}

var _ auditRepo = &auditRepoMock{}

type auditRepoMock struct {
	CreateFunc    func(ctx context.Context, entry domain.AuditEntry) error
	ListByKeyFunc func(ctx context.Context, auditKey string) ([]domain.AuditEntry, error)

	calls struct {
		Create []struct {
			Ctx   context.Context
			Entry domain.AuditEntry
		}
		ListByKey []struct {
			Ctx      context.Context
			AuditKey string
		}
	}
	lock sync.RWMutex
}

func (mock *auditRepoMock) Create(ctx context.Context, entry domain.AuditEntry) error {
	if mock.CreateFunc == nil {
		panic("auditRepoMock.CreateFunc: method is nil but auditRepo.Create was just called")
	}
	mock.lock.Lock()
	mock.calls.Create = append(mock.calls.Create, struct {
		Ctx   context.Context
		Entry domain.AuditEntry
	}{ctx, entry})
	mock.lock.Unlock()
	return mock.CreateFunc(ctx, entry)
}

func (mock *auditRepoMock) ListByKey(ctx context.Context, auditKey string) ([]domain.AuditEntry, error) {
	if mock.ListByKeyFunc == nil {
		panic("auditRepoMock.ListByKeyFunc: method is nil but auditRepo.ListByKey was just called")
	}
	mock.lock.Lock()
	mock.calls.ListByKey = append(mock.calls.ListByKey, struct {
		Ctx      context.Context
		AuditKey string
	}{ctx, auditKey})
	mock.lock.Unlock()
	return mock.ListByKeyFunc(ctx, auditKey)
}

func (mock *auditRepoMock) CreateCalls() []struct {
	Ctx   context.Context
	Entry domain.AuditEntry
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Create
}

var _ dispatcher = &dispatcherMock{}

type dispatcherMock struct {
	DispatchFunc func(ctx context.Context, in notify.DispatchInput) (domain.DispatchResult, []string)

	calls struct {
		Dispatch []struct {
			Ctx context.Context
			In  notify.DispatchInput
		}
	}
	lock sync.RWMutex
}

func (mock *dispatcherMock) Dispatch(ctx context.Context, in notify.DispatchInput) (domain.DispatchResult, []string) {
	if mock.DispatchFunc == nil {
		panic("dispatcherMock.DispatchFunc: method is nil but dispatcher.Dispatch was just called")
	}
	mock.lock.Lock()
	mock.calls.Dispatch = append(mock.calls.Dispatch, struct {
		Ctx context.Context
		In  notify.DispatchInput
	}{ctx, in})
	mock.lock.Unlock()
	return mock.DispatchFunc(ctx, in)
}

func (mock *dispatcherMock) DispatchCalls() []struct {
	Ctx context.Context
	In  notify.DispatchInput
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Dispatch
}
