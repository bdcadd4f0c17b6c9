// Package activity records domain events as structured log lines and
// Prometheus counters.
package activity

import (
	"context"
	"fmt"

	"github.com/cypherab01/task-manager-api/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// ActivityModule consumes task and account events.
type ActivityModule struct {
	events *prometheus.CounterVec
	logger *log.Entry
}

var _ mono.Module = (*ActivityModule)(nil)
var _ mono.EventConsumerModule = (*ActivityModule)(nil)

// NewModule creates the module and registers its counter with reg.
func NewModule(reg prometheus.Registerer) *ActivityModule {
	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_manager_domain_events_total",
			Help: "Domain events observed, by event name.",
		},
		[]string{"event"},
	)
	reg.MustRegister(counter)

	return &ActivityModule{
		events: counter,
		logger: log.WithField("module", "activity"),
	}
}

func (m *ActivityModule) Name() string {
	return "activity"
}

func (m *ActivityModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskStatusChangedV1, m.handleTaskStatusChanged, m); err != nil {
		return fmt.Errorf("failed to register TaskStatusChanged consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.AccountDeletedV1, m.handleAccountDeleted, m); err != nil {
		return fmt.Errorf("failed to register AccountDeleted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers: TaskCreated, TaskStatusChanged, TaskDeleted, AccountDeleted")
	return nil
}

func (m *ActivityModule) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.record("TaskCreated", log.Fields{
		"task_id": event.TaskID,
		"user_id": event.UserID,
		"title":   event.Title,
	})
	return nil
}

func (m *ActivityModule) handleTaskStatusChanged(_ context.Context, event events.TaskStatusChangedEvent, _ *mono.Msg) error {
	m.record("TaskStatusChanged", log.Fields{
		"task_id": event.TaskID,
		"user_id": event.UserID,
		"from":    event.From,
		"to":      event.To,
	})
	return nil
}

func (m *ActivityModule) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.record("TaskDeleted", log.Fields{
		"task_id": event.TaskID,
		"user_id": event.UserID,
	})
	return nil
}

// Email is left out of the log line.
func (m *ActivityModule) handleAccountDeleted(_ context.Context, event events.AccountDeletedEvent, _ *mono.Msg) error {
	m.record("AccountDeleted", log.Fields{
		"user_id": event.UserID,
	})
	return nil
}

func (m *ActivityModule) record(event string, fields log.Fields) {
	m.events.WithLabelValues(event).Inc()
	m.logger.WithFields(fields).WithField("event", event).Info("Domain event")
}

func (m *ActivityModule) Start(_ context.Context) error {
	m.logger.Info("Module started - listening for domain events")
	return nil
}

func (m *ActivityModule) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}
