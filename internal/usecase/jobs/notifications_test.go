package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/domain/appointment/apptest"
	"github.com/ereshiii/pet-connect/internal/models"
)

func TestNotifyOverdue(t *testing.T) {
	f := newFixture()
	overdue := f.add(1, domain.StatusConfirmed, at(16, 10, 0))
	f.add(1, domain.StatusInProgress, at(17, 10, 0))
	f.add(1, domain.StatusScheduled, at(15, 10, 0))

	res, err := f.runner(at(17, 15, 0), 0).NotifyOverdue(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Succeeded)
	events := f.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventOverdue, events[0].Kind)
	assert.Equal(t, domain.RecipientClinic, events[0].Recipient)
	assert.Equal(t, overdue, events[0].AppointmentID)
	assert.Equal(t, string(domain.StatusConfirmed), f.repo.Get(overdue).Status)
}

func TestNotifyOverdueFailureAndDryRun(t *testing.T) {
	f := newFixture()
	f.add(1, domain.StatusInProgress, at(15, 10, 0))

	res, err := f.runner(at(17, 15, 0), 0).NotifyOverdue(context.Background(), Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.Empty(t, f.notifier.Events())

	f.notifier.Err = apptest.ErrBoom
	res, err = f.runner(at(17, 15, 0), 0).NotifyOverdue(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
}

func TestSendReminders(t *testing.T) {
	f := newFixture()
	now := at(16, 8, 0)
	soon := f.add(2, domain.StatusScheduled, at(16, 8, 30))
	tomorrow := f.add(2, domain.StatusConfirmed, at(17, 7, 0))
	followUp := f.repo.Add(models.Appointment{
		ClinicID: 2, OwnerID: 7, PetID: 1, IsFollowUp: true,
		Status: string(domain.StatusScheduled), ScheduledAt: at(16, 20, 0),
	})
	f.add(2, domain.StatusScheduled, at(18, 8, 0))
	f.add(2, domain.StatusCancelled, at(16, 9, 0))

	res, err := f.runner(now, 0).SendReminders(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Succeeded)

	kinds := map[uint]domain.EventKind{}
	for _, ev := range f.notifier.Events() {
		kinds[ev.AppointmentID] = ev.Kind
	}
	assert.Equal(t, map[uint]domain.EventKind{
		soon:     domain.EventReminder1Hour,
		tomorrow: domain.EventReminder24Hours,
		followUp: domain.EventFollowUpReminder,
	}, kinds)

	assert.NotNil(t, f.repo.Get(soon).Reminder1SentAt)
	assert.Nil(t, f.repo.Get(soon).Reminder24SentAt)
	assert.NotNil(t, f.repo.Get(tomorrow).Reminder24SentAt)

	// Each reminder goes out once.
	res, err = f.runner(now.Add(10*time.Minute), 0).SendReminders(context.Background(), Options{})
	require.NoError(t, err)
	assert.Zero(t, res.Processed)
	assert.Len(t, f.notifier.Events(), 3)
}

func TestSendRemindersFailureRetries(t *testing.T) {
	f := newFixture()
	now := at(16, 8, 0)
	id := f.add(2, domain.StatusScheduled, at(16, 8, 30))
	f.notifier.Err = apptest.ErrBoom

	res, err := f.runner(now, 0).SendReminders(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Nil(t, f.repo.Get(id).Reminder1SentAt)

	f.notifier.Err = nil
	res, err = f.runner(now, 0).SendReminders(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.NotNil(t, f.repo.Get(id).Reminder1SentAt)
}

func TestSendRemindersDryRun(t *testing.T) {
	f := newFixture()
	id := f.add(2, domain.StatusScheduled, at(16, 8, 30))

	res, err := f.runner(at(16, 8, 0), 0).SendReminders(context.Background(), Options{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Succeeded)
	assert.Empty(t, f.notifier.Events())
	assert.Nil(t, f.repo.Get(id).Reminder1SentAt)
}
