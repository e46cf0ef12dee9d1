package jobs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/domain/appointment/apptest"
)

// 2026-10-18 is a Sunday.
var sunday = at(18, 7, 0)

func TestRepairClosuresMovesTodaysAppointments(t *testing.T) {
	f := newFixture()
	a := f.add(1, domain.StatusScheduled, at(18, 10, 0))
	b := f.add(1, domain.StatusConfirmed, at(18, 11, 0))
	cancelled := f.add(1, domain.StatusCancelled, at(18, 12, 0))
	f.add(1, domain.StatusScheduled, at(19, 9, 0))
	open := f.add(2, domain.StatusScheduled, at(18, 10, 0))

	res, err := f.runner(sunday, 0).RepairClosures(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, 2, res.Succeeded)
	assert.Zero(t, res.Failed)

	movedA := f.repo.Get(a)
	assert.Equal(t, at(19, 9, 30), movedA.ScheduledAt)
	assert.True(t, movedA.IsPriority)
	assert.Equal(t, domain.ClosurePriorityReason, movedA.PriorityReason)
	assert.Equal(t, string(domain.StatusScheduled), movedA.Status)

	movedB := f.repo.Get(b)
	assert.Equal(t, at(19, 10, 0), movedB.ScheduledAt)
	assert.Equal(t, string(domain.StatusConfirmed), movedB.Status)

	assert.Equal(t, at(18, 12, 0), f.repo.Get(cancelled).ScheduledAt)
	assert.Equal(t, at(18, 10, 0), f.repo.Get(open).ScheduledAt)

	events := f.notifier.Events()
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventClinicClosureReschedule, events[0].Kind)
	assert.Equal(t, domain.ClosureEventReason, events[0].Reason)
	require.NotNil(t, events[0].PreviousAt)
	assert.Equal(t, at(18, 10, 0), *events[0].PreviousAt)
	assert.Equal(t, at(19, 9, 30), events[0].ScheduledAt)
}

func TestRepairClosuresUnconfiguredClinicWithoutSlot(t *testing.T) {
	f := newFixture()
	id := f.add(3, domain.StatusScheduled, at(18, 10, 0))

	res, err := f.runner(sunday, 0).RepairClosures(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, at(18, 10, 0), f.repo.Get(id).ScheduledAt)
	assert.False(t, f.repo.Get(id).IsPriority)
	assert.Empty(t, f.notifier.Events())
	assert.Equal(t, 1, f.metrics.outcomes[CheckClosures+"/failed"])
}

func TestRepairClosuresDryRun(t *testing.T) {
	f := newFixture()
	a := f.add(1, domain.StatusScheduled, at(18, 10, 0))
	b := f.add(1, domain.StatusScheduled, at(18, 11, 0))

	res, err := f.runner(sunday, 0).RepairClosures(context.Background(), Options{DryRun: true})
	require.NoError(t, err)

	assert.True(t, res.DryRun)
	assert.Equal(t, 2, res.Succeeded)
	require.Len(t, res.Changes, 2)
	assert.Equal(t, at(19, 9, 0), *res.Changes[0].NewScheduledAt)
	assert.Equal(t, at(19, 9, 30), *res.Changes[1].NewScheduledAt, "planned slots are not handed out twice")

	assert.Equal(t, at(18, 10, 0), f.repo.Get(a).ScheduledAt)
	assert.Equal(t, at(18, 11, 0), f.repo.Get(b).ScheduledAt)
	assert.Empty(t, f.notifier.Events())
	assert.Zero(t, f.repo.LockCalls[1])
}

func TestRepairClosuresNotificationFailureKeepsChange(t *testing.T) {
	f := newFixture()
	id := f.add(1, domain.StatusScheduled, at(18, 10, 0))
	f.notifier.Err = apptest.ErrBoom

	res, err := f.runner(sunday, 0).RepairClosures(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.NotifyFailed)
	assert.Equal(t, at(19, 9, 0), f.repo.Get(id).ScheduledAt)
}

func TestRepairClosuresClinicListFailure(t *testing.T) {
	f := newFixture()
	f.repo.Fail["ListClinics"] = apptest.ErrBoom

	_, err := f.runner(sunday, 0).RepairClosures(context.Background(), Options{})
	assert.ErrorIs(t, err, apptest.ErrBoom)
}

func TestRepairClosuresOpenDayDoesNothing(t *testing.T) {
	f := newFixture()
	id := f.add(1, domain.StatusScheduled, at(19, 10, 0))

	res, err := f.runner(at(19, 7, 0), 0).RepairClosures(context.Background(), Options{})
	require.NoError(t, err)

	assert.Zero(t, res.Processed)
	assert.Equal(t, at(19, 10, 0), f.repo.Get(id).ScheduledAt)
}

func TestRepairClosuresKeepsConcurrentStatusChange(t *testing.T) {
	cases := []domain.Status{domain.StatusCancelled, domain.StatusInProgress}

	for _, target := range cases {
		t.Run(string(target), func(t *testing.T) {
			f := newFixture()
			id := f.add(1, domain.StatusScheduled, at(18, 10, 0))

			// The status changes right after the job re-reads the appointment.
			f.repo.AfterGetAppointment = func(uint) {
				f.repo.AfterGetAppointment = nil
				cur := f.repo.Get(id)
				prev := domain.Status(cur.Status)
				cur.Status = string(target)
				saved, err := f.repo.UpdateAppointmentIf(context.Background(), &cur, prev)
				require.NoError(t, err)
				require.True(t, saved)
			}

			res, err := f.runner(sunday, 0).RepairClosures(context.Background(), Options{})
			require.NoError(t, err)

			assert.Equal(t, 1, res.Skipped)
			assert.Zero(t, res.Succeeded)
			stored := f.repo.Get(id)
			assert.Equal(t, string(target), stored.Status)
			assert.Equal(t, at(18, 10, 0), stored.ScheduledAt)
			assert.False(t, stored.IsPriority)
			assert.Empty(t, f.notifier.Events())
		})
	}
}

func TestRepairClosuresCountsClinicListingFailure(t *testing.T) {
	f := newFixture()
	f.add(1, domain.StatusScheduled, at(18, 10, 0))
	f.repo.Fail["FindAppointments"] = apptest.ErrBoom

	res, err := f.runner(sunday, 0).RepairClosures(context.Background(), Options{})
	require.NoError(t, err)

	// Clinics 1 and 3 are closed on Sunday; clinic 2 is open.
	assert.Zero(t, res.Processed)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, 2, f.metrics.outcomes[CheckClosures+"/failed"])
}
