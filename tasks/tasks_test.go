package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startuphub/models"
	"startuphub/testutil"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func payload(t *testing.T, id uint) []byte {
	t.Helper()
	b, err := json.Marshal(Task{ID: id})
	require.NoError(t, err)
	return b
}

func TestNewTaskDisabledIsNoop(t *testing.T) {
	SetEnqueuer(nil)
	assert.NoError(t, NewTask(TypeApplicationStatus, 7))
}

func TestNewTaskEnqueuesPayload(t *testing.T) {
	fake := &fakeEnqueuer{}
	SetEnqueuer(fake)
	t.Cleanup(func() { SetEnqueuer(nil) })

	require.NoError(t, NewTask(TypeSponsorshipStatus, 12))
	require.Len(t, fake.tasks, 1)
	assert.Equal(t, TypeSponsorshipStatus, fake.tasks[0].Type())

	var got Task
	require.NoError(t, json.Unmarshal(fake.tasks[0].Payload(), &got))
	assert.Equal(t, uint(12), got.ID)
}

func TestNewTaskPropagatesEnqueueError(t *testing.T) {
	SetEnqueuer(&fakeEnqueuer{err: errors.New("redis down")})
	t.Cleanup(func() { SetEnqueuer(nil) })

	assert.Error(t, NewTask(TypeReviewSubmitted, 1))
	assert.NotPanics(t, func() { Dispatch(TypeReviewSubmitted, 1) })
}

func TestHandleApplicationStatusNotifiesApplicant(t *testing.T) {
	db := testutil.SetupDB(t)
	admin := testutil.CreateUser(t, db, "admin@example.com", models.RoleAdmin)
	founder := testutil.CreateUser(t, db, "founder@example.com", models.RoleEntrepreneur)
	call := testutil.CreateCall(t, db, admin.ID)

	app := models.Application{
		StartupCallID: call.ID,
		ApplicantID:   founder.ID,
		StartupName:   "Acme",
		Pitch:         "rockets",
		Status:        models.ApplicationUnderReview,
		SubmittedAt:   time.Now(),
	}
	require.NoError(t, db.Create(&app).Error)

	err := HandleApplicationStatus(context.Background(), asynq.NewTask(TypeApplicationStatus, payload(t, app.ID)))
	require.NoError(t, err)

	var notes []models.Notification
	require.NoError(t, db.Where("user_id = ?", founder.ID).Find(&notes).Error)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Message, "under review")
	assert.Contains(t, notes[0].Message, "Fintech 2026")
}

func TestHandleApplicationStatusMissingIsDropped(t *testing.T) {
	testutil.SetupDB(t)

	err := HandleApplicationStatus(context.Background(), asynq.NewTask(TypeApplicationStatus, payload(t, 404)))
	assert.NoError(t, err)
}

func TestHandleBadPayloadSkipsRetry(t *testing.T) {
	testutil.SetupDB(t)

	err := HandleSponsorshipStatus(context.Background(), asynq.NewTask(TypeSponsorshipStatus, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleReviewSubmittedNotifiesAdmins(t *testing.T) {
	db := testutil.SetupDB(t)
	admin := testutil.CreateUser(t, db, "admin@example.com", models.RoleAdmin)
	admin2 := testutil.CreateUser(t, db, "admin2@example.com", models.RoleAdmin)
	reviewer := testutil.CreateUser(t, db, "rev@example.com", models.RoleReviewer)
	founder := testutil.CreateUser(t, db, "founder@example.com", models.RoleEntrepreneur)
	call := testutil.CreateCall(t, db, admin.ID)

	app := models.Application{StartupCallID: call.ID, ApplicantID: founder.ID, StartupName: "Acme", Status: models.ApplicationUnderReview}
	require.NoError(t, db.Create(&app).Error)
	review := models.Review{ApplicationID: app.ID, ReviewerID: reviewer.ID, OverallScore: 8.5, Status: models.ReviewCompleted}
	require.NoError(t, db.Create(&review).Error)

	err := HandleReviewSubmitted(context.Background(), asynq.NewTask(TypeReviewSubmitted, payload(t, review.ID)))
	require.NoError(t, err)

	var count int64
	db.Model(&models.Notification{}).Where("user_id IN ?", []uint{admin.ID, admin2.ID}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestCloseExpired(t *testing.T) {
	db := testutil.SetupDB(t)
	admin := testutil.CreateUser(t, db, "admin@example.com", models.RoleAdmin)
	now := time.Now()

	open := testutil.CreateCall(t, db, admin.ID)
	expired := models.StartupCall{Title: "Old", Status: models.CallPublished, ApplicationDeadline: now.Add(-time.Hour), CreatedByID: admin.ID}
	draft := models.StartupCall{Title: "Draft", Status: models.CallDraft, ApplicationDeadline: now.Add(-time.Hour)}
	require.NoError(t, db.Create(&expired).Error)
	require.NoError(t, db.Create(&draft).Error)

	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)
	oldOpp := models.SponsorshipOpportunity{Title: "Old", Status: models.OpportunityOpen, Deadline: &past}
	newOpp := models.SponsorshipOpportunity{Title: "New", Status: models.OpportunityOpen, Deadline: &future}
	noDeadline := models.SponsorshipOpportunity{Title: "Rolling", Status: models.OpportunityOpen}
	require.NoError(t, db.Create(&oldOpp).Error)
	require.NoError(t, db.Create(&newOpp).Error)
	require.NoError(t, db.Create(&noDeadline).Error)

	calls, opps, err := CloseExpired(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, expired.ID, calls[0].ID)
	assert.Equal(t, int64(1), opps)

	var got models.StartupCall
	require.NoError(t, db.First(&got, expired.ID).Error)
	assert.Equal(t, models.CallClosed, got.Status)
	require.NoError(t, db.First(&got, open.ID).Error)
	assert.Equal(t, models.CallPublished, got.Status)
	require.NoError(t, db.First(&got, draft.ID).Error)
	assert.Equal(t, models.CallDraft, got.Status)

	var opp models.SponsorshipOpportunity
	require.NoError(t, db.First(&opp, oldOpp.ID).Error)
	assert.Equal(t, models.OpportunityClosed, opp.Status)
	require.NoError(t, db.First(&opp, noDeadline.ID).Error)
	assert.Equal(t, models.OpportunityOpen, opp.Status)

	var notes int64
	db.Model(&models.Notification{}).Where("user_id = ? AND kind = ?", admin.ID, "call_closed").Count(&notes)
	assert.Equal(t, int64(1), notes)
}
