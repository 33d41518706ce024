package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"startuphub/models"
	"startuphub/services"
)

func HandleApplicationStatus(ctx context.Context, t *asynq.Task) error {
	task, err := decode(t)
	if err != nil {
		return err
	}

	var app models.Application
	err = models.Run(ctx, func(db *gorm.DB) error {
		return db.Preload("StartupCall").First(&app, task.ID).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Debug().Uint("application", task.ID).Msg("application not found")
		return nil
	}
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("Your application %q to %q is now %s.",
		app.StartupName, app.StartupCall.Title, humanize(app.Status))
	return services.Notify(ctx, app.ApplicantID, services.KindApplicationStatus, msg)
}

func HandleSponsorshipStatus(ctx context.Context, t *asynq.Task) error {
	task, err := decode(t)
	if err != nil {
		return err
	}

	var sa models.SponsorshipApplication
	err = models.Run(ctx, func(db *gorm.DB) error {
		return db.Preload("Opportunity").First(&sa, task.ID).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Debug().Uint("sponsorship", task.ID).Msg("sponsorship application not found")
		return nil
	}
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("Your sponsorship application for %q is now %s.",
		sa.Opportunity.Title, humanize(sa.Status))
	return services.Notify(ctx, sa.SponsorID, services.KindSponsorshipStatus, msg)
}

func HandleReviewSubmitted(ctx context.Context, t *asynq.Task) error {
	task, err := decode(t)
	if err != nil {
		return err
	}

	var review models.Review
	var app models.Application
	err = models.Run(ctx, func(db *gorm.DB) error {
		if err := db.Preload("Reviewer").First(&review, task.ID).Error; err != nil {
			return err
		}
		return db.First(&app, review.ApplicationID).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Debug().Uint("review", task.ID).Msg("review not found")
		return nil
	}
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("%s completed a review of %q (score %.2f).",
		review.Reviewer.Name, app.StartupName, review.OverallScore)
	_, err = services.NotifyRole(ctx, models.RoleAdmin, services.KindReviewSubmitted, msg)
	return err
}

func HandleCloseExpired(ctx context.Context, t *asynq.Task) error {
	calls, opps, err := CloseExpired(ctx, time.Now())
	if err != nil {
		return err
	}
	log.Info().
		Int("calls", len(calls)).
		Int64("opportunities", opps).
		Msg("closed expired startup calls and sponsorship opportunities")
	return nil
}

// CloseExpired closes published calls and open sponsorship opportunities whose deadline is
// before now. Creators of closed calls are notified.
func CloseExpired(ctx context.Context, now time.Time) ([]models.StartupCall, int64, error) {
	var calls []models.StartupCall
	var opps int64

	err := models.Run(ctx, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			calls = nil
			if err := tx.Where("status = ? AND application_deadline < ?", models.CallPublished, now).
				Find(&calls).Error; err != nil {
				return err
			}
			if len(calls) > 0 {
				ids := make([]uint, 0, len(calls))
				for _, c := range calls {
					ids = append(ids, c.ID)
				}
				if err := tx.Model(&models.StartupCall{}).
					Where("id IN ?", ids).
					Update("status", models.CallClosed).Error; err != nil {
					return err
				}
			}

			res := tx.Model(&models.SponsorshipOpportunity{}).
				Where("status = ? AND deadline IS NOT NULL AND deadline < ?", models.OpportunityOpen, now).
				Update("status", models.OpportunityClosed)
			opps = res.RowsAffected
			return res.Error
		})
	})
	if err != nil {
		return nil, 0, err
	}

	for i := range calls {
		calls[i].Status = models.CallClosed
		if calls[i].CreatedByID == 0 {
			continue
		}
		msg := fmt.Sprintf("Startup call %q passed its deadline and was closed.", calls[i].Title)
		if err := services.Notify(ctx, calls[i].CreatedByID, services.KindCallClosed, msg); err != nil {
			log.Error().Err(err).Uint("call", calls[i].ID).Msg("failed to notify call owner")
		}
	}
	return calls, opps, nil
}

func humanize(status string) string {
	return strings.ToLower(strings.ReplaceAll(status, "_", " "))
}
