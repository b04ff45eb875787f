package scheduler

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/cropwatch-lk/cropwatch-api/databases"
	"github.com/cropwatch-lk/cropwatch-api/escalation"
	"github.com/cropwatch-lk/cropwatch-api/models"
)

// Scheduler handles periodic housekeeping jobs: purging expired
// notifications and mailing the overdue-report digest to district officers
type Scheduler struct {
	cron       *cron.Cron
	NDB        databases.NotificationDatabase
	ODB        databases.OfficerDatabase
	Monitor    escalation.Monitor
	LockDB     databases.SchedulerLockDatabase
	instanceID string
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	nDB databases.NotificationDatabase,
	oDB databases.OfficerDatabase,
	monitor escalation.Monitor,
	lockDB databases.SchedulerLockDatabase,
) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO")
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		NDB:        nDB,
		ODB:        oDB,
		Monitor:    monitor,
		LockDB:     lockDB,
		instanceID: instanceID,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Purge expired notifications nightly at 1 AM UTC
	_, err := s.cron.AddFunc("0 1 * * *", s.purgeExpiredNotifications)
	if err != nil {
		zap.S().Errorw("failed to register notification purge job", "error", err)
	}

	// Mail the overdue-report digest to district officers every morning
	// at 2:30 AM UTC, which is start of day in Sri Lanka
	_, err = s.cron.AddFunc("30 2 * * *", s.sendEscalationDigest)
	if err != nil {
		zap.S().Errorw("failed to register escalation digest job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Housekeeping scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Housekeeping scheduler stopped")
}

// purgeExpiredNotifications deletes notifications past their TTL
func (s *Scheduler) purgeExpiredNotifications() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	acquired, err := s.LockDB.TryAcquireLock(ctx, "notification_purge_job", s.instanceID, 10*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for notification purge job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("Notification purge job already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, "notification_purge_job", s.instanceID)

	deleted, err := s.NDB.DeleteMany(ctx, bson.M{
		"expiresAt": bson.M{"$lt": primitive.NewDateTimeFromTime(time.Now())},
	})
	if err != nil {
		zap.S().Errorw("failed to purge expired notifications", "error", err)
		return
	}

	zap.S().Infow("Purged expired notifications",
		"deleted", deleted,
		"instance", s.instanceID,
	)
}

// sendEscalationDigest mails every district's overdue reports to its
// active officers
func (s *Scheduler) sendEscalationDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	acquired, err := s.LockDB.TryAcquireLock(ctx, "escalation_digest_job", s.instanceID, 10*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for escalation digest job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("Escalation digest job already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, "escalation_digest_job", s.instanceID)

	candidates, err := s.Monitor.Candidates(ctx, "")
	if err != nil {
		zap.S().Errorw("failed to compute overdue reports for digest", "error", err)
		return
	}
	if len(candidates) == 0 {
		zap.S().Info("No overdue reports, skipping escalation digest")
		return
	}

	byDistrict := map[string][]models.EscalationCandidate{}
	for _, candidate := range candidates {
		district := candidate.Report.District
		byDistrict[district] = append(byDistrict[district], candidate)
	}

	for district, overdue := range byDistrict {
		officers, err := s.ODB.Find(ctx, bson.M{"district": district, "active": true})
		if err != nil {
			zap.S().Errorw("failed to find officers for digest", "district", district, "error", err)
			continue
		}
		if len(officers) == 0 {
			zap.S().Warnw("no active officers for district with overdue reports",
				"district", district, "overdue", len(overdue))
			continue
		}

		subject := fmt.Sprintf("CropWatch: %d overdue disease reports in %s", len(overdue), district)
		html, plain := digestBody(district, overdue)
		for _, officer := range officers {
			if err := s.sendEmail(officer.Email, officer.Name, subject, html, plain); err != nil {
				zap.S().Errorw("failed to send escalation digest",
					"district", district, "officer", officer.ID.Hex(), "error", err)
			}
		}
	}

	zap.S().Infow("Escalation digest sent",
		"districts", len(byDistrict),
		"overdue", len(candidates),
		"instance", s.instanceID,
	)
}

func digestBody(district string, overdue []models.EscalationCandidate) (html, plain string) {
	var hb, pb strings.Builder
	hb.WriteString(fmt.Sprintf("<h3>Overdue disease reports in %s</h3><ul>", district))
	pb.WriteString(fmt.Sprintf("Overdue disease reports in %s\n\n", district))
	for _, c := range overdue {
		line := fmt.Sprintf("%s in %s (%s), priority %s, %.1fh overdue",
			c.Report.Disease, c.Report.GnDivision, c.Report.Crop, c.Report.Priority, c.HoursOverdue)
		hb.WriteString("<li>" + line + "</li>")
		pb.WriteString("- " + line + "\n")
	}
	hb.WriteString("</ul>")
	return hb.String(), pb.String()
}

func (s *Scheduler) sendEmail(toEmail, toName, subject, htmlContent, plainText string) error {
	from := mail.NewEmail("CropWatch", "no-reply@cropwatch.lk")
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
	}
	return nil
}
