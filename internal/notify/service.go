package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"makerslot/internal/logger"
	"makerslot/internal/metrics"
	"makerslot/internal/schedule"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey       = "notifications"
	failedQueueKey = "notifications:failed"
	maxTries       = 3
)

type Job struct {
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Type    string    `json:"type"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Service queues reservation notifications on redis and delivers them from
// a background worker. Everything is fire-and-forget: a queue or delivery
// failure is logged and never surfaces to the booking path.
type Service struct {
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

func (s *Service) enqueue(ctx context.Context, job Job) {
	job.Created = time.Now()

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal notification: %v", err)
		return
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Errorf("Failed to queue notification to %s: %v", job.To, err)
		metrics.RecordNotification(job.Type, "queue_failed")
		return
	}

	logger.Infof("Notification queued: %s to %s", job.Subject, job.To)
}

func slotText(r *schedule.Reservation) string {
	return fmt.Sprintf("%s to %s",
		r.Start.Format("Jan 2, 2006 at 3:04 PM"),
		r.End.Format("3:04 PM"))
}

func (s *Service) ReservationConfirmed(ctx context.Context, r *schedule.Reservation) {
	body := fmt.Sprintf(`Hi,

Your reservation is confirmed.

Resource: %s
Time: %s
Reservation: %s

- MakerSlot`, r.ResourceID, slotText(r), r.ID)

	s.enqueue(ctx, Job{
		To:      r.Requester,
		Subject: "Reservation Confirmed - " + r.ResourceID,
		Body:    body,
		Type:    "confirmed",
	})
}

func (s *Service) ReservationCancelled(ctx context.Context, r *schedule.Reservation) {
	body := fmt.Sprintf(`Hi,

Your reservation has been cancelled.

Resource: %s
Time: %s
Reservation: %s

- MakerSlot`, r.ResourceID, slotText(r), r.ID)

	s.enqueue(ctx, Job{
		To:      r.Requester,
		Subject: "Reservation Cancelled - " + r.ResourceID,
		Body:    body,
		Type:    "cancelled",
	})
}

func (s *Service) ReservationRescheduled(ctx context.Context, old, replacement *schedule.Reservation) {
	body := fmt.Sprintf(`Hi,

Your reservation has been moved.

Resource: %s
Was: %s
Now: %s
Reservation: %s

- MakerSlot`, replacement.ResourceID, slotText(old), slotText(replacement), replacement.ID)

	s.enqueue(ctx, Job{
		To:      replacement.Requester,
		Subject: "Reservation Rescheduled - " + replacement.ResourceID,
		Body:    body,
		Type:    "rescheduled",
	})
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Notification worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}
	metrics.NotificationQueueLength.Set(float64(s.QueueLength(ctx)))

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad notification data: %v", err)
		return
	}

	job.Tries++
	if err := s.sendNow(job); err != nil {
		logger.Errorf("Failed to send notification to %s: %v", job.To, err)

		if job.Tries < maxTries {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
		} else {
			logger.Errorf("Notification to %s failed after %d attempts", job.To, maxTries)
			metrics.RecordNotification(job.Type, "failed")
			s.saveFailed(job, err)
		}
		return
	}

	metrics.RecordNotification(job.Type, "sent")
	logger.Infof("Notification sent to %s", job.To)
}

func (s *Service) sendNow(job Job) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job Job, sendErr error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": sendErr.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, data)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
