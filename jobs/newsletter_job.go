package jobs

import (
	"travel-booking-server/database"
	"travel-booking-server/logger"
	"travel-booking-server/models"
	"travel-booking-server/services"
)

// NewsletterTask is one bulk mailing: a subject and HTML body to deliver to
// every active subscriber.
type NewsletterTask struct {
	Subject string
	Body    string
}

// NewsletterJob drains a queue of newsletter tasks in the background so bulk
// delivery never blocks the admin request that triggered it.
type NewsletterJob struct {
	queue    chan NewsletterTask
	stopChan chan bool
	mail     *services.MailService
}

// NewNewsletterJob creates a newsletter job with a bounded queue.
func NewNewsletterJob(mail *services.MailService) *NewsletterJob {
	return &NewsletterJob{
		queue:    make(chan NewsletterTask, 16),
		stopChan: make(chan bool),
		mail:     mail,
	}
}

// Start begins draining the queue.
func (j *NewsletterJob) Start() {
	go j.run()
	logger.Info("newsletter job started")
}

// Stop stops the job.
func (j *NewsletterJob) Stop() {
	j.stopChan <- true
	logger.Info("newsletter job stopped")
}

// Enqueue queues a newsletter for delivery. Returns false if the queue is
// full.
func (j *NewsletterJob) Enqueue(task NewsletterTask) bool {
	select {
	case j.queue <- task:
		return true
	default:
		return false
	}
}

func (j *NewsletterJob) run() {
	for {
		select {
		case task := <-j.queue:
			j.dispatch(task)
		case <-j.stopChan:
			return
		}
	}
}

// dispatch mails one newsletter to every active subscriber. Individual
// failures are logged and skipped.
func (j *NewsletterJob) dispatch(task NewsletterTask) {
	var subscribers []models.Subscription
	if err := database.DB.Where("active = ?", true).Find(&subscribers).Error; err != nil {
		logger.Error("failed to load subscribers", "error", err)
		return
	}

	logger.Info("dispatching newsletter", "subject", task.Subject, "recipients", len(subscribers))

	for _, sub := range subscribers {
		if err := j.mail.Send(sub.Email, task.Subject, task.Body); err != nil {
			logger.Warn("newsletter delivery failed", "email", sub.Email, "error", err)
		}
	}
}
