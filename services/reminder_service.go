// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"hvacpro-backend/models"
	"hvacpro-backend/utils"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewReminderService(db *gorm.DB) *ReminderService {
	// Initialize Twilio client
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

// StartScheduler sends next-day job reminders every morning at 7 AM
func (s *ReminderService) StartScheduler() {
	c := cron.New()

	if _, err := c.AddFunc("0 7 * * *", s.SendDailyReminders); err != nil {
		log.Printf("Failed to schedule daily reminders: %v", err)
		return
	}

	c.Start()
	log.Println("Reminder scheduler started")
}

// SendDailyReminders notifies customers of every opted-in user about jobs
// scheduled for tomorrow.
func (s *ReminderService) SendDailyReminders() {
	log.Println("Starting daily reminder processing...")

	var users []models.User
	if err := s.db.Find(&users, "sms_reminders = ?", true).Error; err != nil {
		log.Printf("Failed to fetch users: %v", err)
		return
	}

	for _, user := range users {
		s.ProcessUserReminders(user.ID)
	}

	log.Println("Daily reminder processing completed")
}

func (s *ReminderService) ProcessUserReminders(userID uuid.UUID) {
	tasks, err := s.getTomorrowsTasks(userID)
	if err != nil {
		log.Printf("User %s: Failed to get tomorrow's jobs: %v", userID, err)
		return
	}
	s.sendReminders(userID, tasks)
}

// getTomorrowsTasks returns the user's jobs still scheduled for tomorrow
func (s *ReminderService) getTomorrowsTasks(userID uuid.UUID) ([]models.Task, error) {
	dayStart := utils.BeginningOfDay(time.Now()).AddDate(0, 0, 1)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var tasks []models.Task
	err := s.db.Preload("Site").
		Joins("JOIN sites ON sites.id = tasks.site_id").
		Joins("JOIN customers ON customers.id = sites.customer_id").
		Where("customers.user_id = ? AND tasks.status = ? AND tasks.scheduled_at >= ? AND tasks.scheduled_at < ?",
			userID, models.TaskStatusScheduled, dayStart, dayEnd).
		Find(&tasks).Error
	return tasks, err
}

func (s *ReminderService) sendReminders(userID uuid.UUID, tasks []models.Task) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		log.Printf("Failed to load user %s: %v", userID, err)
		return
	}

	company := user.CompanyName
	if company == "" {
		company = user.Name
	}

	for _, task := range tasks {
		var customer models.Customer
		if err := s.db.First(&customer, "id = ?", task.Site.CustomerID).Error; err != nil {
			log.Printf("Failed to load customer for job %s: %v", task.ID, err)
			continue
		}
		if customer.Phone == "" {
			continue
		}

		message := fmt.Sprintf("Hi %s, a reminder from %s: %s is scheduled tomorrow at %s, %s (%s).",
			customer.Name, company, task.Title,
			task.Site.AddressLine1, task.Site.City,
			task.ScheduledAt.Format("15:04"))

		// Determine channel (WhatsApp if available, else SMS)
		channel := "sms"
		var to string
		if strings.HasPrefix(customer.Phone, "+") {
			to = "whatsapp:" + customer.Phone
			channel = "whatsapp"
		} else {
			to = customer.Phone
		}

		params := &twilioApi.CreateMessageParams{}
		params.SetTo(to)
		params.SetBody(message)

		if channel == "whatsapp" {
			params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
		} else {
			params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
		}

		resp, err := s.client.Api.CreateMessage(params)
		status := "sent"
		errorMsg := ""

		if err != nil {
			log.Printf("Failed to send message to %s: %v", customer.Phone, err)
			status = "failed"
			errorMsg = err.Error()
		} else if resp.Sid != nil {
			log.Printf("Message sent to %s, SID: %s", customer.Phone, *resp.Sid)
		} else {
			log.Printf("Message sent to %s, but no SID returned", customer.Phone)
		}

		reminderLog := models.ReminderLog{
			UserID:       userID,
			CustomerID:   customer.ID,
			TaskID:       task.ID,
			Message:      message,
			Status:       status,
			ErrorMessage: errorMsg,
			Channel:      channel,
			SentAt:       time.Now(),
		}

		if err := s.db.Create(&reminderLog).Error; err != nil {
			log.Printf("Failed to log reminder for customer %s: %v", customer.ID, err)
		}
	}
}
