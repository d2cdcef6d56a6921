package internal

import (
	"log"

	"github.com/robfig/cron/v3"
)

const CRON_SCHEDULE_NOTIFICATIONS = "@every 1m"

// StartNotificationWatch periodically polls the unread-notification
// endpoint and logs the result, until the returned cron is stopped.
func StartNotificationWatch(client JikeClient) (*cron.Cron, error) {

	c := cron.New()

	log.Print("Starting CRON job to watch for unread notifications")

	if _, err := c.AddFunc(CRON_SCHEDULE_NOTIFICATIONS, func() {
		res, err := client.UnreadNotifications()
		if err != nil {
			log.Printf("Error fetching unread notifications: %v\n", err)
			return
		}
		summary, err := json.Marshal(res)
		if err != nil {
			log.Printf("Error encoding unread notifications: %v\n", err)
			return
		}
		log.Printf("unread: %s", summary)
	}); err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
